package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Event topics, relative to the configured prefix.
const (
	CarCreated             = "cars/created"
	CarUpdated             = "cars/updated"
	CarDeleted             = "cars/deleted"
	BookingCreated         = "bookings/created"
	BookingCompleted       = "bookings/completed"
	BookingCancelled       = "bookings/cancelled"
	BookingHistoryArchived = "booking-history/archived"
	BookingHistoryDeleted  = "booking-history/deleted"
)

// Publisher announces domain changes. Publishing never fails the caller.
type Publisher interface {
	Publish(topic string, data interface{})
}

// Envelope is the JSON payload written to the broker.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Discard drops every event. Used when no broker is configured.
type Discard struct{}

// Publish does nothing.
func (Discard) Publish(string, interface{}) {}

// MQTTPublisher publishes events with QoS 1 under a topic prefix.
type MQTTPublisher struct {
	client  mqtt.Client
	prefix  string
	timeout time.Duration
}

// ConnectMQTT connects to the broker and returns a publisher.
func ConnectMQTT(broker, clientID, prefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return NewMQTTPublisher(client, prefix), nil
}

// NewMQTTPublisher wraps an already configured client.
func NewMQTTPublisher(client mqtt.Client, prefix string) *MQTTPublisher {
	return &MQTTPublisher{
		client:  client,
		prefix:  strings.TrimSuffix(prefix, "/"),
		timeout: 5 * time.Second,
	}
}

// Topic returns the full broker topic for an event type.
func (p *MQTTPublisher) Topic(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "/" + eventType
}

// Publish sends the event asynchronously and logs delivery failures.
func (p *MQTTPublisher) Publish(eventType string, data interface{}) {
	payload, err := json.Marshal(Envelope{Type: eventType, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		log.WithError(err).WithField("event", eventType).Error("Failed to marshal event")
		return
	}

	topic := p.Topic(eventType)
	token := p.client.Publish(topic, 1, false, payload)
	go func() {
		if !token.WaitTimeout(p.timeout) {
			log.WithField("topic", topic).Warn("Timed out publishing event")
			return
		}
		if err := token.Error(); err != nil {
			log.WithError(err).WithField("topic", topic).Error("Failed to publish event")
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
