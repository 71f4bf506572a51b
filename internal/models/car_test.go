package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCarRequest_ToCar(t *testing.T) {
	unavailable := false

	tests := []struct {
		name      string
		req       CarRequest
		available bool
	}{
		{"availability defaults to true", CarRequest{CarID: "KA-01", Name: "Swift", Model: "VXi", Passengers: 4}, true},
		{"explicit unavailable", CarRequest{CarID: "KA-02", Name: "Innova", Model: "Crysta", Availability: &unavailable}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := tt.req.ToCar()
			assert.Equal(t, tt.req.CarID, car.CarID)
			assert.Equal(t, tt.req.Name, car.Name)
			assert.Equal(t, tt.req.Passengers, car.Passengers)
			assert.Equal(t, tt.available, car.Availability)
			assert.True(t, car.ID.IsZero())
		})
	}
}

func TestCarRequest_ToUpdate(t *testing.T) {
	req := CarRequest{CarID: "KA-01", Name: "Allion", Model: "Toyota", Passengers: 4}
	update := req.ToUpdate()
	assert.Nil(t, update.Availability)
	assert.Equal(t, "Allion", update.Name)

	available := true
	req.Availability = &available
	update = req.ToUpdate()
	if assert.NotNil(t, update.Availability) {
		assert.True(t, *update.Availability)
	}
}

func TestCar_Editable(t *testing.T) {
	car := Car{CarID: "KA-01", Name: "Swift", ImageURL: "https://img/x.jpg", Availability: true}
	update := car.Editable()
	assert.Nil(t, update.Availability)
	assert.Equal(t, "https://img/x.jpg", update.ImageURL)
}

func TestBookingRequest_ToBooking(t *testing.T) {
	total := 250.0
	start := time.Now()
	carID := primitive.NewObjectID()

	req := BookingRequest{
		Car:         carID.Hex(),
		Name:        "Bob",
		Phone:       "0722000000",
		StartDate:   start,
		EndDate:     start.Add(24 * time.Hour),
		WithDriver:  true,
		TotalAmount: &total,
	}

	b := req.ToBooking(carID)
	assert.Equal(t, carID, b.Car)
	assert.Equal(t, PaymentMethodCash, b.PaymentMethod)
	assert.Equal(t, 250.0, b.TotalAmount)
	assert.Zero(t, b.PaidAmount)
	assert.True(t, b.WithDriver)
	assert.False(t, b.IsAdminBooking)

	req.PaymentMethod = "card"
	assert.Equal(t, "card", req.ToBooking(carID).PaymentMethod)
}
