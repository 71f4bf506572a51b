package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/models"
)

type carSpec struct {
	Name           string
	Model          string
	Passengers     int
	FuelEfficiency string
}

var catalog = []carSpec{
	{Name: "Axio", Model: "Toyota", Passengers: 4, FuelEfficiency: "15 km/l"},
	{Name: "Premio", Model: "Toyota", Passengers: 4, FuelEfficiency: "13 km/l"},
	{Name: "Prius", Model: "Toyota", Passengers: 4, FuelEfficiency: "22 km/l"},
	{Name: "Vezel", Model: "Honda", Passengers: 4, FuelEfficiency: "18 km/l"},
	{Name: "Grace", Model: "Honda", Passengers: 4, FuelEfficiency: "20 km/l"},
	{Name: "KDH", Model: "Toyota", Passengers: 14, FuelEfficiency: "9 km/l"},
	{Name: "Montero", Model: "Mitsubishi", Passengers: 7, FuelEfficiency: "8 km/l"},
	{Name: "Benz E200", Model: "Mercedes-Benz", Passengers: 4, FuelEfficiency: "11 km/l"},
}

var customers = []struct{ Name, Phone, Email string }{
	{"Nimal Perera", "0771234567", "nimal@example.com"},
	{"Kasuni Silva", "0712345678", "kasuni@example.com"},
	{"Ruwan Fernando", "0769876543", "ruwan@example.com"},
	{"Dilini Jayasinghe", "0754567890", ""},
}

var paymentMethods = []string{"cash", "card", "bank_transfer", "mobile_money"}

var authToken string

var httpClient = &http.Client{Timeout: 10 * time.Second}

func authorizedPost(url string, contentType string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	return httpClient.Do(req)
}

// postJSON sends v and decodes the response into out when the status matches.
func postJSON(url string, v interface{}, wantStatus int, out interface{}) error {
	var buf bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := authorizedPost(url, "application/json", &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s failed with status: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func randomCar(index int) models.CarRequest {
	spec := catalog[rand.Intn(len(catalog))]
	return models.CarRequest{
		CarID:          fmt.Sprintf("CAR-%03d", index),
		Name:           spec.Name,
		Model:          spec.Model,
		Passengers:     spec.Passengers,
		FuelEfficiency: spec.FuelEfficiency,
	}
}

func createCar(apiURL string, index int) (string, error) {
	car := randomCar(index)
	var created models.Car
	if err := postJSON(apiURL+"/cars", car, http.StatusCreated, &created); err != nil {
		return "", fmt.Errorf("failed to create car: %w", err)
	}

	log.WithFields(log.Fields{
		"id":     created.ID.Hex(),
		"car_id": car.CarID,
		"name":   car.Name,
	}).Info("Created car")
	return created.ID.Hex(), nil
}

func randomBooking(carID string, now time.Time) models.BookingRequest {
	customer := customers[rand.Intn(len(customers))]
	days := 1 + rand.Intn(7)
	start := now.AddDate(0, 0, -rand.Intn(60)).Truncate(24 * time.Hour)
	total := float64(days) * (5000 + float64(rand.Intn(10))*1000)

	return models.BookingRequest{
		Car:            carID,
		Name:           customer.Name,
		Phone:          customer.Phone,
		Email:          customer.Email,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, days),
		WithDriver:     rand.Intn(2) == 0,
		WeddingPurpose: rand.Intn(5) == 0,
		TotalAmount:    &total,
		PaidAmount:     total,
		PaymentMethod:  paymentMethods[rand.Intn(len(paymentMethods))],
	}
}

func createBooking(apiURL, carID string) (string, error) {
	var created models.Booking
	if err := postJSON(apiURL+"/bookings", randomBooking(carID, time.Now()), http.StatusCreated, &created); err != nil {
		return "", fmt.Errorf("failed to create booking: %w", err)
	}
	return created.ID.Hex(), nil
}

func completeBooking(apiURL, bookingID string) error {
	if err := postJSON(apiURL+"/bookings/"+bookingID+"/complete", nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	log.WithField("booking_id", bookingID).Info("Archived booking")
	return nil
}

// seed creates cars and, for each, one booking that is archived
// unless it falls in the still-active share.
func seed(apiURL string, carCount int, activeShare float64) (cars, archived int) {
	for i := 1; i <= carCount; i++ {
		carID, err := createCar(apiURL, i)
		if err != nil {
			log.WithError(err).Error("Failed to create car")
			continue
		}
		cars++

		bookingID, err := createBooking(apiURL, carID)
		if err != nil {
			log.WithError(err).WithField("car", carID).Error("Failed to create booking")
			continue
		}
		if rand.Float64() < activeShare {
			continue
		}
		if err := completeBooking(apiURL, bookingID); err != nil {
			log.WithError(err).WithField("booking", bookingID).Error("Failed to archive booking")
			continue
		}
		archived++
	}
	return cars, archived
}

func main() {
	// Car and booking management requires an admin token.
	authToken = os.Getenv("SEED_AUTH_TOKEN")

	carCount := 8
	if val := os.Getenv("SEED_CARS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			carCount = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	log.WithFields(log.Fields{
		"cars":    carCount,
		"api_url": apiURL,
	}).Info("Seeding demo data")

	cars, archived := seed(apiURL, carCount, 0.25)

	log.WithFields(log.Fields{"cars": cars, "archived": archived}).Info("Seeding completed")
	if cars == 0 {
		log.Error("No cars created. Ensure SEED_AUTH_TOKEN is an admin token and the API is reachable.")
		os.Exit(1)
	}
}
