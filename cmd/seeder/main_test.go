package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRandomCar(t *testing.T) {
	car := randomCar(7)
	assert.Equal(t, "CAR-007", car.CarID)
	assert.NotEmpty(t, car.Name)
	assert.NotEmpty(t, car.Model)
	assert.Greater(t, car.Passengers, 0)
}

func TestRandomBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		b := randomBooking("66a000000000000000000001", now)
		assert.True(t, b.EndDate.After(b.StartDate))
		require.NotNil(t, b.TotalAmount)
		assert.Greater(t, *b.TotalAmount, 0.0)
		assert.Equal(t, *b.TotalAmount, b.PaidAmount)
		assert.Contains(t, paymentMethods, b.PaymentMethod)
	}
}

// fakeAPI records calls and answers like the rental API.
func fakeAPI(t *testing.T, token string) (*httptest.Server, *int32, *int32) {
	t.Helper()
	var bookings, completions int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cars", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		var req models.CarRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Car{ID: primitive.NewObjectID(), CarID: req.CarID})
	})
	mux.HandleFunc("/api/bookings", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&bookings, 1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Booking{ID: primitive.NewObjectID()})
	})
	mux.HandleFunc("/api/bookings/", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/complete"))
		atomic.AddInt32(&completions, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &bookings, &completions
}

func TestSeed(t *testing.T) {
	authToken = "seed-token"
	defer func() { authToken = "" }()
	server, bookings, completions := fakeAPI(t, "seed-token")

	cars, archived := seed(server.URL+"/api", 3, 0)
	assert.Equal(t, 3, cars)
	assert.Equal(t, 3, archived)
	assert.Equal(t, int32(3), atomic.LoadInt32(bookings))
	assert.Equal(t, int32(3), atomic.LoadInt32(completions))
}

func TestSeed_KeepsActiveBookings(t *testing.T) {
	authToken = "seed-token"
	defer func() { authToken = "" }()
	server, _, completions := fakeAPI(t, "seed-token")

	cars, archived := seed(server.URL+"/api", 2, 1)
	assert.Equal(t, 2, cars)
	assert.Equal(t, 0, archived)
	assert.Equal(t, int32(0), atomic.LoadInt32(completions))
}

func TestCreateCar_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := createCar(server.URL+"/api", 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
