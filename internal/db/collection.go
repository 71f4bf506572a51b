package db

import (
	"context"

	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarCollection defines the interface for car directory operations.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) (*models.Car, error)
	FindCars(ctx context.Context) ([]models.Car, error)
	FindCarByID(ctx context.Context, id string) (*models.Car, error)
	UpdateCar(ctx context.Context, id string, car models.CarUpdate) (*models.Car, error)
	DeleteCar(ctx context.Context, id string) error
	SetCarAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
	ReserveCar(ctx context.Context, id primitive.ObjectID) error
}

// BookingCollection defines the interface for active booking operations.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	FindBookings(ctx context.Context) ([]models.Booking, error)
	FindBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// BookingHistoryCollection defines the interface for the booking archive.
// Records are never updated once inserted.
type BookingHistoryCollection interface {
	InsertBookingHistory(ctx context.Context, record models.BookingHistory) (*models.BookingHistory, error)
	FindBookingHistory(ctx context.Context) ([]models.BookingHistoryView, error)
	FindBookingHistoryByID(ctx context.Context, id string) (*models.BookingHistoryView, error)
	FindBookingHistoryByEmail(ctx context.Context, email string) ([]models.BookingHistoryView, error)
	SearchBookingHistory(ctx context.Context, query string) ([]models.BookingHistoryView, error)
	BookingHistoryStats(ctx context.Context) (models.BookingHistoryStats, error)
	DeleteBookingHistory(ctx context.Context, id string) error
}

// ReviewCollection defines the interface for review operations.
type ReviewCollection interface {
	InsertReview(ctx context.Context, review models.Review) (*models.Review, error)
	FindReviews(ctx context.Context) ([]models.Review, error)
	DeleteReview(ctx context.Context, id string) error
}
