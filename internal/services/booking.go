package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/cache"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/events"
	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrCarUnavailable is returned when booking a car that is already out.
	ErrCarUnavailable = errors.New("car is not available")
	// ErrCarNotFound is returned when a booking references an unknown car.
	ErrCarNotFound = fmt.Errorf("car: %w", db.ErrNotFound)
)

// BookingService runs the active booking lifecycle.
type BookingService struct {
	bookings  db.BookingCollection
	cars      db.CarCollection
	history   db.BookingHistoryCollection
	stats     cache.StatsCache
	publisher events.Publisher
	now       func() time.Time
}

// NewBookingService wires the booking lifecycle. stats may be nil.
func NewBookingService(bookings db.BookingCollection, cars db.CarCollection, history db.BookingHistoryCollection,
	stats cache.StatsCache, publisher events.Publisher) *BookingService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &BookingService{
		bookings:  bookings,
		cars:      cars,
		history:   history,
		stats:     stats,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create books an available car. userID is nil for walk-in bookings.
// The car is reserved with a conditional write before the booking is
// stored, and released again if the insert fails.
func (s *BookingService) Create(ctx context.Context, req models.BookingRequest, userID *primitive.ObjectID, isAdmin bool) (*models.Booking, error) {
	car, err := s.cars.FindCarByID(ctx, req.Car)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	if !car.Availability {
		return nil, ErrCarUnavailable
	}

	switch err := s.cars.ReserveCar(ctx, car.ID); {
	case errors.Is(err, db.ErrUnavailable):
		return nil, ErrCarUnavailable
	case errors.Is(err, db.ErrNotFound):
		return nil, ErrCarNotFound
	case err != nil:
		return nil, err
	}

	booking := req.ToBooking(car.ID)
	booking.User = userID
	booking.IsAdminBooking = isAdmin

	created, err := s.bookings.InsertBooking(ctx, booking)
	if err != nil {
		if relErr := s.cars.SetCarAvailability(ctx, car.ID, true); relErr != nil {
			log.WithError(relErr).WithField("car_id", car.CarID).Error("Failed to release car after booking insert failed")
		}
		return nil, err
	}

	s.publisher.Publish(events.BookingCreated, created)
	return created, nil
}

func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.FindBookings(ctx)
}

// ListMine returns the bookings owned by the given user id.
func (s *BookingService) ListMine(ctx context.Context, userID string) ([]models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.Booking{}, nil
	}
	return s.bookings.FindBookingsByUser(ctx, oid)
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookings.FindBookingByID(ctx, id)
}

// Complete archives a booking, removes it from the active set and
// releases its car. The steps are not transactional: the archive insert
// comes first and the unique bookingId index rejects a second archive.
func (s *BookingService) Complete(ctx context.Context, id string) (*models.BookingHistory, error) {
	booking, err := s.bookings.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record, err := s.history.InsertBookingHistory(ctx, models.HistoryFromBooking(*booking, s.now().UTC()))
	if err != nil {
		return nil, err
	}

	logger := log.WithField("booking_id", id)
	if err := s.bookings.DeleteBooking(ctx, id); err != nil && !errors.Is(err, db.ErrNotFound) {
		logger.WithError(err).Error("Archived booking could not be removed")
	}
	if err := s.cars.SetCarAvailability(ctx, booking.Car, true); err != nil {
		logger.WithError(err).Error("Failed to release car after completion")
	}
	invalidateStats(ctx, s.stats)

	s.publisher.Publish(events.BookingCompleted, booking)
	s.publisher.Publish(events.BookingHistoryArchived, record)
	return record, nil
}

// Cancel removes a booking without archiving it and releases the car.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.bookings.FindBookingByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return err
	}
	if err := s.cars.SetCarAvailability(ctx, booking.Car, true); err != nil {
		log.WithError(err).WithField("booking_id", id).Error("Failed to release car after cancellation")
	}
	s.publisher.Publish(events.BookingCancelled, booking)
	return nil
}

func invalidateStats(ctx context.Context, stats cache.StatsCache) {
	if stats == nil {
		return
	}
	if err := stats.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate booking history stats cache")
	}
}
