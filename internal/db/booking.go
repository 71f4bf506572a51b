package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// InsertBooking inserts a booking and returns it with its generated ID.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now().UTC()
	if booking.PaymentMethod == "" {
		booking.PaymentMethod = models.PaymentMethodCash
	}

	if _, err := c.Collection.InsertOne(ctx, booking); err != nil {
		return nil, writeError("insert booking", err)
	}
	return &booking, nil
}

// FindBookings returns all active bookings, newest first.
func (c *MongoBookingCollection) FindBookings(ctx context.Context) ([]models.Booking, error) {
	return c.find(ctx, bson.M{})
}

// FindBookingsByUser returns the active bookings made by one user.
func (c *MongoBookingCollection) FindBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return c.find(ctx, bson.M{"user": userID})
}

func (c *MongoBookingCollection) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// FindBookingByID finds a booking by its ID.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	var booking models.Booking
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &booking, nil
}

// DeleteBooking removes an active booking.
func (c *MongoBookingCollection) DeleteBooking(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if c.Collection == nil {
		return errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
