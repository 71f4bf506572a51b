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

// MongoCarCollection implements CarCollection for MongoDB.
type MongoCarCollection struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// InsertCar inserts a car and returns it with its generated ID.
func (c *MongoCarCollection) InsertCar(ctx context.Context, car models.Car) (*models.Car, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	now := time.Now().UTC()
	car.ID = primitive.NewObjectID()
	car.CreatedAt = now
	car.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, car); err != nil {
		return nil, writeError("insert car", err)
	}
	return &car, nil
}

// FindCars returns every car in the directory.
func (c *MongoCarCollection) FindCars(ctx context.Context) ([]models.Car, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find cars: %w", err)
	}
	defer cursor.Close(ctx)

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}
	return cars, nil
}

// FindCarByID finds a car by its ID.
func (c *MongoCarCollection) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	var car models.Car
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find car: %w", err)
	}
	return &car, nil
}

// UpdateCar replaces the editable fields of a car and returns the result.
// Availability is written only when the update sets it.
func (c *MongoCarCollection) UpdateCar(ctx context.Context, id string, car models.CarUpdate) (*models.Car, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	fields := bson.M{
		"carId":          car.CarID,
		"name":           car.Name,
		"model":          car.Model,
		"imageUrl":       car.ImageURL,
		"passengers":     car.Passengers,
		"fuelEfficiency": car.FuelEfficiency,
		"updatedAt":      time.Now().UTC(),
	}
	if car.Availability != nil {
		fields["availability"] = *car.Availability
	}
	update := bson.M{"$set": fields}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Car
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, writeError("update car", err)
	}
	return &updated, nil
}

// DeleteCar deletes a car by its ID. It returns ErrNotFound when nothing was
// removed; callers decide whether that matters.
func (c *MongoCarCollection) DeleteCar(ctx context.Context, id string) error {
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
		return fmt.Errorf("delete car: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCarAvailability flips the availability flag of a car.
func (c *MongoCarCollection) SetCarAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	if c.Collection == nil {
		return errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"availability": available, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set car availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReserveCar marks an available car as taken in a single conditional write,
// so two callers cannot both reserve it. It returns ErrUnavailable when the
// car exists but is already out.
func (c *MongoCarCollection) ReserveCar(ctx context.Context, id primitive.ObjectID) error {
	if c.Collection == nil {
		return errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "availability": true},
		bson.M{"$set": bson.M{"availability": false, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("reserve car: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := c.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("reserve car: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrUnavailable
}
