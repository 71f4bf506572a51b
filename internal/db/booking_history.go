package db

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingHistoryCollection implements BookingHistoryCollection for MongoDB.
// Car references are resolved against the cars collection of the same database.
type MongoBookingHistoryCollection struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// historyPipeline filters the archive, sorts it newest first and resolves
// each car reference to {_id, model, carId}.
func historyPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "completedAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CarsCollection},
			{Key: "let", Value: bson.D{{Key: "carRef", Value: "$car"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$carRef"}}}}}}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "model", Value: 1}, {Key: "carId", Value: 1}}}},
			}},
			{Key: "as", Value: "car"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$car"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// searchFilter matches the query as a case-insensitive substring of the
// name, email or phone.
func searchFilter(query string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
		bson.M{"phone": pattern},
	}}
}

// statsPipeline computes all summary counters in one pass.
func statsPipeline() mongo.Pipeline {
	countIf := func(field string) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$" + field, true}}}, 1, 0}}}}}
	}
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalBookings", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "weddingBookings", Value: countIf("weddingPurpose")},
			{Key: "driverBookings", Value: countIf("withDriver")},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
	}
}

// InsertBookingHistory archives a completed booking. Missing payment method
// and timestamps are defaulted.
func (c *MongoBookingHistoryCollection) InsertBookingHistory(ctx context.Context, record models.BookingHistory) (*models.BookingHistory, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	now := time.Now().UTC()
	record.ID = primitive.NewObjectID()
	if record.PaymentMethod == "" {
		record.PaymentMethod = models.PaymentMethodCash
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = now
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	if _, err := c.Collection.InsertOne(ctx, record); err != nil {
		return nil, writeError("insert booking history", err)
	}
	return &record, nil
}

func (c *MongoBookingHistoryCollection) aggregate(ctx context.Context, match bson.M) ([]models.BookingHistoryView, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	cursor, err := c.Collection.Aggregate(ctx, historyPipeline(match))
	if err != nil {
		return nil, fmt.Errorf("aggregate booking history: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.BookingHistoryView{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode booking history: %w", err)
	}
	return records, nil
}

// FindBookingHistory returns the whole archive.
func (c *MongoBookingHistoryCollection) FindBookingHistory(ctx context.Context) ([]models.BookingHistoryView, error) {
	return c.aggregate(ctx, bson.M{})
}

// FindBookingHistoryByID returns one archived record.
func (c *MongoBookingHistoryCollection) FindBookingHistoryByID(ctx context.Context, id string) (*models.BookingHistoryView, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	records, err := c.aggregate(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

// FindBookingHistoryByEmail returns the records with exactly this email.
func (c *MongoBookingHistoryCollection) FindBookingHistoryByEmail(ctx context.Context, email string) ([]models.BookingHistoryView, error) {
	return c.aggregate(ctx, bson.M{"email": email})
}

// SearchBookingHistory returns records whose name, email or phone contains query.
func (c *MongoBookingHistoryCollection) SearchBookingHistory(ctx context.Context, query string) ([]models.BookingHistoryView, error) {
	return c.aggregate(ctx, searchFilter(query))
}

type historyTotals struct {
	TotalBookings   int64   `bson:"totalBookings"`
	WeddingBookings int64   `bson:"weddingBookings"`
	DriverBookings  int64   `bson:"driverBookings"`
	TotalRevenue    float64 `bson:"totalRevenue"`
}

// BookingHistoryStats summarises the archive. An empty archive yields zeros.
func (c *MongoBookingHistoryCollection) BookingHistoryStats(ctx context.Context) (models.BookingHistoryStats, error) {
	if c.Collection == nil {
		return models.BookingHistoryStats{}, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	cursor, err := c.Collection.Aggregate(ctx, statsPipeline())
	if err != nil {
		return models.BookingHistoryStats{}, fmt.Errorf("aggregate booking history stats: %w", err)
	}
	defer cursor.Close(ctx)

	var totals historyTotals
	if cursor.Next(ctx) {
		if err := cursor.Decode(&totals); err != nil {
			return models.BookingHistoryStats{}, fmt.Errorf("decode booking history stats: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return models.BookingHistoryStats{}, fmt.Errorf("read booking history stats: %w", err)
	}
	return models.NewBookingHistoryStats(totals.TotalBookings, totals.WeddingBookings, totals.DriverBookings, totals.TotalRevenue), nil
}

// DeleteBookingHistory permanently removes an archived record.
func (c *MongoBookingHistoryCollection) DeleteBookingHistory(ctx context.Context, id string) error {
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
		return fmt.Errorf("delete booking history: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
