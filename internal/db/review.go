package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewCollection implements ReviewCollection for MongoDB.
type MongoReviewCollection struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// InsertReview inserts a review.
func (c *MongoReviewCollection) InsertReview(ctx context.Context, review models.Review) (*models.Review, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now().UTC()
	if _, err := c.Collection.InsertOne(ctx, review); err != nil {
		return nil, writeError("insert review", err)
	}
	return &review, nil
}

// FindReviews returns all reviews, newest first.
func (c *MongoReviewCollection) FindReviews(ctx context.Context) ([]models.Review, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	ctx, cancel := opContext(ctx, c.Timeout)
	defer cancel()

	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

// DeleteReview deletes a review by its ID.
func (c *MongoReviewCollection) DeleteReview(ctx context.Context, id string) error {
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
		return fmt.Errorf("delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
