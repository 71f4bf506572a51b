package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is customer feedback shown on the public site.
type Review struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	User      *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Rating    int                 `bson:"rating" json:"rating"`
	Comment   string              `bson:"comment" json:"comment"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// ReviewRequest is the validated body for posting a review.
type ReviewRequest struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,max=2000"`
}
