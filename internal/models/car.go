package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Car represents a rentable vehicle in the directory.
type Car struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CarID          string             `bson:"carId" json:"carId"`
	Name           string             `bson:"name" json:"name"`
	Model          string             `bson:"model" json:"model"`
	ImageURL       string             `bson:"imageUrl" json:"imageUrl"`
	Passengers     int                `bson:"passengers" json:"passengers"`
	FuelEfficiency string             `bson:"fuelEfficiency" json:"fuelEfficiency"` // e.g. "15 km/l"
	Availability   bool               `bson:"availability" json:"availability"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CarSummary is the projection of a car embedded in booking history listings.
type CarSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Model string             `bson:"model" json:"model"`
	CarID string             `bson:"carId" json:"carId"`
}

// CarRequest is the validated body for creating or replacing a car.
type CarRequest struct {
	CarID          string `json:"carId" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Model          string `json:"model" binding:"required"`
	ImageURL       string `json:"imageUrl" binding:"omitempty,url"`
	Passengers     int    `json:"passengers" binding:"gte=0"`
	FuelEfficiency string `json:"fuelEfficiency"`
	Availability   *bool  `json:"availability"`
}

// ToCar converts the request into a Car. Availability defaults to true.
func (r CarRequest) ToCar() Car {
	available := true
	if r.Availability != nil {
		available = *r.Availability
	}
	return Car{
		CarID:          r.CarID,
		Name:           r.Name,
		Model:          r.Model,
		ImageURL:       r.ImageURL,
		Passengers:     r.Passengers,
		FuelEfficiency: r.FuelEfficiency,
		Availability:   available,
	}
}

// CarUpdate holds the editable fields of a car. A nil Availability leaves
// the stored flag untouched; the booking flow owns it.
type CarUpdate struct {
	CarID          string
	Name           string
	Model          string
	ImageURL       string
	Passengers     int
	FuelEfficiency string
	Availability   *bool
}

// ToUpdate converts the request into a CarUpdate. Availability is carried
// only when the request sets it.
func (r CarRequest) ToUpdate() CarUpdate {
	return CarUpdate{
		CarID:          r.CarID,
		Name:           r.Name,
		Model:          r.Model,
		ImageURL:       r.ImageURL,
		Passengers:     r.Passengers,
		FuelEfficiency: r.FuelEfficiency,
		Availability:   r.Availability,
	}
}

// Editable returns the car's editable fields without its availability.
func (c Car) Editable() CarUpdate {
	return CarUpdate{
		CarID:          c.CarID,
		Name:           c.Name,
		Model:          c.Model,
		ImageURL:       c.ImageURL,
		Passengers:     c.Passengers,
		FuelEfficiency: c.FuelEfficiency,
	}
}
