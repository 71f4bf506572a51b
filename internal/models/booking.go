package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethodCash is applied when a booking does not name a payment method.
const PaymentMethodCash = "cash"

// Booking is an active rental that has not been completed yet.
type Booking struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Car            primitive.ObjectID  `bson:"car" json:"car"`
	User           *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Phone          string              `bson:"phone" json:"phone"`
	Email          string              `bson:"email,omitempty" json:"email,omitempty"`
	AltPhone       string              `bson:"altPhone,omitempty" json:"altPhone,omitempty"`
	StartDate      time.Time           `bson:"startDate" json:"startDate"`
	EndDate        time.Time           `bson:"endDate" json:"endDate"`
	WithDriver     bool                `bson:"withDriver" json:"withDriver"`
	WeddingPurpose bool                `bson:"weddingPurpose" json:"weddingPurpose"`
	TotalAmount    float64             `bson:"totalAmount" json:"totalAmount"`
	PaidAmount     float64             `bson:"paidAmount" json:"paidAmount"`
	PaymentMethod  string              `bson:"paymentMethod" json:"paymentMethod"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	IsAdminBooking bool                `bson:"isAdminBooking" json:"isAdminBooking"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// BookingRequest is the validated body for creating a booking.
type BookingRequest struct {
	Car            string    `json:"car" binding:"required,len=24,hexadecimal"`
	Name           string    `json:"name" binding:"required"`
	Phone          string    `json:"phone" binding:"required"`
	Email          string    `json:"email" binding:"omitempty,email"`
	AltPhone       string    `json:"altPhone"`
	StartDate      time.Time `json:"startDate" binding:"required"`
	EndDate        time.Time `json:"endDate" binding:"required,gtefield=StartDate"`
	WithDriver     bool      `json:"withDriver"`
	WeddingPurpose bool      `json:"weddingPurpose"`
	TotalAmount    *float64  `json:"totalAmount" binding:"required,gte=0"`
	PaidAmount     float64   `json:"paidAmount" binding:"gte=0"`
	PaymentMethod  string    `json:"paymentMethod" binding:"omitempty,oneof=cash card bank_transfer mobile_money"`
	Notes          string    `json:"notes"`
}

// ToBooking converts the request into a Booking for the given car.
func (r BookingRequest) ToBooking(carID primitive.ObjectID) Booking {
	method := r.PaymentMethod
	if method == "" {
		method = PaymentMethodCash
	}
	var total float64
	if r.TotalAmount != nil {
		total = *r.TotalAmount
	}
	return Booking{
		Car:            carID,
		Name:           r.Name,
		Phone:          r.Phone,
		Email:          r.Email,
		AltPhone:       r.AltPhone,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		WithDriver:     r.WithDriver,
		WeddingPurpose: r.WeddingPurpose,
		TotalAmount:    total,
		PaidAmount:     r.PaidAmount,
		PaymentMethod:  method,
		Notes:          r.Notes,
	}
}
