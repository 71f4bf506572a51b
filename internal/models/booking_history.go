package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingHistory is the archived, immutable record of a completed booking.
type BookingHistory struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	BookingID      *primitive.ObjectID `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Car            primitive.ObjectID  `bson:"car" json:"car"`
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
	CompletedAt    time.Time           `bson:"completedAt" json:"completedAt"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// BookingHistoryView is a history record with its car reference resolved.
// Car is nil when the referenced car no longer exists.
type BookingHistoryView struct {
	ID             primitive.ObjectID  `bson:"_id" json:"_id"`
	BookingID      *primitive.ObjectID `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Car            *CarSummary         `bson:"car,omitempty" json:"car"`
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
	CompletedAt    time.Time           `bson:"completedAt" json:"completedAt"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// HistoryFromBooking builds the archive record for a completed booking.
func HistoryFromBooking(b Booking, completedAt time.Time) BookingHistory {
	h := BookingHistory{
		Car:            b.Car,
		Name:           b.Name,
		Phone:          b.Phone,
		Email:          b.Email,
		AltPhone:       b.AltPhone,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		WithDriver:     b.WithDriver,
		WeddingPurpose: b.WeddingPurpose,
		TotalAmount:    b.TotalAmount,
		PaidAmount:     b.PaidAmount,
		PaymentMethod:  b.PaymentMethod,
		Notes:          b.Notes,
		IsAdminBooking: b.IsAdminBooking,
		CompletedAt:    completedAt,
		CreatedAt:      completedAt,
	}
	if !b.ID.IsZero() {
		id := b.ID
		h.BookingID = &id
	}
	return h
}

// BookingHistoryStats is the summary returned by the reporting endpoint.
type BookingHistoryStats struct {
	TotalBookings     int64   `json:"totalBookings"`
	WeddingBookings   int64   `json:"weddingBookings"`
	DriverBookings    int64   `json:"driverBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
	SelfDriveBookings int64   `json:"selfDriveBookings"`
	RegularBookings   int64   `json:"regularBookings"`
}

// NewBookingHistoryStats derives the self-drive and regular counts from the
// aggregated totals.
func NewBookingHistoryStats(total, wedding, driver int64, revenue float64) BookingHistoryStats {
	return BookingHistoryStats{
		TotalBookings:     total,
		WeddingBookings:   wedding,
		DriverBookings:    driver,
		TotalRevenue:      revenue,
		SelfDriveBookings: total - driver,
		RegularBookings:   total - wedding,
	}
}
