// Package mocks provides testify mocks for the store, cache and event interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarCollection is a mock implementation of db.CarCollection
type CarCollection struct {
	mock.Mock
}

func (m *CarCollection) InsertCar(ctx context.Context, car models.Car) (*models.Car, error) {
	args := m.Called(ctx, car)
	return carArg(args, 0), args.Error(1)
}

func (m *CarCollection) FindCars(ctx context.Context) ([]models.Car, error) {
	args := m.Called(ctx)
	cars, _ := args.Get(0).([]models.Car)
	return cars, args.Error(1)
}

func (m *CarCollection) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	args := m.Called(ctx, id)
	return carArg(args, 0), args.Error(1)
}

func (m *CarCollection) UpdateCar(ctx context.Context, id string, car models.CarUpdate) (*models.Car, error) {
	args := m.Called(ctx, id, car)
	return carArg(args, 0), args.Error(1)
}

func (m *CarCollection) DeleteCar(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CarCollection) SetCarAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}

func (m *CarCollection) ReserveCar(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func carArg(args mock.Arguments, i int) *models.Car {
	car, _ := args.Get(i).(*models.Car)
	return car
}

// BookingCollection is a mock implementation of db.BookingCollection
type BookingCollection struct {
	mock.Mock
}

func (m *BookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	args := m.Called(ctx, booking)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *BookingCollection) FindBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]models.Booking)
	return b, args.Error(1)
}

func (m *BookingCollection) FindBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).([]models.Booking)
	return b, args.Error(1)
}

func (m *BookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *BookingCollection) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// BookingHistoryCollection is a mock implementation of db.BookingHistoryCollection
type BookingHistoryCollection struct {
	mock.Mock
}

func (m *BookingHistoryCollection) InsertBookingHistory(ctx context.Context, record models.BookingHistory) (*models.BookingHistory, error) {
	args := m.Called(ctx, record)
	h, _ := args.Get(0).(*models.BookingHistory)
	return h, args.Error(1)
}

func (m *BookingHistoryCollection) FindBookingHistory(ctx context.Context) ([]models.BookingHistoryView, error) {
	args := m.Called(ctx)
	return viewsArg(args), args.Error(1)
}

func (m *BookingHistoryCollection) FindBookingHistoryByID(ctx context.Context, id string) (*models.BookingHistoryView, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.BookingHistoryView)
	return v, args.Error(1)
}

func (m *BookingHistoryCollection) FindBookingHistoryByEmail(ctx context.Context, email string) ([]models.BookingHistoryView, error) {
	args := m.Called(ctx, email)
	return viewsArg(args), args.Error(1)
}

func (m *BookingHistoryCollection) SearchBookingHistory(ctx context.Context, query string) ([]models.BookingHistoryView, error) {
	args := m.Called(ctx, query)
	return viewsArg(args), args.Error(1)
}

func (m *BookingHistoryCollection) BookingHistoryStats(ctx context.Context) (models.BookingHistoryStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(models.BookingHistoryStats)
	return stats, args.Error(1)
}

func (m *BookingHistoryCollection) DeleteBookingHistory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func viewsArg(args mock.Arguments) []models.BookingHistoryView {
	v, _ := args.Get(0).([]models.BookingHistoryView)
	return v
}

// ReviewCollection is a mock implementation of db.ReviewCollection
type ReviewCollection struct {
	mock.Mock
}

func (m *ReviewCollection) InsertReview(ctx context.Context, review models.Review) (*models.Review, error) {
	args := m.Called(ctx, review)
	r, _ := args.Get(0).(*models.Review)
	return r, args.Error(1)
}

func (m *ReviewCollection) FindReviews(ctx context.Context) ([]models.Review, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]models.Review)
	return r, args.Error(1)
}

func (m *ReviewCollection) DeleteReview(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// UserCollection is a mock implementation of db.UserCollection
type UserCollection struct {
	mock.Mock
}

func (m *UserCollection) InsertUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return userArgs(m.Called(ctx, id))
}

func (m *UserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return userArgs(m.Called(ctx, username))
}

func (m *UserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return userArgs(m.Called(ctx, email))
}

func (m *UserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]models.User)
	return u, args.Error(1)
}

func (m *UserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	return m.Called(ctx, id, user).Error(0)
}

func (m *UserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func userArgs(args mock.Arguments) (*models.User, error) {
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

// StatsCache is a mock implementation of cache.StatsCache
type StatsCache struct {
	mock.Mock
}

func (m *StatsCache) Get(ctx context.Context) (*models.BookingHistoryStats, int64, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.BookingHistoryStats)
	generation, _ := args.Get(1).(int64)
	return stats, generation, args.Error(2)
}

func (m *StatsCache) Set(ctx context.Context, generation int64, stats models.BookingHistoryStats) error {
	return m.Called(ctx, generation, stats).Error(0)
}

func (m *StatsCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Publisher is a mock implementation of events.Publisher
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(topic string, data interface{}) {
	m.Called(topic, data)
}

// ImageUploader is a mock implementation of storage.ImageUploader
type ImageUploader struct {
	mock.Mock
}

func (m *ImageUploader) UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error) {
	args := m.Called(ctx, file, publicID)
	return args.String(0), args.Error(1)
}
