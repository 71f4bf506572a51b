package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/ukydev/car-rental/internal/cache"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/events"
	"github.com/ukydev/car-rental/internal/mocks"
	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHistoryService_Stats_NoCache(t *testing.T) {
	history := new(mocks.BookingHistoryCollection)
	want := models.NewBookingHistoryStats(3, 1, 2, 600)
	history.On("BookingHistoryStats", mock.Anything).Return(want, nil)

	got, err := NewHistoryService(history, nil, nil).Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, int64(1), got.SelfDriveBookings)
	assert.Equal(t, int64(2), got.RegularBookings)
}

func TestHistoryService_Stats_CacheHit(t *testing.T) {
	history := new(mocks.BookingHistoryCollection)
	stats := new(mocks.StatsCache)
	cached := models.NewBookingHistoryStats(5, 0, 0, 100)
	stats.On("Get", mock.Anything).Return(&cached, int64(3), nil)

	got, err := NewHistoryService(history, stats, nil).Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	history.AssertNotCalled(t, "BookingHistoryStats", mock.Anything)
}

func TestHistoryService_Stats_CacheMissFills(t *testing.T) {
	history := new(mocks.BookingHistoryCollection)
	stats := new(mocks.StatsCache)
	want := models.NewBookingHistoryStats(0, 0, 0, 0)

	stats.On("Get", mock.Anything).Return(nil, int64(4), cache.ErrMiss)
	history.On("BookingHistoryStats", mock.Anything).Return(want, nil)
	// Stored under the generation observed before the aggregate ran.
	stats.On("Set", mock.Anything, int64(4), want).Return(nil)

	got, err := NewHistoryService(history, stats, nil).Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.BookingHistoryStats{}, got)
	stats.AssertExpectations(t)
}

func TestHistoryService_Stats_CacheErrorFallsThrough(t *testing.T) {
	history := new(mocks.BookingHistoryCollection)
	stats := new(mocks.StatsCache)
	want := models.NewBookingHistoryStats(2, 2, 2, 50)

	stats.On("Get", mock.Anything).Return(nil, int64(0), errors.New("redis down"))
	history.On("BookingHistoryStats", mock.Anything).Return(want, nil)

	got, err := NewHistoryService(history, stats, nil).Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	stats.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestHistoryService_Stats_CacheWriteErrorIsLogged(t *testing.T) {
	history := new(mocks.BookingHistoryCollection)
	stats := new(mocks.StatsCache)
	want := models.NewBookingHistoryStats(1, 0, 1, 80)

	stats.On("Get", mock.Anything).Return(nil, int64(2), cache.ErrMiss)
	history.On("BookingHistoryStats", mock.Anything).Return(want, nil)
	stats.On("Set", mock.Anything, int64(2), want).Return(errors.New("redis down"))

	got, err := NewHistoryService(history, stats, nil).Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	stats.AssertExpectations(t)
}

func TestHistoryService_Stats_StoreError(t *testing.T) {
	history := new(mocks.BookingHistoryCollection)
	history.On("BookingHistoryStats", mock.Anything).Return(models.BookingHistoryStats{}, errors.New("boom"))

	_, err := NewHistoryService(history, nil, nil).Stats(context.Background())
	assert.Error(t, err)
}

func TestHistoryService_Delete(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	t.Run("deleted", func(t *testing.T) {
		history := new(mocks.BookingHistoryCollection)
		stats := new(mocks.StatsCache)
		pub := new(mocks.Publisher)
		history.On("DeleteBookingHistory", mock.Anything, id).Return(nil)
		stats.On("Invalidate", mock.Anything).Return(nil)
		pub.On("Publish", events.BookingHistoryDeleted, map[string]string{"_id": id}).Return()

		assert.NoError(t, NewHistoryService(history, stats, pub).Delete(context.Background(), id))
		stats.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		history := new(mocks.BookingHistoryCollection)
		stats := new(mocks.StatsCache)
		history.On("DeleteBookingHistory", mock.Anything, id).Return(db.ErrNotFound)

		err := NewHistoryService(history, stats, nil).Delete(context.Background(), id)
		assert.ErrorIs(t, err, db.ErrNotFound)
		stats.AssertNotCalled(t, "Invalidate", mock.Anything)
	})
}

func TestHistoryService_Reads(t *testing.T) {
	history := new(mocks.BookingHistoryCollection)
	svc := NewHistoryService(history, nil, nil)
	records := []models.BookingHistoryView{{Name: "Nimal", Email: "nimal@example.com"}}

	history.On("FindBookingHistory", mock.Anything).Return(records, nil)
	history.On("FindBookingHistoryByEmail", mock.Anything, "nimal@example.com").Return(records, nil)
	history.On("SearchBookingHistory", mock.Anything, "nim").Return(records, nil)
	history.On("FindBookingHistoryByID", mock.Anything, "missing").Return(nil, db.ErrNotFound)

	got, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.ByEmail(context.Background(), "nimal@example.com")
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Search(context.Background(), "nim")
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, db.ErrNotFound)
	history.AssertExpectations(t)
}
