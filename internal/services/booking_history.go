package services

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/cache"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/events"
	"github.com/ukydev/car-rental/internal/models"
)

// HistoryService reads and prunes the booking archive.
type HistoryService struct {
	history   db.BookingHistoryCollection
	stats     cache.StatsCache
	publisher events.Publisher
}

// NewHistoryService wires the archive. stats may be nil.
func NewHistoryService(history db.BookingHistoryCollection, stats cache.StatsCache, publisher events.Publisher) *HistoryService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &HistoryService{history: history, stats: stats, publisher: publisher}
}

func (s *HistoryService) List(ctx context.Context) ([]models.BookingHistoryView, error) {
	return s.history.FindBookingHistory(ctx)
}

func (s *HistoryService) Get(ctx context.Context, id string) (*models.BookingHistoryView, error) {
	return s.history.FindBookingHistoryByID(ctx, id)
}

func (s *HistoryService) ByEmail(ctx context.Context, email string) ([]models.BookingHistoryView, error) {
	return s.history.FindBookingHistoryByEmail(ctx, email)
}

func (s *HistoryService) Search(ctx context.Context, query string) ([]models.BookingHistoryView, error) {
	return s.history.SearchBookingHistory(ctx, query)
}

// Stats returns the archive summary, served from cache when possible.
// A fresh summary is cached under the generation seen before it was
// computed, so an archive or delete in the meantime cannot be masked.
func (s *HistoryService) Stats(ctx context.Context) (models.BookingHistoryStats, error) {
	cacheable := false
	var generation int64
	if s.stats != nil {
		cached, gen, err := s.stats.Get(ctx)
		switch {
		case err == nil:
			return *cached, nil
		case errors.Is(err, cache.ErrMiss):
			cacheable, generation = true, gen
		default:
			log.WithError(err).Warn("Stats cache read failed")
		}
	}

	stats, err := s.history.BookingHistoryStats(ctx)
	if err != nil {
		return models.BookingHistoryStats{}, err
	}

	if cacheable {
		if err := s.stats.Set(ctx, generation, stats); err != nil {
			log.WithError(err).Warn("Stats cache write failed")
		}
	}
	return stats, nil
}

// Delete removes one archived record. Missing ids yield db.ErrNotFound.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if err := s.history.DeleteBookingHistory(ctx, id); err != nil {
		return err
	}
	invalidateStats(ctx, s.stats)
	s.publisher.Publish(events.BookingHistoryDeleted, map[string]string{"_id": id})
	return nil
}
