package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/auth"
	"github.com/ukydev/car-rental/internal/cache"
	"github.com/ukydev/car-rental/internal/config"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/events"
	"github.com/ukydev/car-rental/internal/handlers"
	"github.com/ukydev/car-rental/internal/logger"
	"github.com/ukydev/car-rental/internal/routes"
	"github.com/ukydev/car-rental/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultJWTSecret = "default-secret-key-change-in-production"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		log.WithError(err).Fatal("Server exited")
	}
}

func run(cfg *config.Config) error {
	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.WithError(err).Warn("MongoDB disconnect failed")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.EnsureIndexes(indexCtx, database)
	cancel()
	if err != nil {
		return err
	}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	deps := collections(database, cfg.DBTimeout)
	deps.Auth = authService
	deps.Health = handlers.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	})

	stats, closeStats := statsCache(cfg)
	defer closeStats()
	deps.Stats = stats

	publisher, closePublisher := eventPublisher(cfg)
	defer closePublisher()
	deps.Publisher = publisher

	deps.Uploader = imageUploader(cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           routes.NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, srv)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func collections(database *mongo.Database, timeout time.Duration) routes.Deps {
	return routes.Deps{
		Cars:     &db.MongoCarCollection{Collection: database.Collection(db.CarsCollection), Timeout: timeout},
		Bookings: &db.MongoBookingCollection{Collection: database.Collection(db.BookingsCollection), Timeout: timeout},
		History:  &db.MongoBookingHistoryCollection{Collection: database.Collection(db.BookingHistoriesCollection), Timeout: timeout},
		Reviews:  &db.MongoReviewCollection{Collection: database.Collection(db.ReviewsCollection), Timeout: timeout},
		Users:    &db.MongoUserCollection{Collection: database.Collection(db.UsersCollection), Timeout: timeout},
	}
}

// statsCache connects Redis when configured. Failures disable caching.
func statsCache(cfg *config.Config) (cache.StatsCache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, stats caching disabled")
		return nil, func() {}
	}
	log.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
	return cache.NewRedisStatsCache(client, cfg.StatsCacheTTL), func() { _ = client.Close() }
}

// eventPublisher connects MQTT when configured. Failures disable events.
func eventPublisher(cfg *config.Config) (events.Publisher, func()) {
	if cfg.MQTTBroker == "" {
		return events.Discard{}, func() {}
	}
	publisher, err := events.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	if err != nil {
		log.WithError(err).Warn("MQTT unavailable, events disabled")
		return events.Discard{}, func() {}
	}
	log.WithField("broker", cfg.MQTTBroker).Info("Connected to MQTT broker")
	return publisher, publisher.Close
}

func imageUploader(cfg *config.Config) storage.ImageUploader {
	if cfg.CloudinaryURL == "" {
		return nil
	}
	uploader, err := storage.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		log.WithError(err).Warn("Cloudinary misconfigured, image uploads disabled")
		return nil
	}
	return uploader
}
