package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/events"
	"github.com/ukydev/car-rental/internal/models"
	"github.com/ukydev/car-rental/internal/storage"
)

// ErrUploadsDisabled is returned when no image uploader is configured.
var ErrUploadsDisabled = errors.New("image uploads are not configured")

// CarService manages the car directory.
type CarService struct {
	cars      db.CarCollection
	uploader  storage.ImageUploader
	publisher events.Publisher
}

// NewCarService wires the car directory. uploader may be nil.
func NewCarService(cars db.CarCollection, uploader storage.ImageUploader, publisher events.Publisher) *CarService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &CarService{cars: cars, uploader: uploader, publisher: publisher}
}

// CanUpload reports whether image uploads are available.
func (s *CarService) CanUpload() bool {
	return s.uploader != nil
}

func (s *CarService) Add(ctx context.Context, car models.Car) (*models.Car, error) {
	created, err := s.cars.InsertCar(ctx, car)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(events.CarCreated, created)
	return created, nil
}

func (s *CarService) List(ctx context.Context) ([]models.Car, error) {
	return s.cars.FindCars(ctx)
}

func (s *CarService) Get(ctx context.Context, id string) (*models.Car, error) {
	return s.cars.FindCarByID(ctx, id)
}

// Update edits a car. Availability changes only when the update sets it.
func (s *CarService) Update(ctx context.Context, id string, car models.CarUpdate) (*models.Car, error) {
	updated, err := s.cars.UpdateCar(ctx, id, car)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(events.CarUpdated, updated)
	return updated, nil
}

// Delete removes a car. Deleting an id that does not exist succeeds.
func (s *CarService) Delete(ctx context.Context, id string) error {
	err := s.cars.DeleteCar(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		log.WithField("car_id", id).Debug("delete of unknown car ignored")
		return nil
	}
	if err != nil {
		return err
	}
	s.publisher.Publish(events.CarDeleted, map[string]string{"_id": id})
	return nil
}

// UploadImage stores the image and points the car's imageUrl at it.
func (s *CarService) UploadImage(ctx context.Context, id string, file io.Reader) (*models.Car, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.UploadImage(ctx, file, car.CarID)
	if err != nil {
		return nil, fmt.Errorf("upload image for car %s: %w", car.CarID, err)
	}

	update := car.Editable()
	update.ImageURL = url
	updated, err := s.cars.UpdateCar(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(events.CarUpdated, updated)
	return updated, nil
}
