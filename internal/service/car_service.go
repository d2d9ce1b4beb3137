package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"carstok-backend/internal/filter"
	"carstok-backend/internal/format"
	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCarNotFound          = errors.New("car not found")
	ErrBrandModelRequired   = errors.New("brand and model are required")
	ErrInvalidPrice         = errors.New("price must be greater than 0")
	ErrInvalidYear          = errors.New("year out of range")
	ErrInvalidMileage       = errors.New("mileage must not be negative")
	ErrInvalidTrendScore    = errors.New("trend score must be between 0 and 100")
	ErrInvalidFuelType      = errors.New("invalid fuel type")
	ErrInvalidTransmission  = errors.New("invalid transmission")
	ErrInvalidSellerType    = errors.New("seller type must be DIRECT or NO_FACE")
	ErrInvalidLocation      = errors.New("invalid location")
	ErrInvalidOriginalPrice = errors.New("original price must not be negative")
	ErrUnknownOwner         = errors.New("owner does not exist")
)

// EventPublisher fans catalogue events out to connected clients.
type EventPublisher interface {
	Broadcast(event *model.WSEvent)
}

// ListingNotifier is told about every newly published listing.
type ListingNotifier interface {
	AnnounceListing(car *model.Car)
}

type CarService struct {
	cars     repository.CarStore
	media    *MediaService
	events   EventPublisher
	notifier ListingNotifier
	score    func() int
	now      func() time.Time
}

// NewCarService wires the admin listing operations. score draws the trend
// score of listings created without one.
func NewCarService(cars repository.CarStore, media *MediaService, events EventPublisher, score func() int) *CarService {
	return &CarService{
		cars:   cars,
		media:  media,
		events: events,
		score:  score,
		now:    time.Now,
	}
}

func (s *CarService) SetNotifier(n ListingNotifier) {
	s.notifier = n
}

func (s *CarService) Create(ctx context.Context, in *model.CarInput) (*model.Car, error) {
	car := &model.Car{
		ID:       uuid.NewString(),
		IsActive: true,
	}
	if err := s.apply(car, in); err != nil {
		return nil, err
	}
	if in.TrendScore == nil {
		car.TrendScore = s.score()
	}

	created, err := s.cars.Create(ctx, car)
	if errors.Is(err, repository.ErrUnknownOwner) {
		return nil, ErrUnknownOwner
	}
	if err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	log.Printf("[CARS] created %s %s %s (%d FCFA)", created.ID, created.Brand, created.Model, created.Price)

	s.publish(model.EventCarCreated, created)
	if s.notifier != nil && created.IsActive {
		s.notifier.AnnounceListing(created)
	}
	return created, nil
}

func (s *CarService) Update(ctx context.Context, id string, in *model.CarInput) (*model.Car, error) {
	car, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(car, in); err != nil {
		return nil, err
	}

	updated, err := s.cars.Update(ctx, car)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCarNotFound
	}
	if errors.Is(err, repository.ErrUnknownOwner) {
		return nil, ErrUnknownOwner
	}
	if err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}
	s.publish(model.EventCarUpdated, updated)
	return updated, nil
}

// apply validates in and copies it onto car. Unset trend score and active
// flag keep the current values of car.
func (s *CarService) apply(car *model.Car, in *model.CarInput) error {
	brand := strings.TrimSpace(in.Brand)
	carModel := strings.TrimSpace(in.Model)
	if brand == "" || carModel == "" {
		return ErrBrandModelRequired
	}
	if in.Price <= 0 {
		return ErrInvalidPrice
	}
	if maxYear := s.now().Year() + 1; in.Year < model.MinYear || in.Year > maxYear {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidYear, model.MinYear, maxYear)
	}
	if in.Mileage < 0 {
		return ErrInvalidMileage
	}
	if in.OriginalPrice < 0 {
		return ErrInvalidOriginalPrice
	}
	if in.TrendScore != nil && (*in.TrendScore < model.MinTrendScore || *in.TrendScore > model.MaxTrendScore) {
		return ErrInvalidTrendScore
	}

	fuel := model.FuelType(format.Fold(orDefault(in.FuelType, string(model.FuelEssence))))
	if !slices.Contains(model.FuelTypes, fuel) {
		return ErrInvalidFuelType
	}
	transmission := model.Transmission(format.Fold(orDefault(in.Transmission, string(model.TransmissionAutomatique))))
	if !slices.Contains(model.Transmissions, transmission) {
		return ErrInvalidTransmission
	}
	seller := model.SellerType(strings.ToUpper(orDefault(in.SellerType, string(model.SellerDirect))))
	if seller != model.SellerDirect && seller != model.SellerNoFace {
		return ErrInvalidSellerType
	}
	location := orDefault(in.Location, model.Locations[0])
	if !slices.Contains(model.Locations, location) {
		return ErrInvalidLocation
	}

	car.Brand = brand
	car.Model = carModel
	car.Year = in.Year
	car.Price = in.Price
	car.OriginalPrice = nil
	if in.OriginalPrice > 0 {
		original := in.OriginalPrice
		car.OriginalPrice = &original
	}
	car.Mileage = in.Mileage
	car.FuelType = fuel
	car.Transmission = transmission
	car.Color = strings.TrimSpace(in.Color)
	car.Description = strings.TrimSpace(in.Description)
	car.Location = location
	car.SellerType = seller
	car.SellerPhone = nil
	if seller == model.SellerDirect {
		if phone := strings.TrimSpace(in.SellerPhone); phone != "" {
			car.SellerPhone = &phone
		}
	}
	car.Features = ParseFeatures(in.Features, in.FeaturesText)
	if owner := strings.TrimSpace(in.OwnerID); owner != "" {
		car.OwnerID = owner
	} else if car.OwnerID == "" {
		car.OwnerID = DefaultOwnerID
	}
	if in.TrendScore != nil {
		car.TrendScore = *in.TrendScore
	}
	if in.IsActive != nil {
		car.IsActive = *in.IsActive
	}
	return nil
}

// DefaultOwnerID owns listings created without an explicit owner.
const DefaultOwnerID = "carstok"

// ParseFeatures trims every feature and drops empty ones. A nil list falls
// back to the comma separated text.
func ParseFeatures(list []string, text string) []string {
	if list == nil {
		list = strings.Split(text, ",")
	}
	out := make([]string, 0, len(list))
	for _, f := range list {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func (s *CarService) Get(ctx context.Context, id string) (*model.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

// List returns the whole catalogue, inactive listings included, narrowed by
// the dashboard filters.
func (s *CarService) List(ctx context.Context, f model.AdminFilters) ([]model.Car, error) {
	cars, err := s.cars.List(ctx, model.ListOptions{})
	if err != nil {
		return nil, err
	}
	return filter.Admin(cars, f), nil
}

// Delete removes the listing, its media records and their stored objects.
func (s *CarService) Delete(ctx context.Context, id string) error {
	car, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.cars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCarNotFound
		}
		return fmt.Errorf("delete car: %w", err)
	}
	if s.media != nil {
		for _, m := range car.Media {
			s.media.deleteObject(ctx, m.URL)
		}
	}
	log.Printf("[CARS] deleted %s (%d media)", id, len(car.Media))
	s.publish(model.EventCarDeleted, map[string]string{"id": id})
	return nil
}

// ToggleActive flips the published flag and returns the updated listing.
func (s *CarService) ToggleActive(ctx context.Context, id string) (*model.Car, error) {
	car, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cars.SetActive(ctx, id, !car.IsActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	car.IsActive = !car.IsActive
	s.publish(model.EventCarUpdated, car)
	return car, nil
}

// RecordView counts one display of a listing and returns the new total.
func (s *CarService) RecordView(ctx context.Context, id string) (int64, error) {
	views, err := s.cars.IncrementViews(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrCarNotFound
	}
	if err != nil {
		return 0, err
	}
	s.publish(model.EventCarViewed, model.CarViewedEvent{CarID: id, Views: views})
	return views, nil
}

func (s *CarService) publish(eventType string, payload any) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[CARS] encode %s event: %v", eventType, err)
		return
	}
	s.events.Broadcast(&model.WSEvent{Type: eventType, Data: data})
}

// Notifiers fans a listing announcement out to several notifiers.
type Notifiers []ListingNotifier

func (n Notifiers) AnnounceListing(car *model.Car) {
	for _, notifier := range n {
		notifier.AnnounceListing(car)
	}
}
