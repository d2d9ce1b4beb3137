package service

import (
	"context"
	"errors"

	"carstok-backend/internal/filter"
	"carstok-backend/internal/format"
	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"
)

var ErrOwnerNotFound = errors.New("owner not found")

// FeedService serves the public, read-only side of the catalogue.
type FeedService struct {
	cars        repository.CarStore
	owners      repository.OwnerStore
	brokerPhone string
}

// NewFeedService returns a feed service. brokerPhone answers contact requests
// for NO_FACE listings and listings without a seller phone.
func NewFeedService(cars repository.CarStore, owners repository.OwnerStore, brokerPhone string) *FeedService {
	return &FeedService{cars: cars, owners: owners, brokerPhone: brokerPhone}
}

func (s *FeedService) active(ctx context.Context) ([]model.Car, error) {
	return s.cars.List(ctx, model.ListOptions{ActiveOnly: true})
}

// Feed returns the active listings of a feed narrowed by the search overlay.
func (s *FeedService) Feed(ctx context.Context, feedType model.FeedType, f model.SearchFilters) ([]model.Car, error) {
	cars, err := s.active(ctx)
	if err != nil {
		return nil, err
	}
	cars = filter.Search(filter.Feed(cars, feedType), f)
	return filter.Sort(cars, f.SortBy), nil
}

func (s *FeedService) Explore(ctx context.Context, f model.ExploreFilters) ([]model.Car, error) {
	cars, err := s.active(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Explore(cars, f), nil
}

// Facets returns the select options of the search overlay for the active catalogue.
func (s *FeedService) Facets(ctx context.Context) (model.Facets, error) {
	cars, err := s.active(ctx)
	if err != nil {
		return model.Facets{}, err
	}
	return filter.BuildFacets(cars), nil
}

// Car returns a published listing. Inactive listings are reported missing.
func (s *FeedService) Car(ctx context.Context, id string) (*model.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !car.IsActive) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (s *FeedService) Owners(ctx context.Context) ([]model.Owner, error) {
	return s.owners.ListOwners(ctx)
}

// OwnerProfile returns an owner with their published listings.
func (s *FeedService) OwnerProfile(ctx context.Context, id string) (*model.OwnerProfile, error) {
	owner, err := s.owners.GetOwner(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, err
	}
	cars, err := s.cars.List(ctx, model.ListOptions{ActiveOnly: true, OwnerID: id})
	if err != nil {
		return nil, err
	}
	return &model.OwnerProfile{
		Owner:      owner,
		Cars:       cars,
		CarCount:   len(cars),
		ContactURL: format.WhatsAppURL(owner.Phone, ""),
	}, nil
}

// ContactURL builds the WhatsApp link a buyer or renter opens for a listing.
func (s *FeedService) ContactURL(ctx context.Context, carID string, rental bool) (string, error) {
	car, err := s.Car(ctx, carID)
	if err != nil {
		return "", err
	}
	phone := s.brokerPhone
	if car.SellerType == model.SellerDirect && car.SellerPhone != nil && *car.SellerPhone != "" {
		phone = *car.SellerPhone
	}
	text := format.ContactMessage(rental, car.Brand, car.Model, car.Year, car.Price)
	return format.WhatsAppURL(phone, text), nil
}
