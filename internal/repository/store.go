package repository

import (
	"context"
	"errors"

	"carstok-backend/internal/model"
)

// ErrNotFound is returned by every store when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownOwner is returned when a car references an owner that does not exist.
var ErrUnknownOwner = errors.New("unknown owner")

type CarStore interface {
	Create(ctx context.Context, car *model.Car) (*model.Car, error)
	GetByID(ctx context.Context, id string) (*model.Car, error)
	List(ctx context.Context, opts model.ListOptions) ([]model.Car, error)
	Update(ctx context.Context, car *model.Car) (*model.Car, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	Stats(ctx context.Context) (*model.CatalogStats, error)
}

type MediaStore interface {
	AddMedia(ctx context.Context, media *model.CarMedia) (*model.CarMedia, error)
	ListMedia(ctx context.Context, carID string) ([]model.CarMedia, error)
	GetMedia(ctx context.Context, id string) (*model.CarMedia, error)
	DeleteMedia(ctx context.Context, id string) error
}

type OwnerStore interface {
	GetOwner(ctx context.Context, id string) (*model.Owner, error)
	ListOwners(ctx context.Context) ([]model.Owner, error)
	UpsertOwner(ctx context.Context, owner *model.Owner) error
}

// SettingsStore reads and writes admin_settings rows.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
