package model

import "time"

type FuelType string

const (
	FuelEssence    FuelType = "essence"
	FuelDiesel     FuelType = "diesel"
	FuelHybride    FuelType = "hybride"
	FuelElectrique FuelType = "electrique"
)

// FuelTypes lists the accepted fuel types in display order.
var FuelTypes = []FuelType{FuelEssence, FuelDiesel, FuelHybride, FuelElectrique}

type Transmission string

const (
	TransmissionAutomatique Transmission = "automatique"
	TransmissionManuelle    Transmission = "manuelle"
)

var Transmissions = []Transmission{TransmissionAutomatique, TransmissionManuelle}

// SellerType tells whether buyers reach the seller directly or through the platform.
type SellerType string

const (
	SellerDirect SellerType = "DIRECT"
	SellerNoFace SellerType = "NO_FACE"
)

// Locations are the cities a listing can be published in.
var Locations = []string{"Libreville", "Port-Gentil", "Franceville", "Oyem"}

const (
	MediaImage = "image"
	MediaVideo = "video"
)

const (
	MinYear       = 1990
	MinTrendScore = 0
	MaxTrendScore = 100
)

// Car is one vehicle listing.
type Car struct {
	ID            string       `json:"id"`
	Brand         string       `json:"brand"`
	Model         string       `json:"model"`
	Year          int          `json:"year"`
	Price         int64        `json:"price"`
	OriginalPrice *int64       `json:"original_price,omitempty"`
	Mileage       int64        `json:"mileage"`
	FuelType      FuelType     `json:"fuel_type"`
	Transmission  Transmission `json:"transmission"`
	Color         string       `json:"color"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	SellerType    SellerType   `json:"seller_type"`
	SellerPhone   *string      `json:"seller_phone,omitempty"`
	Features      []string     `json:"features"`
	OwnerID       string       `json:"owner_id"`
	Views         int64        `json:"views"`
	TrendScore    int          `json:"trend_score"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Media         []CarMedia   `json:"media"`
}

// PrimaryMedia returns the media flagged primary, falling back to the first one.
func (c *Car) PrimaryMedia() *CarMedia {
	for i := range c.Media {
		if c.Media[i].IsPrimary {
			return &c.Media[i]
		}
	}
	if len(c.Media) > 0 {
		return &c.Media[0]
	}
	return nil
}

// HasDiscount reports whether an original price above the current price is set.
func (c *Car) HasDiscount() bool {
	return c.OriginalPrice != nil && *c.OriginalPrice > c.Price
}

type CarMedia struct {
	ID        string    `json:"id"`
	CarID     string    `json:"car_id"`
	URL       string    `json:"url"`
	MediaType string    `json:"media_type"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// CarInput is the admin form payload for creating or editing a listing.
// Features accepts either a JSON list or FeaturesText as a comma separated string.
type CarInput struct {
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Year          int      `json:"year"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price"`
	Mileage       int64    `json:"mileage"`
	FuelType      string   `json:"fuel_type"`
	Transmission  string   `json:"transmission"`
	Color         string   `json:"color"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	SellerType    string   `json:"seller_type"`
	SellerPhone   string   `json:"seller_phone"`
	TrendScore    *int     `json:"trend_score,omitempty"`
	Features      []string `json:"features"`
	FeaturesText  string   `json:"features_text"`
	OwnerID       string   `json:"owner_id"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// ListOptions narrows a store listing. Zero values mean "no constraint".
type ListOptions struct {
	ActiveOnly bool
	OwnerID    string
	BrandLike  string
	Limit      int
	Offset     int
}
