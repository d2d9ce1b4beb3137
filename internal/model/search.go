package model

type FeedType string

const (
	FeedSales  FeedType = "sales"
	FeedRental FeedType = "rental"
)

type TransactionType string

const (
	TransactionSale   TransactionType = "vente"
	TransactionRental TransactionType = "location"
	TransactionBoth   TransactionType = "both"
)

// Range is an inclusive bound. A zero Max means unbounded.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// SearchFilters mirrors the search overlay of the mobile client.
type SearchFilters struct {
	SearchTerm      string          `json:"search_term"`
	Brand           string          `json:"brand"`
	Price           Range           `json:"price"`
	Year            Range           `json:"year"`
	Mileage         Range           `json:"mileage"`
	Fuel            []FuelType      `json:"fuel"`
	Transmission    Transmission    `json:"transmission"`
	Location        string          `json:"location"`
	TransactionType TransactionType `json:"transaction_type"`
	SortBy          string          `json:"sort_by"`
}

// AdminFilters mirrors the dashboard search bar and selects.
type AdminFilters struct {
	SearchTerm string     `json:"search_term"`
	Status     string     `json:"status"` // all, active, inactive
	SellerType SellerType `json:"seller_type"`
	Location   string     `json:"location"`
}

// ExploreFilters mirrors the explore grid.
type ExploreFilters struct {
	SearchTerm string `json:"search_term"`
	Brand      string `json:"brand"`
	Category   string `json:"category"` // all, vente, location
}

type Facets struct {
	Brands        []string       `json:"brands"`
	Locations     []string       `json:"locations"`
	FuelTypes     []FuelType     `json:"fuel_types"`
	Transmissions []Transmission `json:"transmissions"`
}
