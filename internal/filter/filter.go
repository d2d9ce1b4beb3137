// Package filter implements the listing filters of the feed, search overlay,
// explore grid and admin dashboard. Every filter keeps the input order and
// returns a new slice, so applying the same filter twice is a no-op.
package filter

import (
	"strings"

	"carstok-backend/internal/format"
	"carstok-backend/internal/model"
)

// Apply returns the cars for which keep reports true.
func Apply(cars []model.Car, keep func(*model.Car) bool) []model.Car {
	out := make([]model.Car, 0, len(cars))
	for i := range cars {
		if keep(&cars[i]) {
			out = append(out, cars[i])
		}
	}
	return out
}

// Feed keeps the listings shown in a feed. The sales feed holds every listing
// with a known seller type; the rental feed holds the whole catalogue.
func Feed(cars []model.Car, feed model.FeedType) []model.Car {
	if feed == model.FeedRental {
		return Apply(cars, func(*model.Car) bool { return true })
	}
	return Apply(cars, func(c *model.Car) bool {
		return c.SellerType == model.SellerDirect || c.SellerType == model.SellerNoFace
	})
}

// Search applies the search overlay filters.
func Search(cars []model.Car, f model.SearchFilters) []model.Car {
	term := format.Fold(f.SearchTerm)
	fuels := make(map[string]bool, len(f.Fuel))
	for _, fuel := range f.Fuel {
		fuels[format.Fold(string(fuel))] = true
	}

	return Apply(cars, func(c *model.Car) bool {
		if term != "" && !matchesAny(term, c.Brand, c.Model, c.Location) {
			return false
		}
		if f.Brand != "" && !strings.EqualFold(c.Brand, f.Brand) {
			return false
		}
		if !inRange(c.Price, f.Price) || !inRange(int64(c.Year), f.Year) || !inRange(c.Mileage, f.Mileage) {
			return false
		}
		if len(fuels) > 0 && !fuels[format.Fold(string(c.FuelType))] {
			return false
		}
		if f.Transmission != "" && format.Fold(string(c.Transmission)) != format.Fold(string(f.Transmission)) {
			return false
		}
		if f.Location != "" && !strings.EqualFold(c.Location, f.Location) {
			return false
		}
		return matchesTransaction(c, f.TransactionType)
	})
}

// Admin applies the dashboard search bar and selects.
func Admin(cars []model.Car, f model.AdminFilters) []model.Car {
	term := format.Fold(f.SearchTerm)
	return Apply(cars, func(c *model.Car) bool {
		if term != "" && !matchesAny(term, c.Brand, c.Model, c.Description, c.Location, c.Color) &&
			!strings.Contains(c.ID, strings.TrimSpace(f.SearchTerm)) {
			return false
		}
		switch f.Status {
		case "active":
			if !c.IsActive {
				return false
			}
		case "inactive":
			if c.IsActive {
				return false
			}
		}
		if f.SellerType != "" && f.SellerType != "all" && c.SellerType != f.SellerType {
			return false
		}
		if f.Location != "" && f.Location != "all" && c.Location != f.Location {
			return false
		}
		return true
	})
}

// Explore applies the explore grid filters.
func Explore(cars []model.Car, f model.ExploreFilters) []model.Car {
	term := format.Fold(f.SearchTerm)
	return Apply(cars, func(c *model.Car) bool {
		if term != "" && !matchesAny(term, c.Brand, c.Model, c.Location) {
			return false
		}
		if f.Brand != "" && c.Brand != f.Brand {
			return false
		}
		return matchesTransaction(c, model.TransactionType(f.Category))
	})
}

// Brands returns the distinct brands in first-seen order.
func Brands(cars []model.Car) []string {
	return distinct(cars, func(c *model.Car) string { return c.Brand })
}

// Locations returns the distinct locations in first-seen order.
func Locations(cars []model.Car) []string {
	return distinct(cars, func(c *model.Car) string { return c.Location })
}

// BuildFacets collects the select options of the search overlay.
func BuildFacets(cars []model.Car) model.Facets {
	return model.Facets{
		Brands:        Brands(cars),
		Locations:     Locations(cars),
		FuelTypes:     model.FuelTypes,
		Transmissions: model.Transmissions,
	}
}

func distinct(cars []model.Car, key func(*model.Car) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for i := range cars {
		k := key(&cars[i])
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// matchesTransaction: a sale needs a known seller type, any listing can be rented.
func matchesTransaction(c *model.Car, t model.TransactionType) bool {
	if t == model.TransactionSale {
		return c.SellerType == model.SellerDirect || c.SellerType == model.SellerNoFace
	}
	return true
}

func matchesAny(foldedTerm string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(format.Fold(f), foldedTerm) {
			return true
		}
	}
	return false
}

func inRange(v int64, r model.Range) bool {
	if v < r.Min {
		return false
	}
	return r.Max == 0 || v <= r.Max
}
