package filter

import (
	"slices"

	"carstok-backend/internal/model"
)

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTrend     = "trend"
	SortViews     = "views"
	SortMileage   = "mileage"
)

// Sort returns a sorted copy of cars. Unknown keys fall back to newest first.
// Ties keep their input order.
func Sort(cars []model.Car, by string) []model.Car {
	out := slices.Clone(cars)
	var cmp func(a, b model.Car) int
	switch by {
	case SortPriceAsc:
		cmp = func(a, b model.Car) int { return compare(a.Price, b.Price) }
	case SortPriceDesc:
		cmp = func(a, b model.Car) int { return compare(b.Price, a.Price) }
	case SortTrend:
		cmp = func(a, b model.Car) int { return compare(b.TrendScore, a.TrendScore) }
	case SortViews:
		cmp = func(a, b model.Car) int { return compare(b.Views, a.Views) }
	case SortMileage:
		cmp = func(a, b model.Car) int { return compare(a.Mileage, b.Mileage) }
	default:
		cmp = func(a, b model.Car) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func compare[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
