package service

import (
	"context"

	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"
)

// InteractionRate is the share of views counted as interactions in the stats bar.
const InteractionRate = 15

// OnlineCounter reports how many clients are connected.
type OnlineCounter interface {
	OnlineCount() int
}

type StatsService struct {
	cars   repository.CarStore
	online OnlineCounter
}

func NewStatsService(cars repository.CarStore, online OnlineCounter) *StatsService {
	return &StatsService{cars: cars, online: online}
}

func (s *StatsService) Stats(ctx context.Context) (*model.CatalogStats, error) {
	stats, err := s.cars.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalInteractions = Interactions(stats.TotalViews)
	if s.online != nil {
		stats.OnlineViewers = s.online.OnlineCount()
	}
	return stats, nil
}

// Interactions estimates interactions as 15% of views, rounded down.
func Interactions(views int64) int64 {
	return views * InteractionRate / 100
}
