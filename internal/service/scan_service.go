package service

import (
	"context"

	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"
	"carstok-backend/internal/scan"
)

const scanMatchLimit = 3

type ScanService struct {
	cars    repository.CarStore
	scanner *scan.Scanner
}

func NewScanService(cars repository.CarStore, scanner *scan.Scanner) *ScanService {
	return &ScanService{cars: cars, scanner: scanner}
}

// Scan runs a simulated recognition and looks up published listings of the
// detected brand.
func (s *ScanService) Scan(ctx context.Context) (*model.ScanResult, error) {
	d := s.scanner.Scan()
	if !d.Detected {
		return &model.ScanResult{Detected: false}, nil
	}

	matches, err := s.cars.List(ctx, model.ListOptions{
		ActiveOnly: true,
		BrandLike:  d.Brand,
		Limit:      scanMatchLimit,
	})
	if err != nil {
		return nil, err
	}
	return &model.ScanResult{
		Detected:       true,
		Brand:          d.Brand,
		Model:          d.Model,
		Confidence:     d.Confidence,
		EstimatedPrice: d.EstimatedPrice,
		MatchingCars:   matches,
	}, nil
}
