// Package scan simulates vehicle recognition from a camera frame. No image
// analysis happens: a detection is drawn at random from a small catalogue of
// models commonly listed in Gabon.
package scan

import (
	"math/rand/v2"
	"sync"
)

// DetectionRate is the probability that a scan recognises a vehicle.
const DetectionRate = 0.7

const (
	MinConfidence = 80
	MaxConfidence = 99
)

// Model is one recognisable vehicle and its market price range in FCFA.
type Model struct {
	Brand    string
	Model    string
	MinPrice int64
	MaxPrice int64
}

var Catalogue = []Model{
	{Brand: "Toyota", Model: "Land Cruiser", MinPrice: 15_000_000, MaxPrice: 45_000_000},
	{Brand: "Mercedes", Model: "Classe E", MinPrice: 20_000_000, MaxPrice: 55_000_000},
	{Brand: "BMW", Model: "X5", MinPrice: 25_000_000, MaxPrice: 60_000_000},
	{Brand: "Range Rover", Model: "Sport", MinPrice: 35_000_000, MaxPrice: 80_000_000},
	{Brand: "Toyota", Model: "Hilux", MinPrice: 12_000_000, MaxPrice: 30_000_000},
	{Brand: "Lexus", Model: "LX 570", MinPrice: 40_000_000, MaxPrice: 75_000_000},
}

type Detection struct {
	Detected       bool
	Brand          string
	Model          string
	Confidence     int
	EstimatedPrice int64
}

// Scanner is safe for concurrent use.
type Scanner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScanner returns a scanner seeded with seed, or randomly when seed is 0.
func NewScanner(seed uint64) *Scanner {
	if seed == 0 {
		return &Scanner{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &Scanner{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *Scanner) Scan() Detection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() >= DetectionRate {
		return Detection{}
	}
	m := Catalogue[s.rng.IntN(len(Catalogue))]
	price := m.MinPrice + int64(s.rng.Float64()*float64(m.MaxPrice-m.MinPrice))
	return Detection{
		Detected:       true,
		Brand:          m.Brand,
		Model:          m.Model,
		Confidence:     MinConfidence + s.rng.IntN(MaxConfidence-MinConfidence+1),
		EstimatedPrice: price,
	}
}

// TrendScore draws the default trend score of a new listing in [50, 99].
func (s *Scanner) TrendScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 50 + s.rng.IntN(50)
}
