package model

type ScanResult struct {
	Detected       bool   `json:"detected"`
	Brand          string `json:"brand,omitempty"`
	Model          string `json:"model,omitempty"`
	Confidence     int    `json:"confidence,omitempty"`
	EstimatedPrice int64  `json:"estimated_price,omitempty"`
	MatchingCars   []Car  `json:"matching_cars,omitempty"`
}
