package model

import "time"

// Owner is the person or dealer behind one or more listings.
type Owner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url"`
	IsDealer  bool      `json:"is_dealer"`
	Location  string    `json:"location"`
	Rating    *float64  `json:"rating,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

type OwnerProfile struct {
	Owner      *Owner `json:"owner"`
	Cars       []Car  `json:"cars"`
	CarCount   int    `json:"car_count"`
	ContactURL string `json:"contact_url"`
}
