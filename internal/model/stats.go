package model

// CatalogStats are the aggregate counters shown in the stats bar and dashboard.
type CatalogStats struct {
	TotalCars         int64 `json:"total_cars"`
	ActiveCars        int64 `json:"active_cars"`
	TotalViews        int64 `json:"total_views"`
	TotalMedia        int64 `json:"total_media"`
	TotalInteractions int64 `json:"total_interactions"`
	OnlineViewers     int   `json:"online_viewers"`
}
