package models

import "time"

// MetricsSnapshot is a lightweight summary of process metrics.
type MetricsSnapshot struct {
	RequestsTotal            uint64            `json:"requests_total"`
	AverageRequestDurationMs float64           `json:"average_request_duration_ms"`
	StoreOperations          uint64            `json:"store_operations"`
	StoreErrors              uint64            `json:"store_errors"`
	AverageStoreDurationMs   float64           `json:"average_store_duration_ms"`
	Workflows                map[string]uint64 `json:"workflows"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generated_at"`
}
