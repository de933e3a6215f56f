package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot for the status endpoint;
// the full series lives in Prometheus.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	GenerationsTotal         uint64    `json:"generations_total"`
	LastGenerationScheduled  int       `json:"last_generation_scheduled"`
	LastGenerationConflicts  int       `json:"last_generation_conflicts"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
