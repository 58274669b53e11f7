// Package metrics provides prometheus metric collectors for the application.
package metrics

// Histogram bucket helper constants
const (
	// BucketStart100us is the smallest bucket for per-buffer processing
	// durations, 100 microseconds.
	BucketStart100us = 0.0001

	// BucketFactor2 doubles each successive bucket.
	BucketFactor2 = 2.0

	// BucketCount12 covers 100us to ~0.4s with factor 2.
	BucketCount12 = 12
)
