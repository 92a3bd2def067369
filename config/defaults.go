package config

import "time"

// Default runtime limits and guardrails for the gridserver MCP server.
// These values are conservative and can be overridden by future configuration
// mechanisms (env, CLI, or files). They are referenced by internal/runtime
// and internal/render.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10
	DefaultMaxOpenWorkbooks      = 4

	// Payload and row limits
	DefaultMaxPayloadBytes = 128 * 1024 // 128KB
	DefaultMaxCellsPerOp   = 10_000
	DefaultPreviewRowLimit = 10 // First 10 rows by default
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
)

const (
	// Render hash bucketing (internal/render): a "hash" is a fixed-size
	// rectangular bucket of cells used for lazy viewport loading.
	DefaultHashWidth  = 16
	DefaultHashHeight = 16

	// DefaultNeededHashPageSize bounds a single needed-hashes page so a
	// very large visible set is paginated rather than returned whole.
	DefaultNeededHashPageSize = 256

	// Deceleration (momentum scrolling) physics.
	DefaultDecelerationHalfLifeMs = 325.0 // time for velocity to halve
	DefaultDecelerationStopPxS    = 2.0   // velocity magnitude below which decel stops
)
