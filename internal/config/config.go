// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PitchLength and PitchWidth set the playing surface in meters.
	PitchLength float64 `koanf:"pitch_length"`
	PitchWidth  float64 `koanf:"pitch_width"`

	// GridCols and GridRows set the zone-value grid resolution.
	GridCols int `koanf:"grid_cols"`
	GridRows int `koanf:"grid_rows"`

	// MinGapSize is the smallest defender spacing reported as a gap, meters.
	MinGapSize float64 `koanf:"min_gap_size"`

	// GapTimeHorizon is the look-ahead for defenders closing a gap, seconds.
	GapTimeHorizon float64 `koanf:"gap_time_horizon"`

	// GapExploitMargin is the extra closing time a gap needs to count as
	// exploitable, seconds.
	GapExploitMargin float64 `koanf:"gap_exploit_margin"`

	// GroundBallSpeed and AirBallSpeed feed the interception model, m/s.
	GroundBallSpeed float64 `koanf:"ground_ball_speed"`
	AirBallSpeed    float64 `koanf:"air_ball_speed"`

	// EVHighThreshold and EVSafeThreshold bucket option recommendations.
	EVHighThreshold float64 `koanf:"ev_high_threshold"`
	EVSafeThreshold float64 `koanf:"ev_safe_threshold"`

	// ShotRange is the maximum goal distance at which a shot is offered, meters.
	ShotRange float64 `koanf:"shot_range"`

	// DribbleStep is the length of each candidate carry, meters.
	DribbleStep float64 `koanf:"dribble_step"`

	// OptionFilter is an optional expression that prunes candidate options,
	// e.g. `ev > 0.02 && kind != "dribble"`. Empty disables filtering.
	OptionFilter string `koanf:"option_filter"`

	// FrameQueueSize bounds the in-memory frame queue.
	FrameQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxMomentsLimit caps GET /moments?limit.
	MaxMomentsLimit int `koanf:"max_moments_limit"`

	// MaxSimulationSteps caps the length of a simulation run.
	MaxSimulationSteps int `koanf:"max_simulation_steps"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		PitchLength:        105,
		PitchWidth:         68,
		GridCols:           12,
		GridRows:           8,
		MinGapSize:         6.0,
		GapTimeHorizon:     1.5,
		GapExploitMargin:   1.0,
		GroundBallSpeed:    15.0,
		AirBallSpeed:       20.0,
		EVHighThreshold:    0.05,
		EVSafeThreshold:    0.02,
		ShotRange:          30.0,
		DribbleStep:        5.0,
		FrameQueueSize:     10_000,
		WorkerCount:        runtime.NumCPU() * 4,
		MaxMomentsLimit:    100,
		MaxSimulationSteps: 20,
	}
}
