// Package config loads watermark codec tuning from the environment,
// following the same envOr/envIntOr fallback idiom the rest of this
// codebase uses for its runtime settings.
package config

import (
	"os"
	"strconv"
)

// Config holds the tuning parameters for a single embed/extract run.
// All fields have defaults matching the reference codec (spec §7
// Parameters / defaults).
type Config struct {
	LogLevel string

	// Quantisation step sizes for the primary and secondary singular
	// values. D2=0 selects "fast mode" (single singular value).
	D1 float64
	D2 float64

	// Block geometry for the blockwise DCT/SVD codec.
	BlockHeight int
	BlockWidth  int

	// Scrambler seeds. Matched embed/extract calls must agree on both.
	ImgKey int
	WmKey  int

	// Execution strategy for the block-level pool: serial, threaded,
	// process, or vectorised.
	PoolMode    string
	WorkerCount int

	// Template-matching crop/scale recovery search range.
	ScaleMin    float64
	ScaleMax    float64
	SearchSteps int
}

// Load reads Config from the environment, falling back to the
// reference codec's defaults for anything unset.
func Load() *Config {
	return &Config{
		LogLevel:    envOr("LOG_LEVEL", "info"),
		D1:          envFloatOr("BLINDWM_D1", 36),
		D2:          envFloatOr("BLINDWM_D2", 20),
		BlockHeight: envIntOr("BLINDWM_BLOCK_HEIGHT", 4),
		BlockWidth:  envIntOr("BLINDWM_BLOCK_WIDTH", 4),
		ImgKey:      envIntOr("BLINDWM_IMG_KEY", 1),
		WmKey:       envIntOr("BLINDWM_WM_KEY", 1),
		PoolMode:    envOr("BLINDWM_POOL_MODE", "threaded"),
		WorkerCount: envIntOr("BLINDWM_WORKER_COUNT", 0),
		ScaleMin:    envFloatOr("BLINDWM_SCALE_MIN", 0.5),
		ScaleMax:    envFloatOr("BLINDWM_SCALE_MAX", 2.0),
		SearchSteps: envIntOr("BLINDWM_SEARCH_STEPS", 200),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
