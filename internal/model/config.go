package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the effective configuration after defaults, file, env and flags
type Config struct {
	Constants     Constants           `yaml:"constants" mapstructure:"constants"`
	Fit           FitConfig           `yaml:"fit" mapstructure:"fit"`
	Interpolation InterpolationConfig `yaml:"interpolation" mapstructure:"interpolation"`
	Chart         ChartConfig         `yaml:"chart" mapstructure:"chart"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Concurrency   ConcurrencyConfig   `yaml:"concurrency" mapstructure:"concurrency"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
}

// Constants are the physical constants used by unit conversions
type Constants struct {
	GasConstant      float64 `yaml:"gas_constant" mapstructure:"gas_constant"`             // J/(mol·K)
	JoulesPerCalorie float64 `yaml:"joules_per_calorie" mapstructure:"joules_per_calorie"` // J/cal
	MolarMass        float64 `yaml:"molar_mass" mapstructure:"molar_mass"`                 // g/mol
}

// FitConfig bounds the iterative solver
type FitConfig struct {
	MaxIterations int       `yaml:"max_iterations" mapstructure:"max_iterations"`
	Tolerance     float64   `yaml:"tolerance" mapstructure:"tolerance"`
	InitialGuess  []float64 `yaml:"initial_guess" mapstructure:"initial_guess"` // Exponential a, b, c
	TrendModel    string    `yaml:"trend_model" mapstructure:"trend_model"`     // Comparison trend: linear or exponential
}

// InterpolationConfig holds reference table lookup settings
type InterpolationConfig struct {
	QueryError float64 `yaml:"query_error" mapstructure:"query_error"` // Default uncertainty of a query x
}

// ChartConfig controls the dense curves handed to the chart renderer
type ChartConfig struct {
	Points        int     `yaml:"points" mapstructure:"points"`
	LatentMargin  float64 `yaml:"latent_margin" mapstructure:"latent_margin"`   // x margin around the latent data, in 1/K
	CompareMargin float64 `yaml:"compare_margin" mapstructure:"compare_margin"` // x margin around the comparison data, in °C
}

// CacheConfig holds report cache settings
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig holds batch settings
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig holds presentation settings
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json or yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "clausius-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".clausius", "cache")
	}

	return &Config{
		Constants: Constants{
			GasConstant:      8.314,
			JoulesPerCalorie: 4.184,
			MolarMass:        18.015,
		},
		Fit: FitConfig{
			MaxIterations: 200,
			Tolerance:     1.49012e-8,
			InitialGuess:  []float64{1, 0.05, 0},
			TrendModel:    "exponential",
		},
		Interpolation: InterpolationConfig{
			QueryError: 0.1,
		},
		Chart: ChartConfig{
			Points:        300,
			LatentMargin:  50e-6,
			CompareMargin: 0,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate rejects configurations no computation can run with
func (c *Config) Validate() error {
	switch {
	case c.Constants.GasConstant <= 0:
		return NewInputError("constants.gas_constant", "must be positive, got %g", c.Constants.GasConstant)
	case c.Constants.JoulesPerCalorie <= 0:
		return NewInputError("constants.joules_per_calorie", "must be positive, got %g", c.Constants.JoulesPerCalorie)
	case c.Constants.MolarMass <= 0:
		return NewInputError("constants.molar_mass", "must be positive, got %g", c.Constants.MolarMass)
	case c.Fit.MaxIterations <= 0:
		return NewInputError("fit.max_iterations", "must be positive, got %d", c.Fit.MaxIterations)
	case c.Fit.Tolerance <= 0:
		return NewInputError("fit.tolerance", "must be positive, got %g", c.Fit.Tolerance)
	case len(c.Fit.InitialGuess) != 3:
		return NewInputError("fit.initial_guess", "need 3 values (a, b, c), got %d", len(c.Fit.InitialGuess))
	case c.Interpolation.QueryError < 0:
		return NewInputError("interpolation.query_error", "must not be negative, got %g", c.Interpolation.QueryError)
	case c.Chart.Points < 2:
		return NewInputError("chart.points", "need at least 2, got %d", c.Chart.Points)
	case c.Chart.LatentMargin < 0 || c.Chart.CompareMargin < 0:
		return NewInputError("chart", "margins must not be negative")
	}

	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return NewInputError("output.format", "unknown format %q", c.Output.Format)
	}

	return nil
}
