// Package dataset holds experimental inputs: the Clausius–Clapeyron samples
// and the pressure comparison against a reference table. Datasets live in
// YAML files; the water measurements are built in.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/clausius/internal/model"
)

// Dataset is one experiment. Either section may be absent.
type Dataset struct {
	Name       string      `json:"name" yaml:"name"`
	Latent     *Latent     `json:"latent,omitempty" yaml:"latent,omitempty"`
	Comparison *Comparison `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// Latent holds ln(P) against 1/T with per-point uncertainties
type Latent struct {
	InverseT      []float64 `json:"inverse_t" yaml:"inverse_t"`             // 1/K
	InverseTError []float64 `json:"inverse_t_error" yaml:"inverse_t_error"` // 1/K, optional
	LnP           []float64 `json:"ln_p" yaml:"ln_p"`                       // ln(P/mmHg)
	LnPError      []float64 `json:"ln_p_error" yaml:"ln_p_error"`
}

// Comparison holds measured pressures and the reference table they are checked against
type Comparison struct {
	Temperature      []float64     `json:"temperature" yaml:"temperature"` // °C
	Pressure         []float64     `json:"pressure" yaml:"pressure"`       // mmHg
	TemperatureError float64       `json:"temperature_error" yaml:"temperature_error"`
	Reference        []model.Point `json:"reference" yaml:"reference,flow"`
}

// Samples zips the latent columns into samples
func (l *Latent) Samples() []model.Sample {
	out := make([]model.Sample, len(l.InverseT))
	for i := range l.InverseT {
		out[i] = model.Sample{X: l.InverseT[i], Y: l.LnP[i], SigmaY: l.LnPError[i]}
		if i < len(l.InverseTError) {
			out[i].SigmaX = l.InverseTError[i]
		}
	}
	return out
}

// Measured zips temperatures and pressures into points
func (c *Comparison) Measured() []model.Point {
	out := make([]model.Point, len(c.Temperature))
	for i := range c.Temperature {
		out[i] = model.Point{X: c.Temperature[i], Y: c.Pressure[i]}
	}
	return out
}

// Validate checks lengths and uncertainties before anything is computed
func (d *Dataset) Validate() error {
	if d.Latent == nil && d.Comparison == nil {
		return model.NewInputError("dataset", "%q has neither a latent nor a comparison section", d.Name)
	}

	if l := d.Latent; l != nil {
		n := len(l.InverseT)
		if n < 2 {
			return model.NewInputError("latent.inverse_t", "need at least 2 samples, got %d", n)
		}
		if len(l.LnP) != n {
			return model.NewInputError("latent.ln_p", "length %d does not match inverse_t length %d", len(l.LnP), n)
		}
		if len(l.LnPError) != n {
			return model.NewInputError("latent.ln_p_error", "length %d does not match inverse_t length %d", len(l.LnPError), n)
		}
		if len(l.InverseTError) != 0 && len(l.InverseTError) != n {
			return model.NewInputError("latent.inverse_t_error", "length %d does not match inverse_t length %d", len(l.InverseTError), n)
		}
		for i, e := range l.LnPError {
			if !(e > 0) || math.IsInf(e, 0) {
				return model.NewInputError("latent.ln_p_error", "index %d must be positive, got %g", i, e)
			}
		}
		for i, x := range l.InverseT {
			if !(x > 0) {
				return model.NewInputError("latent.inverse_t", "index %d must be positive, got %g", i, x)
			}
		}
	}

	if c := d.Comparison; c != nil {
		if len(c.Pressure) != len(c.Temperature) {
			return model.NewInputError("comparison.pressure", "length %d does not match temperature length %d", len(c.Pressure), len(c.Temperature))
		}
		if c.TemperatureError < 0 {
			return model.NewInputError("comparison.temperature_error", "must not be negative, got %g", c.TemperatureError)
		}
		if len(c.Reference) < 2 {
			return model.NewInputError("comparison.reference", "need at least 2 points, got %d", len(c.Reference))
		}
		for i := 1; i < len(c.Reference); i++ {
			if !(c.Reference[i].X > c.Reference[i-1].X) {
				return model.NewInputError("comparison.reference", "x must be strictly increasing at index %d", i)
			}
		}
	}

	return nil
}

// Fingerprint is a stable hash of the dataset content
func (d *Dataset) Fingerprint() string {
	// json.Marshal of plain structs and float slices is deterministic
	data, _ := json.Marshal(d)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load reads and validates a dataset file
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if ds.Name == "" {
		ds.Name = nameFromPath(path)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	return &ds, nil
}

// Save writes the dataset as YAML
func Save(path string, ds *Dataset) error {
	data, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
