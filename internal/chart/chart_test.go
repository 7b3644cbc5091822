package chart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/clausius/internal/model"
)

func latentReport() *model.LatentReport {
	return &model.LatentReport{
		Samples: []model.Sample{
			{X: 3425.22e-6, Y: 3.25, SigmaX: 1.2e-6, SigmaY: 0.04},
			{X: 2919.30e-6, Y: 5.492, SigmaX: 0.9e-6, SigmaY: 0.004},
			{X: 2720.70e-6, Y: 6.456, SigmaX: 0.7e-6, SigmaY: 0.002},
		},
		Curve: []model.Point{{X: 2700e-6, Y: 6.56}, {X: 3450e-6, Y: 3.0}},
	}
}

func comparisonReport() *model.ComparisonReport {
	return &model.ComparisonReport{
		Rows: []model.Comparison{
			{X: 18.8, Measured: 26, Reference: &model.InterpolationResult{Value: 16.28}},
			{X: 69.4, Measured: 243, Reference: &model.InterpolationResult{Value: 227.9}},
			{X: 120, Measured: 1500, OutOfRange: true},
		},
		MeasuredCurve:  []model.Point{{X: 0, Y: 0}, {X: 50, Y: 90}, {X: 100, Y: 700}},
		ReferenceCurve: []model.Point{{X: 0, Y: 4.6}, {X: 50, Y: 92}, {X: 100, Y: 760}},
	}
}

func TestLatent_SavesPNG(t *testing.T) {
	p, err := Latent("water", latentReport())
	require.NoError(t, err)
	assert.Equal(t, "water", p.Title.Text)

	path := filepath.Join(t.TempDir(), "charts", "latent.png")
	require.NoError(t, Save(p, path, DefaultSize))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestComparison_SavesSVG(t *testing.T) {
	p, err := Comparison("water", comparisonReport())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "compare.svg")
	require.NoError(t, Save(p, path, DefaultSize))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestEmptyReports(t *testing.T) {
	_, err := Latent("empty", &model.LatentReport{})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	_, err = Comparison("empty", nil)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestSave_UnknownExtension(t *testing.T) {
	p, err := Latent("water", latentReport())
	require.NoError(t, err)

	err = Save(p, filepath.Join(t.TempDir(), "latent.bmp"), DefaultSize)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}
