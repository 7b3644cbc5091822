package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ppiankov/clausius/internal/cache"
	"github.com/ppiankov/clausius/internal/dataset"
	"github.com/ppiankov/clausius/internal/fit"
	"github.com/ppiankov/clausius/internal/interp"
	"github.com/ppiankov/clausius/internal/latent"
	"github.com/ppiankov/clausius/internal/model"
	"github.com/ppiankov/clausius/internal/score"
)

// Pipeline orchestrates fitting, derived quantities and table comparison
type Pipeline struct {
	config  *model.Config
	scorer  *score.Scorer
	reports *cache.Reports // nil when caching is disabled
	logger  *slog.Logger
	now     func() time.Time
}

// NewPipeline creates a new pipeline with the given configuration. When
// cfg.Cache.Enabled is set, reports are kept in a memory and disk cache.
func NewPipeline(cfg *model.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		config: cfg,
		scorer: score.NewScorer(),
		logger: logger,
		now:    time.Now,
	}
	if cfg.Cache.Enabled {
		p.SetCache(cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL))
	}
	return p
}

// SetCache replaces the report cache. nil disables caching.
func (p *Pipeline) SetCache(c cache.Cache) {
	if c == nil {
		p.reports = nil
		return
	}
	p.reports = cache.NewReports(c, 0)
}

func (p *Pipeline) fitOptions(absolute bool) fit.Options {
	return fit.Options{
		MaxIterations: p.config.Fit.MaxIterations,
		Tolerance:     p.config.Fit.Tolerance,
		AbsoluteSigma: absolute,
	}
}

// Run analyses every section present in the dataset
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset) (*model.Report, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	fingerprint := ds.Fingerprint()
	key := cache.Key(fingerprint, p.configFingerprint())
	if p.reports != nil {
		if rep, ok := p.reports.Get(key); ok {
			p.logger.Debug("report cache hit", "dataset", ds.Name, "fingerprint", fingerprint[:12])
			return rep, nil
		}
	}

	report := &model.Report{
		Subject:     ds.Name,
		Fingerprint: fingerprint,
		GeneratedAt: p.now().UTC(),
	}

	if ds.Latent != nil {
		lr, err := p.Latent(ctx, ds)
		if err != nil {
			return nil, fmt.Errorf("latent heat: %w", err)
		}
		report.Latent = lr
	}

	if ds.Comparison != nil {
		cr, err := p.Compare(ctx, ds)
		if err != nil {
			return nil, fmt.Errorf("comparison: %w", err)
		}
		report.Comparison = cr
	}

	if p.reports != nil {
		if err := p.reports.Set(key, report); err != nil {
			p.logger.Warn("could not cache report", "dataset", ds.Name, "err", err)
		}
	}

	return report, nil
}

// Latent fits ln(P) against 1/T and derives the latent heat
func (p *Pipeline) Latent(ctx context.Context, ds *dataset.Dataset) (*model.LatentReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds.Latent == nil {
		return nil, model.NewInputError("dataset", "%q has no latent section", ds.Name)
	}

	samples := ds.Latent.Samples()
	xs, ys, sigmas := model.Columns(samples)

	// 1. Weighted linear fit with absolute uncertainties
	res, err := fit.Fit(fit.Linear, xs, ys, sigmas, p.fitOptions(true))
	if err != nil {
		return nil, fmt.Errorf("fit ln(P) vs 1/T: %w", err)
	}
	p.logger.Debug("linear fit", "dataset", ds.Name, "a", res.Params[0], "b", res.Params[1], "chi2", res.ChiSquare)

	// 2. Latent heat from slope, intercept and their weighted mean
	anchor, err := latent.AnchorFromSamples(samples)
	if err != nil {
		return nil, err
	}
	heat, err := latent.Compute(res, anchor, p.config.Constants)
	if err != nil {
		return nil, err
	}

	// 3. Fit quality
	quality := p.scorer.Calculate(fit.Linear, samples, res)
	for _, s := range quality.Signals {
		if s.Severity != model.SeverityInfo {
			p.logger.Warn("fit diagnostic", "dataset", ds.Name, "type", s.Type, "detail", s.Description)
		}
	}

	// 4. Dense curve for charts
	lo, hi := fit.Bounds(xs, p.config.Chart.LatentMargin)

	return &model.LatentReport{
		Samples: samples,
		Fit:     res,
		Quality: quality,
		Heat:    heat,
		Curve:   fit.Curve(fit.Linear, res.Params, lo, hi, p.config.Chart.Points),
	}, nil
}

// Compare interpolates the reference table at every measured temperature
// and fits the configured trend model to both series.
func (p *Pipeline) Compare(ctx context.Context, ds *dataset.Dataset) (*model.ComparisonReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := ds.Comparison
	if c == nil {
		return nil, model.NewInputError("dataset", "%q has no comparison section", ds.Name)
	}

	trendModel, err := fit.ParseModel(p.config.Fit.TrendModel)
	if err != nil {
		return nil, fmt.Errorf("fit.trend_model: %w", err)
	}

	tbl, err := interp.NewTable(c.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference table: %w", err)
	}

	xErr := c.TemperatureError
	if xErr == 0 {
		xErr = p.config.Interpolation.QueryError
	}

	// 1. Interpolated reference values
	rows := tbl.Compare(c.Measured(), xErr)
	lo, hi := tbl.Domain()
	for _, row := range rows {
		if row.OutOfRange {
			p.logger.Warn("measurement outside reference table", "dataset", ds.Name, "x", row.X, "min", lo, "max", hi)
		}
	}

	report := &model.ComparisonReport{
		QueryError:   xErr,
		Rows:         rows,
		TrendFormula: trendModel.Formula(),
	}

	// 2. Trends, unweighted
	refX, refY := tbl.Columns()
	measured, err := p.trend(ctx, trendModel, "measured", c.Temperature, c.Pressure)
	if err != nil {
		return nil, err
	}
	reference, err := p.trend(ctx, trendModel, "reference", refX, refY)
	if err != nil {
		return nil, err
	}
	report.MeasuredFit = measured
	report.ReferenceFit = reference

	// 3. Dense curves over the union of both ranges
	curveLo, curveHi := fit.Bounds(refX, p.config.Chart.CompareMargin)
	if len(c.Temperature) > 0 {
		mLo, mHi := fit.Bounds(c.Temperature, p.config.Chart.CompareMargin)
		curveLo, curveHi = math.Min(curveLo, mLo), math.Max(curveHi, mHi)
	}
	if measured != nil {
		report.MeasuredCurve = fit.Curve(trendModel, measured.Params, curveLo, curveHi, p.config.Chart.Points)
	}
	if reference != nil {
		report.ReferenceCurve = fit.Curve(trendModel, reference.Params, curveLo, curveHi, p.config.Chart.Points)
	}

	return report, nil
}

// trend fits m to one series. Series too short to leave a degree of
// freedom are skipped rather than reported with infinite errors.
func (p *Pipeline) trend(ctx context.Context, m fit.Model, name string, xs, ys []float64) (*model.FitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(xs) <= m.Arity() {
		p.logger.Info("too few points for a trend", "series", name, "model", m.String(), "points", len(xs))
		return nil, nil
	}

	opts := p.fitOptions(false)
	if !m.IsLinear() {
		opts.Initial = p.config.Fit.InitialGuess
	}

	res, err := fit.Fit(m, xs, ys, nil, opts)
	if err != nil {
		var convErr *model.ConvergenceError
		if errors.As(err, &convErr) {
			p.logger.Error("trend fit did not converge", "series", name, "model", m.String(), "iterations", convErr.Iterations, "initial", opts.Initial)
		}
		return nil, fmt.Errorf("fit %s trend: %w", name, err)
	}
	p.logger.Debug("trend fit", "series", name, "model", m.String(), "params", res.Params, "iterations", res.Iterations)

	return &res, nil
}

// configFingerprint covers every setting that changes a report
func (p *Pipeline) configFingerprint() string {
	data, _ := json.Marshal(struct {
		Constants     model.Constants
		Fit           model.FitConfig
		Interpolation model.InterpolationConfig
		Chart         model.ChartConfig
	}{p.config.Constants, p.config.Fit, p.config.Interpolation, p.config.Chart})
	return string(data)
}
