package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/clausius/internal/model"
)

// Renderer writes reports as text, JSON or YAML
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes the report in the given format
func (r *Renderer) Render(report *model.Report, format string) error {
	switch format {
	case "", "text":
		return r.RenderText(report)
	case "json":
		return r.RenderJSON(report)
	case "yaml":
		return r.RenderYAML(report)
	default:
		return model.NewInputError("format", "unknown output format %q", format)
	}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// RenderYAML writes the report as YAML
func (r *Renderer) RenderYAML(report *model.Report) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}

// RenderText writes the human-readable summary
func (r *Renderer) RenderText(report *model.Report) error {
	w := &errWriter{w: r.out}

	w.printf("Dataset: %s\n", report.Subject)

	if lr := report.Latent; lr != nil {
		a, b := lr.Fit.Param(0), lr.Fit.Param(1)

		w.printf("\nLinear fit ln(P) = a·(1/T) + b:\n")
		w.printf("  Slope (a)     = %.2e ± %.2e K\n", a.Value, a.Uncertainty)
		w.printf("  Intercept (b) = %.2f ± %.2f\n", b.Value, b.Uncertainty)
		w.printf("  chi2/dof      = %.3g / %d\n", lr.Quality.ChiSquare, lr.Quality.DOF)

		w.printf("\nLatent heat of vaporization:\n")
		w.printf("  From slope:      %s\n", formatQuantity(lr.Heat.FromSlope))
		w.printf("  From intercept:  %s\n", formatQuantity(lr.Heat.FromIntercept))
		w.printf("\n  Weighted mean:   %s\n", formatQuantity(lr.Heat.Weighted))

		if notes := notableSignals(lr.Quality.Signals); len(notes) > 0 {
			w.printf("\nDiagnostics:\n")
			for _, s := range notes {
				w.printf("  [%s] %s\n", s.Severity, s.Description)
			}
		}
	}

	if cr := report.Comparison; cr != nil {
		w.printf("\nInterpolated reference pressures (query error %.2g):\n", cr.QueryError)

		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "T (°C)\tP measured (mmHg)\tP reference (mmHg)\tError(P) (mmHg)")
		fmt.Fprintln(tw, "------\t-----------------\t------------------\t---------------")
		for _, row := range cr.Rows {
			if row.OutOfRange {
				fmt.Fprintf(tw, "%.1f\t%g\tout of range\t-\n", row.X, row.Measured)
				continue
			}
			fmt.Fprintf(tw, "%.1f\t%g\t%.2f\t%.4f\n", row.X, row.Measured, row.Reference.Value, row.Reference.Uncertainty)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if cr.MeasuredFit != nil || cr.ReferenceFit != nil {
			w.printf("\nTrends %s (x = T, y = P):\n", cr.TrendFormula)
		}
		if f := cr.MeasuredFit; f != nil {
			w.printf("  Measured:   %s\n", paramList(f))
		}
		if f := cr.ReferenceFit; f != nil {
			w.printf("  Reference:  %s\n", paramList(f))
		}
	}

	return w.err
}

func paramList(f *model.FitResult) string {
	parts := make([]string, len(f.Params))
	for i, v := range f.Params {
		name := fmt.Sprintf("p%d", i)
		if i < len(f.Names) {
			name = f.Names[i]
		}
		parts[i] = fmt.Sprintf("%s = %.4g", name, v)
	}
	return strings.Join(parts, ", ")
}

// WriteFile renders the report into path, picking the format from its extension
func WriteFile(report *model.Report, path string) error {
	format := "text"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = "json"
	case ".yaml", ".yml":
		format = "yaml"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := NewRenderer(f).Render(report, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func formatQuantity(q model.Quantity) string {
	return fmt.Sprintf("Lv = %.2f ± %.2f kJ/mol = %.2f ± %.2f cal/g",
		q.Molar.Value/1000, q.Molar.Uncertainty/1000, q.PerGram.Value, q.PerGram.Uncertainty)
}

func notableSignals(signals []model.Signal) []model.Signal {
	var out []model.Signal
	for _, s := range signals {
		if s.Severity != model.SeverityInfo {
			out = append(out, s)
		}
	}
	return out
}

// errWriter keeps the first write error so printing code stays linear
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(e, format, args...)
}
