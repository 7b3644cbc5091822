package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/clausius/internal/chart"
	"github.com/ppiankov/clausius/internal/dataset"
	"github.com/ppiankov/clausius/internal/model"
	"github.com/ppiankov/clausius/internal/pipeline"
)

var (
	dataPath  string
	chartPath string
	format    string
	outPath   string
)

// latentCmd represents the latent command
var latentCmd = &cobra.Command{
	Use:   "latent",
	Short: "Estimate the latent heat of vaporization",
	Long: `Latent fits ln(P) against 1/T with weights 1/σ², then derives the
latent heat from the slope, from the intercept anchored at the first
sample, and from their inverse-variance weighted mean.

Example:
  clausius latent
  clausius latent --data run1.yaml --chart latent.png
  clausius latent --format json --out latent.json`,
	Args: cobra.NoArgs,
	RunE: runLatent,
}

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare measured pressures with a reference table",
	Long: `Compare reads the reference pressure at every measured temperature by
piecewise-linear interpolation, propagates the temperature uncertainty,
and fits P = a·exp(b·T) + c to both series.

Example:
  clausius compare
  clausius compare --data run1.yaml --chart compare.svg`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(latentCmd)
	rootCmd.AddCommand(compareCmd)

	for _, cmd := range []*cobra.Command{latentCmd, compareCmd} {
		cmd.Flags().StringVar(&dataPath, "data", "", "dataset YAML file (default: built-in water data)")
		cmd.Flags().StringVar(&chartPath, "chart", "", "write a chart (.png, .svg, .pdf)")
		cmd.Flags().StringVar(&format, "format", "", "output format: text, json or yaml (default from config)")
		cmd.Flags().StringVar(&outPath, "out", "", "write the report to a file instead of stdout")
	}
}

func runLatent(cmd *cobra.Command, args []string) error {
	cfg, p, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(dataPath)
	if err != nil {
		return err
	}

	lr, err := p.Latent(cmd.Context(), ds)
	if err != nil {
		return err
	}
	report := newReport(ds)
	report.Latent = lr

	if chartPath != "" {
		plt, err := chart.Latent(fmt.Sprintf("Clausius–Clapeyron fit: %s", ds.Name), lr)
		if err != nil {
			return err
		}
		if err := chart.Save(plt, chartPath, chart.DefaultSize); err != nil {
			return err
		}
		logger.Info("chart written", "path", chartPath)
	}

	return writeReport(cmd, cfg, report)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, p, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(dataPath)
	if err != nil {
		return err
	}

	cr, err := p.Compare(cmd.Context(), ds)
	if err != nil {
		return err
	}
	report := newReport(ds)
	report.Comparison = cr

	if chartPath != "" {
		plt, err := chart.Comparison(fmt.Sprintf("Vapor pressure: %s", ds.Name), cr)
		if err != nil {
			return err
		}
		if err := chart.Save(plt, chartPath, chart.DefaultSize); err != nil {
			return err
		}
		logger.Info("chart written", "path", chartPath)
	}

	return writeReport(cmd, cfg, report)
}

func newReport(ds *dataset.Dataset) *model.Report {
	return &model.Report{
		Subject:     ds.Name,
		Fingerprint: ds.Fingerprint(),
		GeneratedAt: time.Now().UTC(),
	}
}

// writeReport sends the report to --out, or to stdout in --format
func writeReport(cmd *cobra.Command, cfg *model.Config, report *model.Report) error {
	if outPath != "" {
		if err := pipeline.WriteFile(report, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Report written to %s\n", outPath)
		return nil
	}

	f := format
	if f == "" {
		f = cfg.Output.Format
	}
	return pipeline.NewRenderer(cmd.OutOrStdout()).Render(report, f)
}
