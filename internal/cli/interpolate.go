package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/ppiankov/clausius/internal/interp"
	"github.com/ppiankov/clausius/internal/model"
)

var queryError float64

// interpolateCmd represents the interpolate command
var interpolateCmd = &cobra.Command{
	Use:   "interpolate <x>...",
	Short: "Read values from the reference table",
	Long: `Interpolate looks up each x in the dataset's reference table and prints
the interpolated value with the uncertainty propagated from --error.
Queries outside the table are reported and make the command fail.

Negative queries must follow "--" so they are not read as flags.

Example:
  clausius interpolate 18.8 27.8 69.4
  clausius interpolate 50 --error 0.5 --data run1.yaml
  clausius interpolate -- -1 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInterpolate,
}

func init() {
	rootCmd.AddCommand(interpolateCmd)

	interpolateCmd.Flags().Float64Var(&queryError, "error", -1, "uncertainty of each query x (default from dataset or config)")
	interpolateCmd.Flags().StringVar(&dataPath, "data", "", "dataset YAML file (default: built-in water data)")
	interpolateCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if strings.HasPrefix(err.Error(), "unknown shorthand flag") {
			return fmt.Errorf("%w (pass negative queries after --, e.g. clausius interpolate -- -1 5)", err)
		}
		return err
	})
}

func runInterpolate(cmd *cobra.Command, args []string) error {
	cfg, _, _, err := setup(cmd)
	if err != nil {
		return err
	}

	queries := make([]float64, len(args))
	for i, arg := range args {
		q, err := cast.ToFloat64E(arg)
		if err != nil {
			return model.NewInputError("x", "%q is not a number", arg)
		}
		queries[i] = q
	}

	ds, err := loadDataset(dataPath)
	if err != nil {
		return err
	}
	if ds.Comparison == nil {
		return model.NewInputError("dataset", "%q has no reference table", ds.Name)
	}
	tbl, err := interp.NewTable(ds.Comparison.Reference)
	if err != nil {
		return fmt.Errorf("reference table: %w", err)
	}

	xErr := queryError
	if xErr < 0 {
		xErr = ds.Comparison.TemperatureError
		if xErr == 0 {
			xErr = cfg.Interpolation.QueryError
		}
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "x\tvalue\tuncertainty\tsegment")

	outside := 0
	for _, q := range queries {
		res, err := tbl.Interpolate(q, xErr)
		var rangeErr *model.OutOfRangeError
		switch {
		case errors.As(err, &rangeErr):
			outside++
			fmt.Fprintf(tw, "%g\tout of range [%g, %g]\t-\t-\n", q, rangeErr.Min, rangeErr.Max)
		case err != nil:
			return err
		default:
			fmt.Fprintf(tw, "%g\t%.4f\t%.4f\t%d\n", q, res.Value, res.Uncertainty, res.Segment)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if outside > 0 {
		return fmt.Errorf("%d of %d queries: %w", outside, len(queries), model.ErrOutOfRange)
	}
	return nil
}
