package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/clausius/internal/pipeline"
	"github.com/ppiankov/clausius/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyse many dataset files in parallel",
	Long: `Batch processes multiple datasets concurrently:
- Read dataset paths from the input file (one per line, # for comments)
- Run the latent heat and comparison analyses on a worker pool
- Write one JSON report per dataset

Example:
  clausius batch runs.txt
  clausius batch runs.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./clausius-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	cfg, p, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	logger.Info("batch started", "input", file, "workers", workers, "output_dir", outputDir)

	results, err := worker.NewBatchProcessor(p, workers).ProcessFile(ctx, file)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	failures := 0
	taken := make(map[string]bool, len(results))
	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		jsonPath := filepath.Join(outputDir, uniqueReportName(result.Path, result.Index, taken)+".json")
		if err := pipeline.WriteFile(result.Report, jsonPath); err != nil {
			failures++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}

		line := fmt.Sprintf("✓ %s → %s", result.Path, jsonPath)
		if lr := result.Report.Latent; lr != nil {
			w := lr.Heat.Weighted.Molar
			line += fmt.Sprintf(" (Lv = %.2f ± %.2f kJ/mol)", w.Value/1000, w.Uncertainty/1000)
		}
		fmt.Fprintln(stderr, line)
	}

	fmt.Fprintf(stderr, "\n  Total: %d  Success: %d  Failures: %d  Output: %s\n",
		len(results), len(results)-failures, failures, outputDir)

	if failures > 0 {
		return fmt.Errorf("%d of %d datasets failed", failures, len(results))
	}
	return nil
}

// uniqueReportName suffixes the dataset index when another dataset of the
// same batch already claimed the name
func uniqueReportName(path string, index int, taken map[string]bool) string {
	base := reportName(path)
	name := base
	for n := 0; taken[name]; n++ {
		if n == 0 {
			name = fmt.Sprintf("%s-%d", base, index)
		} else {
			name = fmt.Sprintf("%s-%d-%d", base, index, n)
		}
	}
	taken[name] = true
	return name
}

// reportName derives a file name from the dataset path
func reportName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	base = replacer.Replace(base)

	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" || base == "." {
		base = "dataset"
	}
	return base
}
