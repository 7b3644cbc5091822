package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/clausius/internal/dataset"
)

var exportPath string

// datasetCmd represents the dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect and export datasets",
}

var datasetExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built-in water dataset as YAML",
	Long: `Export writes the built-in water measurements in the dataset file
format, ready to be edited and passed back with --data.

Example:
  clausius dataset export --out water.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds := dataset.Default()

		if exportPath != "" {
			if err := dataset.Save(exportPath, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Dataset written to %s\n", exportPath)
			return nil
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("encode dataset: %w", err)
		}
		return enc.Close()
	},
}

var datasetCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate dataset files without running any fit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			ds, err := dataset.Load(path)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s, fingerprint %s)\n", path, ds.Name, ds.Fingerprint()[:12])
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d datasets invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetExportCmd)
	datasetCmd.AddCommand(datasetCheckCmd)

	datasetExportCmd.Flags().StringVar(&exportPath, "out", "", "output file (default: stdout)")
}
