package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/clausius/internal/dataset"
	"github.com/ppiankov/clausius/internal/model"
)

// resetFlags restores every flag to its default between runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "clausius "+version+"\n", out)
}

func TestRootRunsBuiltInDataset(t *testing.T) {
	out, _, err := execute(t, "--no-cache")
	require.NoError(t, err)

	assert.Contains(t, out, "Dataset: water")
	assert.Contains(t, out, "Weighted mean:   Lv = 39.47 ± 0.09 kJ/mol")
	assert.Contains(t, out, "16.28")
}

func TestLatent_JSON(t *testing.T) {
	out, _, err := execute(t, "latent", "--no-cache", "--format", "json")
	require.NoError(t, err)

	var rep model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.NotNil(t, rep.Latent)
	assert.Nil(t, rep.Comparison)
	assert.InDelta(t, 39470.05, rep.Latent.Heat.Weighted.Molar.Value, 0.05)
}

func TestCompare_ChartAndOutFile(t *testing.T) {
	dir := t.TempDir()
	chartFile := filepath.Join(dir, "compare.png")
	reportFile := filepath.Join(dir, "compare.yaml")

	_, stderr, err := execute(t, "compare", "--no-cache", "--chart", chartFile, "--out", reportFile)
	require.NoError(t, err)
	assert.Contains(t, stderr, reportFile)

	info, err := os.Stat(chartFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reference_fit:")
}

func TestInterpolate(t *testing.T) {
	out, _, err := execute(t, "interpolate", "0.5", "18.8")
	require.NoError(t, err)
	assert.Contains(t, out, "4.7571")
	assert.Contains(t, out, "0.0344")
	assert.Contains(t, out, "16.2848")
}

func TestInterpolate_OutOfRange(t *testing.T) {
	out, _, err := execute(t, "interpolate", "--error", "0.5", "--", "-5", "50")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrOutOfRange), "got %v", err)
	assert.Contains(t, out, "out of range [0, 99]")
	assert.Contains(t, out, "92.5880")
}

func TestInterpolate_NegativeNeedsSeparator(t *testing.T) {
	_, _, err := execute(t, "interpolate", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clausius interpolate -- -1 5")

	out, _, err := execute(t, "interpolate", "--", "-1")
	assert.True(t, errors.Is(err, model.ErrOutOfRange), "got %v", err)
	assert.Contains(t, out, "out of range [0, 99]")
}

func TestInterpolate_BadNumber(t *testing.T) {
	_, _, err := execute(t, "interpolate", "warm")
	assert.True(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)
}

func TestDatasetExportAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.yaml")

	_, _, err := execute(t, "dataset", "export", "--out", path)
	require.NoError(t, err)

	ds, err := dataset.Load(path)
	require.NoError(t, err)
	assert.Equal(t, dataset.Default().Fingerprint(), ds.Fingerprint())

	out, _, err := execute(t, "latent", "--no-cache", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Dataset: water")

	out, _, err = execute(t, "dataset", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)

	_, _, err = execute(t, "config", "init", "--config", path)
	assert.Error(t, err, "init must not overwrite an existing file")

	out, stderr, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, path)
	assert.Contains(t, out, "gas_constant: 8.314")
	assert.Contains(t, out, "max_iterations: 200")
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("CLAUSIUS_CONSTANTS_GAS_CONSTANT", "8.3145")

	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "gas_constant: 8.3145")

	t.Setenv("CLAUSIUS_FIT_MAX_ITERATIONS", "0")
	_, _, err = execute(t, "latent", "--no-cache")
	assert.True(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "run1.yaml")
	require.NoError(t, dataset.Save(good, dataset.Default()))

	list := filepath.Join(dir, "runs.txt")
	require.NoError(t, os.WriteFile(list, []byte(good+"\n# skipped\n"), 0644))

	outDir := filepath.Join(dir, "reports")
	_, stderr, err := execute(t, "batch", list, "--no-cache", "--output-dir", outDir, "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Lv = 39.47")

	data, err := os.ReadFile(filepath.Join(outDir, "run1.json"))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	require.NoError(t, os.WriteFile(list, []byte(good+"\n"+filepath.Join(dir, "missing.yaml")+"\n"), 0644))
	_, stderr, err = execute(t, "batch", list, "--no-cache", "--output-dir", outDir)
	assert.Error(t, err)
	assert.Contains(t, stderr, "missing.yaml")
}

func TestBatch_SameBaseName(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "run.yaml")
	second := filepath.Join(dir, "b", "run.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(first), 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0755))
	require.NoError(t, dataset.Save(first, dataset.Default()))
	other := dataset.Default()
	other.Name = "other"
	require.NoError(t, dataset.Save(second, other))

	list := filepath.Join(dir, "runs.txt")
	require.NoError(t, os.WriteFile(list, []byte(first+"\n"+second+"\n"), 0644))

	outDir := filepath.Join(dir, "reports")
	_, _, err := execute(t, "batch", list, "--no-cache", "--output-dir", outDir)
	require.NoError(t, err)

	subjects := map[string]string{}
	for _, name := range []string{"run.json", "run-1.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		var rep model.Report
		require.NoError(t, json.Unmarshal(data, &rep))
		subjects[name] = rep.Subject
	}
	assert.Equal(t, map[string]string{"run.json": "water", "run-1.json": "other"}, subjects)
}

func TestUniqueReportName(t *testing.T) {
	taken := map[string]bool{}
	assert.Equal(t, "run", uniqueReportName("a/run.yaml", 0, taken))
	assert.Equal(t, "run-1", uniqueReportName("b/run.yaml", 1, taken))
	assert.Equal(t, "other", uniqueReportName("c/other.yaml", 2, taken))

	taken["run-3"] = true
	assert.Equal(t, "run-3-1", uniqueReportName("d/run.yaml", 3, taken))
}

func TestReportName(t *testing.T) {
	assert.Equal(t, "run-1", reportName("/data/run 1.yaml"))
	assert.Equal(t, "a_b", reportName("a:b.yml"))
	assert.Equal(t, "dataset", reportName(""))
}
