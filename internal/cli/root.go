package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/clausius/internal/dataset"
	"github.com/ppiankov/clausius/internal/model"
	"github.com/ppiankov/clausius/internal/pipeline"
)

const version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	noCache bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clausius",
	Short: "Clausius - vapor pressure fits and latent heat of vaporization",
	Long: `Clausius fits vapor pressure measurements.

It estimates the latent heat of vaporization from a weighted
Clausius–Clapeyron fit of ln(P) against 1/T, and compares measured
pressures with a reference table by piecewise-linear interpolation.

Run without a subcommand to analyse the built-in water dataset.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	RunE:          runDefault,
}

// Execute runs the root command, cancelling on SIGINT or SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "clausius %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.clausius/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the report cache")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	viper.Reset()
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".clausius"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CLAUSIUS_FIT_MAX_ITERATIONS overrides fit.max_iterations
	viper.SetEnvPrefix("CLAUSIUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func setDefaults(cfg *model.Config) {
	viper.SetDefault("constants.gas_constant", cfg.Constants.GasConstant)
	viper.SetDefault("constants.joules_per_calorie", cfg.Constants.JoulesPerCalorie)
	viper.SetDefault("constants.molar_mass", cfg.Constants.MolarMass)
	viper.SetDefault("fit.max_iterations", cfg.Fit.MaxIterations)
	viper.SetDefault("fit.tolerance", cfg.Fit.Tolerance)
	viper.SetDefault("fit.initial_guess", cfg.Fit.InitialGuess)
	viper.SetDefault("fit.trend_model", cfg.Fit.TrendModel)
	viper.SetDefault("interpolation.query_error", cfg.Interpolation.QueryError)
	viper.SetDefault("chart.points", cfg.Chart.Points)
	viper.SetDefault("chart.latent_margin", cfg.Chart.LatentMargin)
	viper.SetDefault("chart.compare_margin", cfg.Chart.CompareMargin)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig merges defaults, config file, environment and global flags
func loadConfig() (*model.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *model.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// setup loads the configuration and builds a pipeline for one command
func setup(cmd *cobra.Command) (*model.Config, *pipeline.Pipeline, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cmd, cfg)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	return cfg, pipeline.NewPipeline(cfg, logger), logger, nil
}

func loadDataset(path string) (*dataset.Dataset, error) {
	if path == "" {
		return dataset.Default(), nil
	}
	return dataset.Load(path)
}

func runDefault(cmd *cobra.Command, args []string) error {
	_, p, _, err := setup(cmd)
	if err != nil {
		return err
	}

	report, err := p.Run(cmd.Context(), dataset.Default())
	if err != nil {
		return err
	}
	return pipeline.NewRenderer(cmd.OutOrStdout()).RenderText(report)
}
