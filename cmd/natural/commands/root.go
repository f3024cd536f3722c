package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/n0madic/go-natural-lasso/internal/config"
	"github.com/n0madic/go-natural-lasso/internal/dataio"
	"github.com/n0madic/go-natural-lasso/natural"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "natural",
		Short: "Noise variance estimation with the natural and organic lasso",
		Long: `natural estimates the noise variance of a sparse linear model from the
fit of a penalized regression.

Modes:
  - path:    estimates for every lambda of a path
  - cv:      lambda selected by K-fold cross-validation
  - pivotal: organic lasso at the two data-independent lambdas`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newPathCommand())
	rootCmd.AddCommand(newCVCommand())
	rootCmd.AddCommand(newPivotalCommand())

	return rootCmd
}

// runFlags are the estimation flags shared by every mode. Set flags override
// the config file.
type runFlags struct {
	data       string
	response   string
	method     string
	nlam       int
	flmin      float64
	lambdas    []float64
	folds      int
	seed       int64
	replicates int
	quantile   float64
	workers    int
}

func (f *runFlags) register(cmd *cobra.Command, defaultMethod string) {
	d := config.Defaults()
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "CSV file with a header row")
	cmd.Flags().StringVar(&f.response, "response", "", "response column name (default first column)")
	cmd.Flags().StringVarP(&f.method, "method", "m", defaultMethod, "estimator: natural or organic")
	cmd.Flags().IntVar(&f.nlam, "nlam", d.NLambda, "length of the generated lambda path")
	cmd.Flags().Float64Var(&f.flmin, "flmin", d.LambdaMinRatio, "smallest to largest lambda ratio")
	cmd.Flags().Float64SliceVar(&f.lambdas, "lambdas", nil, "explicit lambda path, used in the given order")
	cmd.Flags().IntVarP(&f.folds, "folds", "k", d.Folds, "number of cross-validation folds")
	cmd.Flags().Int64Var(&f.seed, "seed", d.Seed, "seed for folds and Monte Carlo draws")
	cmd.Flags().IntVar(&f.replicates, "replicates", d.Replicates, "Monte Carlo replicates for the pivotal lambda")
	cmd.Flags().Float64Var(&f.quantile, "quantile", d.Quantile, "pivotal quantile, 0 for the mean")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", d.Workers, "maximum concurrent folds or replicates")
}

// resolve merges the config file and the flags that were set explicitly.
// A method named by neither comes from the subcommand default.
func (f *runFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Path = f.data
	}
	if flags.Changed("response") {
		cfg.Data.Response = f.response
	}
	if flags.Changed("method") || cfg.Method == "" {
		cfg.Method = f.method
	}
	if flags.Changed("nlam") {
		cfg.NLambda = f.nlam
	}
	if flags.Changed("flmin") {
		cfg.LambdaMinRatio = f.flmin
	}
	if flags.Changed("lambdas") {
		cfg.Lambdas = f.lambdas
	}
	if flags.Changed("folds") {
		cfg.Folds = f.folds
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("replicates") {
		cfg.Replicates = f.replicates
	}
	if flags.Changed("quantile") {
		cfg.Quantile = f.quantile
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}

	if cfg.Data.Path == "" {
		return nil, fmt.Errorf("no data file: set --data or data.path in the config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// prepare resolves the configuration, reads the data and builds the estimator
func (f *runFlags) prepare(cmd *cobra.Command, mode string) (*natural.Estimator, *dataio.Dataset, error) {
	cfg, err := f.resolve(cmd)
	if err != nil {
		return nil, nil, err
	}

	ds, err := dataio.ReadFile(cfg.Data.Path, cfg.Data.Response)
	if err != nil {
		return nil, nil, err
	}

	n, p := ds.X.Dims()
	log.Info().
		Str("mode", mode).
		Str("method", cfg.Method).
		Str("data", cfg.Data.Path).
		Int("n", n).
		Int("p", p).
		Msg("Estimating noise variance")

	est, err := cfg.Estimator(log.Logger)
	if err != nil {
		return nil, nil, err
	}
	return est, ds, nil
}

// emit writes v as JSON or as the text rendering
func emit(w io.Writer, v any, text func(io.Writer) error) error {
	if jsonOutput {
		return writeJSON(w, v)
	}
	return text(w)
}
