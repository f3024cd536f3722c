// Package config loads the YAML run configuration of the natural CLI.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/n0madic/go-natural-lasso/natural"
	"github.com/n0madic/go-natural-lasso/solver"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is one estimation run. Zero values are filled by Defaults before
// validation, so a file only needs the keys it changes.
type Config struct {
	// Method is the estimator family. Empty leaves the choice to the caller,
	// and Estimator falls back to the natural lasso.
	Method string `yaml:"method" validate:"omitempty,oneof=natural organic"`

	// Data describes the input CSV
	Data DataConfig `yaml:"data"`

	// Path controls the lambda path. Lambdas, when set, replaces the
	// generated path.
	NLambda        int       `yaml:"nlambda" validate:"min=1"`
	LambdaMinRatio float64   `yaml:"lambda_min_ratio" validate:"gt=0,lt=1"`
	Lambdas        []float64 `yaml:"lambdas" validate:"omitempty,dive,gt=0"`

	Folds      int     `yaml:"folds" validate:"min=2"`
	Seed       int64   `yaml:"seed"`
	Replicates int     `yaml:"replicates" validate:"min=1"`
	Quantile   float64 `yaml:"quantile" validate:"gte=0,lte=1"`
	Workers    int     `yaml:"workers" validate:"min=1"`

	Intercept   bool `yaml:"intercept"`
	Standardize bool `yaml:"standardize"`

	Solver SolverConfig `yaml:"solver"`
}

// DataConfig locates the design matrix and the response
type DataConfig struct {
	Path string `yaml:"path"`
	// Response names the response column. Empty selects the first column
	Response string `yaml:"response"`
}

// SolverConfig tunes the default coordinate-descent solver
type SolverConfig struct {
	Tolerance float64 `yaml:"tolerance" validate:"gt=0"`
	MaxIter   int     `yaml:"max_iter" validate:"min=1"`
}

// Defaults returns the configuration used when no file is given
func Defaults() *Config {
	return &Config{
		NLambda:        100,
		LambdaMinRatio: 1e-2,
		Folds:          5,
		Seed:           1,
		Replicates:     200,
		Workers:        runtime.GOMAXPROCS(0),
		Intercept:      true,
		Standardize:    true,
		Solver: SolverConfig{
			Tolerance: 1e-9,
			MaxIter:   100000,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Estimator builds the estimator described by the configuration
func (c *Config) Estimator(logger zerolog.Logger) (*natural.Estimator, error) {
	name := c.Method
	if name == "" {
		name = natural.Natural.String()
	}
	method, err := natural.ParseMethod(name)
	if err != nil {
		return nil, err
	}

	cd, err := solver.NewCoordinateDescent(
		solver.WithTolerance(c.Solver.Tolerance),
		solver.WithMaxIter(c.Solver.MaxIter),
	)
	if err != nil {
		return nil, err
	}

	opts := []natural.Option{
		natural.WithSolver(cd),
		natural.WithNLambda(c.NLambda),
		natural.WithLambdaMinRatio(c.LambdaMinRatio),
		natural.WithFolds(c.Folds),
		natural.WithSeed(c.Seed),
		natural.WithReplicates(c.Replicates),
		natural.WithQuantile(c.Quantile),
		natural.WithWorkers(c.Workers),
		natural.WithIntercept(c.Intercept),
		natural.WithStandardize(c.Standardize),
		natural.WithLogger(logger),
	}
	if len(c.Lambdas) > 0 {
		opts = append(opts, natural.WithLambdas(c.Lambdas))
	}

	return natural.New(method, opts...)
}
