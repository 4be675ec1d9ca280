// Package cli holds the argument handling shared by the ising commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/umdetree/Ising2D-Wolff/internal/config"
)

var errNotFinite = errors.New("value is not finite")

// ExactArgs is cobra.ExactArgs reporting a *UsageError.
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Want: n, Got: len(args)}
		}
		return nil
	}
}

// ExactArgsOrConfig accepts exactly n positional arguments, or none at all
// when --preset or --config supplies the run parameters.
func ExactArgsOrConfig(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && (cmd.Flags().Changed("preset") || cmd.Flags().Changed("config")) {
			return nil
		}
		return ExactArgs(n)(cmd, args)
	}
}

// NumericArgs stops flag parsing at the first positional argument, so
// negative numbers such as -1.0 reach the command as arguments. Flags must
// precede the positional arguments.
func NumericArgs(cmd *cobra.Command) {
	cmd.Flags().SetInterspersed(false)
}

// Uint parses a non-negative integer argument.
func Uint(role, s string) (int, error) {
	v, err := strconv.ParseUint(s, 10, 0)
	if err == nil && v > math.MaxInt {
		err = strconv.ErrRange
	}
	if err != nil {
		return 0, &ParseError{Role: role, Value: s, Err: err}
	}
	return int(v), nil
}

// Float parses a finite floating point argument.
func Float(role, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errNotFinite
	}
	if err != nil {
		return 0, &ParseError{Role: role, Value: s, Err: err}
	}
	return v, nil
}

// LoadConfig builds the base configuration: defaults, then the named preset,
// then the yaml file, then ISING_* environment variables.
func LoadConfig(preset, path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if path != "" {
		if err := config.LoadInto(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Report writes err to w, followed by the usage line for argument errors.
func Report(w io.Writer, cmd *cobra.Command, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var usage *UsageError
	var parse *ParseError
	if errors.As(err, &usage) || errors.As(err, &parse) {
		fmt.Fprintf(w, "Usage: %s\n", cmd.UseLine())
	}
}
