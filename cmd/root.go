// Package cmd implements the dataspeak command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/config"
	"github.com/dataspeak/dataspeak-engine/pkg/logging"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Format   string // "text" | "json"
	DataPath string // CSV dataset path, overrides config
	Table    string // logical table name, overrides config

	// Version is stamped by main at build time.
	Version string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the dataspeak CLI.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:     "dataspeak",
		Short:   "Translate natural-language questions into SQL",
		Long:    "dataspeak loads a CSV dataset into an in-memory database and translates\nnatural-language questions into SQL using interchangeable strategies.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.DataPath, "data", "", "path to CSV dataset (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", "", "logical table name (overrides config)")

	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewAskCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig merges configuration with root flag overrides and builds the
// logger. The logger goes to stderr-side zap output so stdout stays clean for
// command results.
func loadConfig(opts *RootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if opts.DataPath != "" {
		cfg.Dataset.Path = opts.DataPath
	}
	if opts.Table != "" {
		cfg.Dataset.TableName = opts.Table
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	return cfg, logger, nil
}
