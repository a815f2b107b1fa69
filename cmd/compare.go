package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dataspeak/dataspeak-engine/pkg/harness"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	CorpusPath string
	Parallel   bool
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every strategy over a query corpus and compare quality",
		Long: `Run every registered strategy over a corpus of natural-language queries,
score each translation, and report per-strategy wins, average quality, and
recommendations.

The corpus defaults to the built-in canonical set; pass --corpus for a YAML
file of your own queries.

Example:
  dataspeak compare --data sales.csv
  dataspeak compare --data sales.csv --corpus queries.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.CorpusPath, "corpus", "", "path to YAML query corpus (default built-in)")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "run corpus queries in parallel")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *CompareOptions) error {
	cfg, logger, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if opts.CorpusPath != "" {
		cfg.Harness.CorpusPath = opts.CorpusPath
	}
	if opts.Parallel {
		cfg.Harness.Parallel = true
	}

	sess, err := newSession(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer sess.close()

	corpus := harness.DefaultCorpus()
	if cfg.Harness.CorpusPath != "" {
		corpus, err = harness.LoadCorpus(cfg.Harness.CorpusPath)
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}
	}

	h, err := harness.New(sess.allStrategies(), corpus, harness.Options{
		Parallel:      cfg.Harness.Parallel,
		MaxConcurrent: cfg.Harness.MaxConcurrent,
	}, logger)
	if err != nil {
		return err
	}

	report, err := h.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run comparison: %w", err)
	}

	if opts.Format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Render())
	return nil
}
