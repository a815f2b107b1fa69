package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dataspeak/dataspeak-engine/pkg/translate"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Strategy string
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate <question>",
		Short: "Translate a natural-language question into SQL",
		Long: `Translate a natural-language question into SQL against the loaded dataset.

The question is translated only; use "dataspeak ask" to also execute it.

Example:
  dataspeak translate --data sales.csv "show me sales where region is North"
  dataspeak translate --data sales.csv --strategy adaptive "top 3 regions by sales"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "translation strategy (pattern|assisted|adaptive; default from config)")

	return cmd
}

func runTranslate(cmd *cobra.Command, opts *TranslateOptions, question string) error {
	cfg, logger, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sess, err := newSession(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer sess.close()

	name := opts.Strategy
	if name == "" {
		name = cfg.Translation.Strategy
	}
	strat, err := sess.strategy(name)
	if err != nil {
		return err
	}

	result, err := strat.Translate(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	return printTranslation(cmd, opts.Format, result)
}

func printTranslation(cmd *cobra.Command, format string, result *translate.TranslationResult) error {
	out := cmd.OutOrStdout()

	if format == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "SQL:        %s\n", result.SQL)
	fmt.Fprintf(out, "Strategy:   %s\n", result.Strategy)
	fmt.Fprintf(out, "Confidence: %.2f\n", result.Confidence)
	fmt.Fprintf(out, "Explains:   %s\n", result.Explanation)
	if !result.Success {
		fmt.Fprintf(out, "Note:       %s\n", result.Error)
	}
	return nil
}
