package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dataspeak/dataspeak-engine/pkg/dataset"
	"github.com/dataspeak/dataspeak-engine/pkg/translate"
)

// AskOptions holds flags for the ask command.
type AskOptions struct {
	*RootOptions
	Strategy string
}

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AskOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Translate a question and run the SQL against the dataset",
		Long: `Translate a natural-language question into SQL and execute it against the
loaded dataset, printing the resulting rows.

Example:
  dataspeak ask --data sales.csv "total sales by region"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "translation strategy (pattern|assisted|adaptive; default from config)")

	return cmd
}

// askOutput is the JSON shape for ask results.
type askOutput struct {
	Translation *translate.TranslationResult `json:"translation"`
	Result      *dataset.ResultSet           `json:"result"`
}

func runAsk(cmd *cobra.Command, opts *AskOptions, question string) error {
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

	translation, err := strat.Translate(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	result, err := sess.store.Execute(cmd.Context(), translation.SQL)
	if err != nil {
		return fmt.Errorf("execute %q: %w", translation.SQL, err)
	}

	if opts.Format == "json" {
		data, err := json.MarshalIndent(askOutput{Translation: translation, Result: result}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "SQL: %s  (%s, confidence %.2f)\n\n", translation.SQL, translation.Strategy, translation.Confidence)

	if !result.Success {
		fmt.Fprintf(out, "query failed: %s\n", result.ErrorMessage)
		return nil
	}

	printRows(cmd, result)
	return nil
}

func printRows(cmd *cobra.Command, result *dataset.ResultSet) {
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))

	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d row(s)\n", result.RowCount)
}
