package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/siherrmann/depmatch/model"
	"github.com/spf13/cobra"
)

var (
	evalJSON    bool
	evalWorkers int
)

var evalCmd = &cobra.Command{
	Use:   "eval <file>...",
	Short: "Measure the accuracy of the most frequently matched marker",
	Long: `Predict the answer of every record as the most frequently matched entity
marker and report the accuracy. Records that fail to load are counted as
failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "Output the report as JSON")
	evalCmd.Flags().IntVarP(&evalWorkers, "workers", "w", 0, "Number of records processed in parallel (overrides DEPMATCH_WORKERS)")
}

func runEval(cmd *cobra.Command, args []string) error {
	d, err := newDepMatch()
	if err != nil {
		return err
	}
	defer d.Close()

	if evalWorkers > 0 {
		d.Config.Workers = evalWorkers
	}

	report, err := d.Evaluate(cmd.Context(), args)
	if err != nil {
		return err
	}

	if evalJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	writeReport(cmd.OutOrStdout(), report)
	return nil
}

func writeReport(w io.Writer, report *model.EvaluationReport) {
	for _, p := range report.Predictions {
		switch {
		case p.Err != "":
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ExampleID, color.New(color.FgYellow).Sprint("failed"), p.Err)
		case p.Correct():
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ExampleID, color.New(color.FgGreen).Sprint("correct"), p.Predicted)
		case p.Predicted == "":
			fmt.Fprintf(w, "%s\t%s\n", p.ExampleID, "no match")
		default:
			fmt.Fprintf(w, "%s\t%s\t%s (answer %s)\n", p.ExampleID, color.New(color.FgRed).Sprint("wrong"), p.Predicted, p.Answer)
		}
	}

	color.New(color.Bold).Fprintf(w, "accuracy %.4f", report.Accuracy())
	fmt.Fprintf(w, " (%d correct, %d answered, %d failed, %d total)\n", report.Correct, report.Answered, report.Failed, report.Total)
}
