package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/siherrmann/depmatch/core/matcher"
	"github.com/siherrmann/depmatch/model"
	"github.com/spf13/cobra"
)

var matchJSON bool

var matchCmd = &cobra.Command{
	Use:   "match <file>...",
	Short: "Print the dependency matches of question records",
	Long: `Print every passage entity marker whose dependency edge matches an edge
of the question placeholder, one line per match, followed by the predicted
answer.

Examples:
  depmatch match data/0001.question
  depmatch match --signature collapsed --dedup per-edge data/*.question
  depmatch match --json data/0001.question | jq '.matches'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Output results as JSON")
}

// matchOutput is the JSON form of the matches of one record.
type matchOutput struct {
	ExampleID  string              `json:"example_id"`
	Answer     string              `json:"answer"`
	Predicted  string              `json:"predicted,omitempty"`
	Matches    []model.MatchResult `json:"matches"`
	Candidates []model.Candidate   `json:"candidates"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	d, err := newDepMatch()
	if err != nil {
		return err
	}
	defer d.Close()

	for _, path := range args {
		example, err := d.LoadExample(cmd.Context(), path)
		if err != nil {
			return err
		}
		results, err := d.FindMatches(cmd.Context(), example)
		if err != nil {
			return err
		}

		if matchJSON {
			err = writeMatchesJSON(cmd.OutOrStdout(), example, results)
		} else {
			writeMatches(cmd.OutOrStdout(), example, results)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func writeMatchesJSON(w io.Writer, example *model.Example, results []model.MatchResult) error {
	out := matchOutput{
		ExampleID:  example.ID,
		Answer:     example.Answer,
		Matches:    results,
		Candidates: matcher.RankCandidates(results, example.EntityMarkers),
	}
	if len(out.Candidates) > 0 {
		out.Predicted = out.Candidates[0].Marker
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func writeMatches(w io.Writer, example *model.Example, results []model.MatchResult) {
	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(w, "%s", example.ID)
	fmt.Fprintf(w, "  answer %s (%s)\n", example.Answer, example.EntityString(example.Answer))

	if len(results) == 0 {
		color.New(color.FgYellow).Fprintln(w, "  no matches")
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "  %-12s %s\t%s\n", r.Marker, r.String(), example.EntityString(r.Marker))
	}

	best, ok := matcher.Predict(results, example.EntityMarkers)
	if !ok {
		return
	}
	verdict := color.New(color.FgRed).Sprint("wrong")
	if best.Marker == example.Answer {
		verdict = color.New(color.FgGreen).Sprint("correct")
	}
	fmt.Fprintf(w, "  predicted %s (%s, %d matches) %s\n", best.Marker, best.Entity, best.Count, verdict)
}
