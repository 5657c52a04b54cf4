package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/siherrmann/depmatch/model"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the annotations of a question record",
	Long: `Print the tokens with part of speech and NER tag and the dependency
edges of every sentence of the passage and the question.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	d, err := newDepMatch()
	if err != nil {
		return err
	}
	defer d.Close()

	example, err := d.LoadExample(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	writeAnnotation(w, "Passage", example.PassageAnnotation)
	writeAnnotation(w, "Question", example.QuestionAnnotation)
	return nil
}

func writeAnnotation(w io.Writer, title string, annotation *model.Annotation) {
	color.New(color.FgCyan, color.Bold).Fprintln(w, title)
	for i, g := range annotation.Graphs() {
		color.New(color.Faint).Fprintf(w, "sentence %d\n", i)
		for _, n := range g.Nodes {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", n.Index, n.Word, n.Tag, n.NER)
		}
		fmt.Fprint(w, g.String())
	}
}
