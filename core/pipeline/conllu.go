package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/siherrmann/depmatch/model"
)

// ParseCoNLLU reads a CoNLL-U document into an annotation using the basic
// HEAD and DEPREL columns. Multiword token ranges and empty nodes are
// skipped. The annotation text is the space-joined tokens and node offsets
// point into it.
func ParseCoNLLU(r io.Reader) (*model.Annotation, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	annotation := &model.Annotation{}
	var text strings.Builder
	var nodes []model.Node
	var edges []model.Edge
	lineNumber := 0

	flush := func() {
		if len(nodes) == 0 {
			return
		}
		annotation.Sentences = append(annotation.Sentences, &model.Sentence{
			Index: len(annotation.Sentences),
			Graph: model.NewDependencyGraph(nodes, edges),
		})
		nodes, edges = nil, nil
	}

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		columns := strings.Split(line, "\t")
		if len(columns) < 8 {
			return nil, fmt.Errorf("line %d: expected at least 8 columns, got %d", lineNumber, len(columns))
		}
		if strings.ContainsAny(columns[0], "-.") {
			continue
		}

		index, err := strconv.Atoi(columns[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q: %w", lineNumber, columns[0], err)
		}

		if text.Len() > 0 {
			text.WriteString(" ")
		}
		begin := text.Len()
		text.WriteString(columns[1])

		node := model.Node{
			Index: index,
			Word:  columns[1],
			Lemma: underscoreEmpty(columns[2]),
			Tag:   underscoreEmpty(columns[4]),
			Begin: begin,
			End:   text.Len(),
		}
		if node.Tag == "" {
			node.Tag = underscoreEmpty(columns[3])
		}
		nodes = append(nodes, node)

		if columns[6] == "_" {
			continue
		}
		head, err := strconv.Atoi(columns[6])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid head %q: %w", lineNumber, columns[6], err)
		}
		edges = append(edges, model.Edge{
			Governor:  head,
			Dependent: index,
			Relation:  columns[7],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	annotation.Text = text.String()
	return annotation, nil
}

// NewCoNLLUAnnotator creates an annotator that looks up pre-parsed CoNLL-U
// documents by text. It serves offline runs and fixtures where the parses
// were produced by an external parser.
func NewCoNLLUAnnotator(documents map[string]string) AnnotateFunc {
	return func(ctx context.Context, text string) (*model.Annotation, error) {
		document, ok := documents[text]
		if !ok {
			return nil, fmt.Errorf("no CoNLL-U parse for text %q", truncate(text, 40))
		}
		annotation, err := ParseCoNLLU(strings.NewReader(document))
		if err != nil {
			return nil, err
		}
		annotation.Text = text
		return annotation, nil
	}
}

func underscoreEmpty(value string) string {
	if value == "_" {
		return ""
	}
	return value
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
