package pipeline

import (
	"context"
	"fmt"

	"github.com/siherrmann/depmatch/model"
)

// outsideTag is the NER tag of tokens outside any entity mention.
const outsideTag = "O"

// AnnotateFunc parses a text into one dependency graph per sentence.
type AnnotateFunc func(ctx context.Context, text string) (*model.Annotation, error)

// TagFunc finds named entity mentions in a text. Mention offsets are
// character offsets into the text.
type TagFunc func(text string) ([]*model.Mention, error)

// Pipeline combines an annotator with an optional entity tagger
type Pipeline struct {
	Annotator AnnotateFunc
	Tagger    TagFunc // Optional
}

// NewPipeline creates a new annotation pipeline
func NewPipeline(annotator AnnotateFunc) *Pipeline {
	return &Pipeline{
		Annotator: annotator,
	}
}

// SetTagger sets the entity tagger
func (p *Pipeline) SetTagger(tagger TagFunc) {
	p.Tagger = tagger
}

// Process annotates text. If a tagger is set, tokens without NER tag (empty
// or "O") that lie inside a tagged mention get the mention label. Tagger errors are
// ignored since NER tags are informational only.
func (p *Pipeline) Process(ctx context.Context, text string) (*model.Annotation, error) {
	if p.Annotator == nil {
		return nil, fmt.Errorf("annotator not set")
	}

	annotation, err := p.Annotator(ctx, text)
	if err != nil {
		return nil, err
	}
	if annotation == nil {
		return nil, fmt.Errorf("annotator returned no annotation")
	}
	if annotation.Text == "" {
		annotation.Text = text
	}

	if p.Tagger != nil {
		mentions, err := p.Tagger(text)
		if err == nil && len(mentions) > 0 {
			applyMentions(annotation, mentions)
		}
	}

	return annotation, nil
}

func applyMentions(annotation *model.Annotation, mentions []*model.Mention) {
	for _, graph := range annotation.Graphs() {
		for i := range graph.Nodes {
			node := &graph.Nodes[i]
			if (node.NER != "" && node.NER != outsideTag) || node.End <= node.Begin {
				continue
			}
			for _, m := range mentions {
				if node.Begin >= m.Start && node.End <= m.End {
					node.NER = m.Label
					break
				}
			}
		}
	}
}
