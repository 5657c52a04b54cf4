package model

// Annotation is the parse of a text: one dependency graph per sentence.
type Annotation struct {
	Text      string      `json:"text"`
	Sentences []*Sentence `json:"sentences"`
}

// Sentence is one annotated sentence.
type Sentence struct {
	Index int              `json:"index"`
	Graph *DependencyGraph `json:"graph"`
}

// Graphs returns the sentence graphs in sentence order. A nil annotation has none.
func (a *Annotation) Graphs() []*DependencyGraph {
	if a == nil {
		return nil
	}
	graphs := make([]*DependencyGraph, 0, len(a.Sentences))
	for _, s := range a.Sentences {
		if s != nil && s.Graph != nil {
			graphs = append(graphs, s.Graph)
		}
	}
	return graphs
}

// Mention is a named entity span found by a tagger.
type Mention struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float32 `json:"score"`
}
