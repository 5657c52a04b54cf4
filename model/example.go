package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// Placeholder is the blank token in the question.
	Placeholder = "@placeholder"
	// EntityMarkerPrefix starts every anonymized entity token in the passage.
	EntityMarkerPrefix = "@entity"
)

// 0-based line numbers of the record header.
const (
	passageLine   = 2
	questionLine  = 4
	answerLine    = 6
	firstEntityLn = 8
)

var (
	ErrRecordTooShort    = errors.New("record has fewer than 7 lines")
	ErrMalformedMarker   = errors.New("entity line has no colon")
	ErrEmptyEntityMarker = errors.New("entity line has an empty marker")
)

// Example is one cloze question with its passage, answer and the mapping of
// entity markers to their real strings. The annotations are set by the loader.
type Example struct {
	ID                 string            `json:"id"`
	Path               string            `json:"path,omitempty"`
	Passage            string            `json:"passage"`
	Question           string            `json:"question"`
	Answer             string            `json:"answer"`
	EntityMarkers      map[string]string `json:"entity_markers"`
	PassageAnnotation  *Annotation       `json:"-"`
	QuestionAnnotation *Annotation       `json:"-"`
}

// ExampleID returns the file name up to its first dot.
func ExampleID(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// ParseExample parses the lines of a question record: passage on line 3,
// question on line 5, answer on line 7 and one marker:entity pair per line
// from line 9 on (1-based).
func ParseExample(id string, lines []string) (*Example, error) {
	if len(lines) <= answerLine {
		return nil, fmt.Errorf("%w: got %d", ErrRecordTooShort, len(lines))
	}

	example := &Example{
		ID:            id,
		Passage:       strings.TrimSpace(lines[passageLine]),
		Question:      strings.TrimSpace(lines[questionLine]),
		Answer:        strings.TrimSpace(lines[answerLine]),
		EntityMarkers: map[string]string{},
	}

	for i := firstEntityLn; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		marker, entity, err := ParseEntityLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		example.EntityMarkers[marker] = entity
	}

	return example, nil
}

// NewExampleFromFile reads and parses a question record. The example ID is
// the file name up to its first dot.
func NewExampleFromFile(filePath string) (*Example, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	example, err := ParseExample(ExampleID(filePath), lines)
	if err != nil {
		return nil, err
	}
	example.Path = filePath

	return example, nil
}

// ParseEntityLine splits "@entity14:New York City" on its first colon. The
// entity string may itself contain colons.
func ParseEntityLine(line string) (string, string, error) {
	marker, entity, found := strings.Cut(line, ":")
	if !found {
		return "", "", ErrMalformedMarker
	}
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return "", "", ErrEmptyEntityMarker
	}
	return marker, entity, nil
}

// IsEntityMarker reports whether a word looks like an entity marker.
func IsEntityMarker(word string) bool {
	return strings.HasPrefix(word, EntityMarkerPrefix) && len(word) > len(EntityMarkerPrefix)
}

// Markers returns the declared entity markers in sorted order.
func (e *Example) Markers() []string {
	markers := make([]string, 0, len(e.EntityMarkers))
	for m := range e.EntityMarkers {
		markers = append(markers, m)
	}
	sort.Strings(markers)
	return markers
}

// EntityString resolves a marker to its real string. Unknown markers are
// returned unchanged.
func (e *Example) EntityString(marker string) string {
	if s, ok := e.EntityMarkers[marker]; ok {
		return s
	}
	return marker
}

// IsAnnotated reports whether both texts have been parsed.
func (e *Example) IsAnnotated() bool {
	return e.PassageAnnotation != nil && e.QuestionAnnotation != nil
}
