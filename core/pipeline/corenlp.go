package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
)

// Dependency keys of the CoreNLP JSON output, in fallback order.
var dependencyKeys = []string{
	"collapsed-dependencies",
	"collapsed-ccprocessed-dependencies",
	"enhancedPlusPlusDependencies",
	"enhancedDependencies",
	"basicDependencies",
}

// CoreNLPOptions configures the CoreNLP server client.
type CoreNLPOptions struct {
	BaseURL       string
	Client        *http.Client
	DependencyKey string // preferred dependency representation
	Annotators    string
	Properties    map[string]string // extra server properties
	Retries       int
}

// DefaultCoreNLPOptions returns options for a server at baseURL. The input
// is expected to be tokenized already, so tokens split on whitespace and
// entity markers stay whole.
func DefaultCoreNLPOptions(baseURL string) CoreNLPOptions {
	return CoreNLPOptions{
		BaseURL:       baseURL,
		Client:        &http.Client{Timeout: 60 * time.Second},
		DependencyKey: "collapsed-dependencies",
		Annotators:    "tokenize,ssplit,pos,lemma,ner,depparse",
		Properties: map[string]string{
			"tokenize.whitespace": "true",
		},
		Retries: 3,
	}
}

type coreNLPToken struct {
	Index                int    `json:"index"`
	Word                 string `json:"word"`
	Lemma                string `json:"lemma"`
	POS                  string `json:"pos"`
	NER                  string `json:"ner"`
	CharacterOffsetBegin int    `json:"characterOffsetBegin"`
	CharacterOffsetEnd   int    `json:"characterOffsetEnd"`
}

type coreNLPDependency struct {
	Dep       string `json:"dep"`
	Governor  int    `json:"governor"`
	Dependent int    `json:"dependent"`
}

type coreNLPDocument struct {
	Sentences []map[string]json.RawMessage `json:"sentences"`
}

// NewCoreNLPAnnotator creates an annotator calling a Stanford CoreNLP server.
func NewCoreNLPAnnotator(opts CoreNLPOptions) (AnnotateFunc, error) {
	if opts.BaseURL == "" {
		return nil, helper.NewError("create corenlp annotator", fmt.Errorf("base url is empty"))
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, helper.NewError("parse corenlp url", err)
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	properties := map[string]string{
		"annotators":   opts.Annotators,
		"outputFormat": "json",
	}
	for k, v := range opts.Properties {
		properties[k] = v
	}
	propertiesJSON, err := json.Marshal(properties)
	if err != nil {
		return nil, helper.NewError("marshal corenlp properties", err)
	}
	endpoint := strings.TrimRight(opts.BaseURL, "/") + "/?properties=" + url.QueryEscape(string(propertiesJSON))

	return func(ctx context.Context, text string) (*model.Annotation, error) {
		var body []byte
		err := helper.RetryWithContext(ctx, opts.Retries, func(ctx context.Context) error {
			var err error
			body, err = postText(ctx, opts.Client, endpoint, text)
			return err
		})
		if err != nil {
			return nil, helper.NewError("request corenlp", err)
		}

		annotation, err := ParseCoreNLPJSON(body, opts.DependencyKey)
		if err != nil {
			return nil, helper.NewError("parse corenlp response", err)
		}
		annotation.Text = text

		return annotation, nil
	}, nil
}

func postText(ctx context.Context, client *http.Client, endpoint string, text string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(text))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corenlp returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

// ParseCoreNLPJSON converts a CoreNLP JSON document into an annotation. The
// preferred dependency key is tried first, then the known fallbacks.
func ParseCoreNLPJSON(data []byte, preferredKey string) (*model.Annotation, error) {
	var doc coreNLPDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	keys := dependencyKeys
	if preferredKey != "" {
		keys = append([]string{preferredKey}, dependencyKeys...)
	}

	annotation := &model.Annotation{Sentences: make([]*model.Sentence, 0, len(doc.Sentences))}
	for i, raw := range doc.Sentences {
		sentence, err := parseCoreNLPSentence(raw, keys)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		if sentence.Index == 0 {
			sentence.Index = i
		}
		annotation.Sentences = append(annotation.Sentences, sentence)
	}

	return annotation, nil
}

func parseCoreNLPSentence(raw map[string]json.RawMessage, keys []string) (*model.Sentence, error) {
	sentence := &model.Sentence{}
	if indexJSON, ok := raw["index"]; ok {
		if err := json.Unmarshal(indexJSON, &sentence.Index); err != nil {
			return nil, fmt.Errorf("invalid index: %w", err)
		}
	}

	var tokens []coreNLPToken
	if tokensJSON, ok := raw["tokens"]; ok {
		if err := json.Unmarshal(tokensJSON, &tokens); err != nil {
			return nil, fmt.Errorf("invalid tokens: %w", err)
		}
	}

	var dependencies []coreNLPDependency
	for _, key := range keys {
		depsJSON, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(depsJSON, &dependencies); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		break
	}

	nodes := make([]model.Node, 0, len(tokens))
	for _, t := range tokens {
		nodes = append(nodes, model.Node{
			Index: t.Index,
			Word:  t.Word,
			Lemma: t.Lemma,
			Tag:   t.POS,
			NER:   t.NER,
			Begin: t.CharacterOffsetBegin,
			End:   t.CharacterOffsetEnd,
		})
	}

	edges := make([]model.Edge, 0, len(dependencies))
	for _, d := range dependencies {
		edges = append(edges, model.Edge{
			Governor:  d.Governor,
			Dependent: d.Dependent,
			Relation:  d.Dep,
		})
	}

	sentence.Graph = model.NewDependencyGraph(nodes, edges)
	return sentence, nil
}
