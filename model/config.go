package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SignatureMode selects how the placeholder edges are collected.
type SignatureMode string

const (
	// SignatureMulti keeps every incoming and outgoing placeholder edge.
	SignatureMulti SignatureMode = "multi"
	// SignatureCollapsed keeps one edge per short relation and direction,
	// a later edge overwriting an earlier one.
	SignatureCollapsed SignatureMode = "collapsed"
)

// DedupMode selects the key under which matches are collapsed.
type DedupMode string

const (
	// DedupPerMarker reports a placeholder edge once for every marker matching it.
	DedupPerMarker DedupMode = "per-marker"
	// DedupPerEdge reports a placeholder edge once, with the lexicographically
	// smallest matching marker as representative ("@entity10" before
	// "@entity3"). The other markers matching that edge are dropped, so
	// RankCandidates and Predict only credit the representative and their
	// ranking is not meaningful in this mode.
	DedupPerEdge DedupMode = "per-edge"
)

// MatchConfig configures a DependencyMatchFinder.
type MatchConfig struct {
	SignatureMode SignatureMode `json:"signature_mode" yaml:"signature_mode"`
	DedupMode     DedupMode     `json:"dedup_mode" yaml:"dedup_mode"`
	Placeholder   string        `json:"placeholder" yaml:"placeholder"`
}

// DefaultMatchConfig returns the multi-edge, per-marker configuration.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		SignatureMode: SignatureMulti,
		DedupMode:     DedupPerMarker,
		Placeholder:   Placeholder,
	}
}

// LoadMatchConfig reads a YAML file. Missing keys keep their defaults.
func LoadMatchConfig(path string) (MatchConfig, error) {
	config := DefaultMatchConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("error reading match config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("error parsing match config: %w", err)
	}

	return config, config.Validate()
}

// Validate checks that both modes are known and the placeholder is set.
func (c MatchConfig) Validate() error {
	switch c.SignatureMode {
	case SignatureMulti, SignatureCollapsed:
	default:
		return fmt.Errorf("unknown signature mode %q", c.SignatureMode)
	}
	switch c.DedupMode {
	case DedupPerMarker, DedupPerEdge:
	default:
		return fmt.Errorf("unknown dedup mode %q", c.DedupMode)
	}
	if c.Placeholder == "" {
		return fmt.Errorf("placeholder must not be empty")
	}
	return nil
}
