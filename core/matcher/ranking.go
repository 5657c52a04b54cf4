package matcher

import (
	"sort"

	"github.com/siherrmann/depmatch/model"
)

// RankCandidates counts the matches of every marker and orders the markers
// by descending count, ties broken by marker. Markers without a match are
// not listed. Rank results found with model.DedupPerMarker; per-edge results
// credit only one representative marker per placeholder edge.
func RankCandidates(results []model.MatchResult, markers map[string]string) []model.Candidate {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Marker]++
	}

	candidates := make([]model.Candidate, 0, len(counts))
	for marker, count := range counts {
		entity, ok := markers[marker]
		if !ok {
			entity = marker
		}
		candidates = append(candidates, model.Candidate{Marker: marker, Entity: entity, Count: count})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Count != candidates[j].Count {
			return candidates[i].Count > candidates[j].Count
		}
		return candidates[i].Marker < candidates[j].Marker
	})

	return candidates
}

// Predict returns the most frequently matched marker. It reports false if
// nothing matched.
func Predict(results []model.MatchResult, markers map[string]string) (model.Candidate, bool) {
	candidates := RankCandidates(results, markers)
	if len(candidates) == 0 {
		return model.Candidate{}, false
	}
	return candidates[0], true
}
