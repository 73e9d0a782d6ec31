package match

import (
	"cmp"
	"slices"

	"common-tools/internal/analyze"
)

// Confidence thresholds for suggestions.
const (
	// DefaultMinScore is the minimum combined score for a suggestion.
	DefaultMinScore = 0.5
	// DefaultMinGap is the minimum score gap between top candidates.
	DefaultMinGap = 0.15
	// DefaultSuggestions is the number of suggestions kept per field.
	DefaultSuggestions = 3
)

const (
	nameWeight = 0.6
	typeWeight = 0.4
)

// Candidate represents a potential mapping from a source field to a target field.
type Candidate struct {
	SourceField *analyze.FieldInfo
	TargetField *analyze.FieldInfo

	NameScore     float64                 // normalized Levenshtein similarity (0-1)
	TypeCompat    TypeCompatibilityResult // type compatibility
	CombinedScore float64                 // higher is better
}

// CandidateList is a ranked list of candidates.
type CandidateList []Candidate

// RankCandidates scores every source field against target and returns them
// sorted by combined score, then source name.
func RankCandidates(target *analyze.FieldInfo, sources []analyze.FieldInfo) CandidateList {
	candidates := make(CandidateList, 0, len(sources))

	for i := range sources {
		source := &sources[i]
		nameScore := NameSimilarity(source.Name, target.Name)
		compat := ScorePointerCompatibility(source.Type, target.Type)

		candidates = append(candidates, Candidate{
			SourceField:   source,
			TargetField:   target,
			NameScore:     nameScore,
			TypeCompat:    compat,
			CombinedScore: nameScore*nameWeight + compat.Compatibility.Weight()*typeWeight,
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.CombinedScore, a.CombinedScore); c != 0 {
			return c
		}
		return cmp.Compare(a.SourceField.Name, b.SourceField.Name)
	})

	return candidates
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

// AboveThreshold returns candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList
	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			out = append(out, cand)
		}
	}
	return out
}

// HighConfidence returns the best candidate when it is type compatible and
// clearly ahead of the runner-up.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	best := c.Best()
	if best == nil || best.CombinedScore < minScore {
		return nil
	}

	if best.TypeCompat.Compatibility < TypeNeedsTransform {
		return nil
	}

	if len(c) > 1 && c[0].CombinedScore-c[1].CombinedScore < minGap {
		return nil
	}

	return best
}

// Names returns the source field names in rank order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].SourceField.Name
	}
	return names
}

// Suggest returns up to DefaultSuggestions source names worth proposing for
// an unmapped target field.
func Suggest(target *analyze.FieldInfo, sources []analyze.FieldInfo) []string {
	return RankCandidates(target, sources).AboveThreshold(DefaultMinScore).Top(DefaultSuggestions).Names()
}
