package service

import (
	"math"
	"sort"

	"archetype-quiz/internal/domain"
)

// Rank selects the k most probable archetypes from a distribution given in
// catalog order. Selection happens on raw probabilities; the percentage
// rounding below is cosmetic and applied only to the returned entries.
// Exact probability ties go to the lower catalog index, so identical inputs
// always produce identical rankings.
func Rank(catalog []string, probs []float64, k int) []domain.ArchetypeScore {
	type entry struct {
		idx int
		p   float64
	}
	entries := make([]entry, len(probs))
	for i, p := range probs {
		entries[i] = entry{idx: i, p: p}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].p != entries[j].p {
			return entries[i].p > entries[j].p
		}
		return entries[i].idx < entries[j].idx
	})

	if k > len(entries) {
		k = len(entries)
	}
	if k < 0 {
		k = 0
	}
	top := make([]domain.ArchetypeScore, 0, k)
	for _, e := range entries[:k] {
		top = append(top, domain.ArchetypeScore{
			Archetype: catalog[e.idx],
			Percent:   roundPercent(e.p),
		})
	}
	return top
}

// NormalizeTopK rescales the visible percentages so they sum to 100. This is
// the presentation transform the quiz UI applies to the top-K subset; it
// distorts true class probabilities and the engine itself never calls it.
func NormalizeTopK(scores []domain.ArchetypeScore) []domain.ArchetypeScore {
	var total float64
	for _, s := range scores {
		total += s.Percent
	}
	out := make([]domain.ArchetypeScore, len(scores))
	copy(out, scores)
	if total == 0 {
		return out
	}
	for i := range out {
		out[i].Percent = roundPercent(out[i].Percent / total)
	}
	return out
}

// roundPercent converts a probability to a percentage with 2 decimals.
func roundPercent(p float64) float64 {
	return math.Round(p*100*100) / 100
}
