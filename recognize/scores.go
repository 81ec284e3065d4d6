package recognize

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// RankedClass pairs a class index with its accumulated score.
type RankedClass struct {
	Index int
	Score float64
}

// ScoreAccumulator keeps a bounded history of per-clip score vectors and
// supports rolling-window and full-window summation over it. The history
// bound equals the number of clips that make up one final result.
type ScoreAccumulator struct {
	mu      sync.Mutex
	history [][]float64
	classes int
	limit   int
}

// NewScoreAccumulator creates an accumulator for vectors of the given class
// count, bounded at limit entries.
func NewScoreAccumulator(classes, limit int) *ScoreAccumulator {
	return &ScoreAccumulator{
		classes: classes,
		limit:   limit,
	}
}

// Classes returns the expected score-vector length.
func (a *ScoreAccumulator) Classes() int {
	return a.classes
}

// Len returns the current history length.
func (a *ScoreAccumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// Push appends one score vector to the history tail. Push never evicts; see
// EvictOverflow for the bound enforcement ordering.
func (a *ScoreAccumulator) Push(scores []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := make([]float64, len(scores))
	copy(v, scores)
	a.history = append(a.history, v)
}

// EvictOverflow removes the oldest entries while the history exceeds its
// bound. Callers run it after checking ReadyForFinal for the same push:
// evicting first would make an overshot history look exactly full and emit a
// spurious final result.
func (a *ScoreAccumulator) EvictOverflow() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for len(a.history) > a.limit {
		a.history = a.history[1:]
	}
}

// TrailingSum returns the element-wise sum of the last min(n, length)
// vectors. With an empty history (or n <= 0) it returns a zero vector.
func (a *ScoreAccumulator) TrailingSum(n int) []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	sum := make([]float64, a.classes)
	if n <= 0 {
		return sum
	}
	start := len(a.history) - n
	if start < 0 {
		start = 0
	}
	for _, v := range a.history[start:] {
		floats.Add(sum, v)
	}
	return sum
}

// FullSum returns the element-wise sum of the entire history.
func (a *ScoreAccumulator) FullSum() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	sum := make([]float64, a.classes)
	for _, v := range a.history {
		floats.Add(sum, v)
	}
	return sum
}

// ReadyForIntermediate reports whether enough clips have accumulated to emit
// a smoothed intermediate result.
func (a *ScoreAccumulator) ReadyForIntermediate(avgN int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history) >= avgN
}

// ReadyForFinal reports whether the history length equals targetN exactly.
// Equality, not >=: the final result is emitted once per session at the push
// where the target is first reached, and the session resets right after.
func (a *ScoreAccumulator) ReadyForFinal(targetN int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history) == targetN
}

// Reset clears the history. Used on stop and after a final result.
func (a *ScoreAccumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
}

// TopK selects the k largest-scoring classes in descending score order.
// Equal scores rank by ascending class index; the stable sort over the
// index-ordered input makes the output deterministic.
func TopK(scores []float64, k int) []RankedClass {
	ranked := make([]RankedClass, len(scores))
	for i, s := range scores {
		ranked[i] = RankedClass{Index: i, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// maxOverTime reduces per-class, per-time logits to one score per class by
// taking the maximum over the time dimension.
func maxOverTime(logits [][]float64) []float64 {
	out := make([]float64, len(logits))
	for i, row := range logits {
		if len(row) == 0 {
			continue
		}
		out[i] = floats.Max(row)
	}
	return out
}
