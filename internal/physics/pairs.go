package physics

// Pair is an unordered pair of distinct bodies, A < B.
type Pair struct {
	A, B Handle
}

// BuildPairs returns the n(n-1)/2 pairs of an n-body system ordered by
// ascending (A, B). The order is part of the contract: floating-point sums
// over the pairs are only reproducible if every run visits them the same way.
func BuildPairs(n int) []Pair {
	if n < 2 {
		return []Pair{}
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: Handle(i), B: Handle(j)})
		}
	}
	return pairs
}
