package rank

// Ranked pairs an entry with its 1-based position in the full sorted list.
type Ranked[T any] struct {
	Rank  int
	Entry T
}

// Number assigns positions 1..N in slice order.
func Number[T any](sorted []T) []Ranked[T] {
	out := make([]Ranked[T], len(sorted))
	for i, e := range sorted {
		out[i] = Ranked[T]{Rank: i + 1, Entry: e}
	}
	return out
}

// Window returns the first limit rows, plus the caller's own row when it ranks below
// the cut. isSelf may be nil.
func Window[T any](ranked []Ranked[T], limit int, isSelf func(T) bool) []Ranked[T] {
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	out := append([]Ranked[T](nil), ranked[:limit]...)
	if isSelf == nil {
		return out
	}
	if r, ok := Self(ranked[limit:], isSelf); ok {
		out = append(out, r)
	}
	return out
}

// Self finds the caller's row.
func Self[T any](ranked []Ranked[T], isSelf func(T) bool) (Ranked[T], bool) {
	if isSelf != nil {
		for _, r := range ranked {
			if isSelf(r.Entry) {
				return r, true
			}
		}
	}
	return Ranked[T]{}, false
}
