package schedule

// MergeRuns collapses maximal runs of vertically adjacent cells with
// identical, non-empty content signatures into a single spanned cell.
//
// sig(i) must return a structural signature of row i's target cell (content
// identity, not display text). apply(i, span) is called for every row: the
// first row of a run receives the run length, suppressed rows receive 0,
// and unmerged rows receive 1. An empty signature never joins a run, so
// empty cells always stand alone. The scan reads only signatures, never
// spans, which makes the operation idempotent.
func MergeRuns(n int, sig func(int) string, apply func(row, span int)) {
	if n == 0 {
		return
	}

	runStart := 0
	runSig := sig(0)
	span := 1
	apply(0, 1)

	for i := 1; i < n; i++ {
		s := sig(i)
		if s == runSig && s != "" {
			span++
			apply(i, 0)
			apply(runStart, span)
			continue
		}
		runStart = i
		runSig = s
		span = 1
		apply(i, 1)
	}
}
