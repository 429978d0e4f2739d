package stats

// IsNewPR implements the PR comparison policy:
// a result is a new PR if the weight strictly exceeds the stored best
// weight, or the weight is equal and the reps strictly exceed the stored
// best reps. Reps-only improvements at a lower weight are not PRs.
// A first-ever result for an exercise (best == nil) is always a PR.
func IsNewPR(best *PRRecord, weight float64, reps int) bool {
	if best == nil {
		return true
	}
	if weight > best.Weight {
		return true
	}
	if weight == best.Weight && reps > best.Reps {
		return true
	}
	return false
}
