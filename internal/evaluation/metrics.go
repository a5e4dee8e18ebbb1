package evaluation

// Rank-aware metric primitives. All functions are pure: same inputs, same
// outputs, no hidden state. Ranks are 1-based throughout.

// PrecisionAt returns the fraction of retrieved ids that are relevant.
// retrievedIDs is the per-passage id list in rank order, duplicates
// included — a result filled by several chunks of one relevant article
// scores each slot.
func PrecisionAt(retrievedIDs []string, expected map[string]bool) float64 {
	if len(retrievedIDs) == 0 {
		return 0
	}
	hits := 0
	for _, id := range retrievedIDs {
		if expected[id] {
			hits++
		}
	}
	return float64(hits) / float64(len(retrievedIDs))
}

// RecallAt returns the fraction of expected ids that appear anywhere in
// retrievedIDs. With a single expected id this is 1.0 on any hit, 0.0
// otherwise.
func RecallAt(retrievedIDs []string, expected map[string]bool) float64 {
	if len(expected) == 0 {
		return 0
	}
	found := make(map[string]bool, len(expected))
	for _, id := range retrievedIDs {
		if expected[id] {
			found[id] = true
		}
	}
	return float64(len(found)) / float64(len(expected))
}

// FirstHitRank returns the 1-based rank of the first relevant id, or 0
// when nothing hit.
func FirstHitRank(retrievedIDs []string, expected map[string]bool) int {
	for i, id := range retrievedIDs {
		if expected[id] {
			return i + 1
		}
	}
	return 0
}

// ReciprocalRankAt returns 1/rank of the first relevant id among the top k,
// or 0 on a miss.
func ReciprocalRankAt(retrievedIDs []string, expected map[string]bool, k int) float64 {
	if k < len(retrievedIDs) {
		retrievedIDs = retrievedIDs[:k]
	}
	if rank := FirstHitRank(retrievedIDs, expected); rank > 0 {
		return 1.0 / float64(rank)
	}
	return 0
}

// AveragePrecisionAt returns AP@k over retrievedIDs:
//
//	AP@k = (1/R) * sum over relevant ranks i of (hits up to i / i)
//
// where R is the number of expected ids. For a single expected id this
// collapses to the reciprocal rank of the first hit, which is why MAP and
// MRR coincide on single-answer datasets.
func AveragePrecisionAt(retrievedIDs []string, expected map[string]bool, k int) float64 {
	if len(expected) == 0 {
		return 0
	}
	if k < len(retrievedIDs) {
		retrievedIDs = retrievedIDs[:k]
	}

	hits := 0
	sum := 0.0
	for i, id := range retrievedIDs {
		if expected[id] {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	return sum / float64(len(expected))
}

// uniqueOrdered deduplicates ids while preserving first-occurrence order.
// Ranking metrics operate on this view so that repeated chunks of one
// article occupy a single rank.
func uniqueOrdered(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// idSet converts a ground-truth id slice to a membership set.
func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
