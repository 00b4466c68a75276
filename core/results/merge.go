package results

// Merge folds an incoming result batch into the current list. Rules are
// evaluated in strict priority order, first match wins:
//
//  1. FadeOutResults: every current entry is returned flagged FadeOut,
//     incoming entries are ignored this pass.
//  2. ClearPrevious: the list is emptied, incoming entries are ignored.
//  3. Incoming contains a final plan: only those entries survive.
//  4. Incoming contains an itinerary: only those entries survive.
//  5. Current already holds a final plan: the list is kept as is, incoming
//     interim entries are discarded.
//  6. Otherwise incoming entries replace current entries with a matching ID
//     in place, or append at the end in incoming order.
//
// Rules 3 and 4 implement supersession: those kinds represent a finalized
// view that invalidates all accumulated interim results. Rule 5 keeps the
// finalized view exclusive afterwards. Neither input slice is mutated.
func Merge(current, incoming []Result, flags MergeFlags) []Result {
	if flags.FadeOutResults {
		faded := make([]Result, len(current))
		for i, result := range current {
			result.FadeOut = true
			faded[i] = result
		}
		return faded
	}

	if flags.ClearPrevious {
		return []Result{}
	}

	if superseding := filterByKind(incoming, KindFinalPlan); len(superseding) > 0 {
		return superseding
	}
	if superseding := filterByKind(incoming, KindItinerary); len(superseding) > 0 {
		return superseding
	}

	// A settled final plan stays exclusive: interim entries arriving after it
	// are discarded rather than shown next to the finished plan.
	if len(filterByKind(current, KindFinalPlan)) > 0 {
		kept := make([]Result, len(current))
		copy(kept, current)
		return kept
	}

	merged := make([]Result, len(current), len(current)+len(incoming))
	copy(merged, current)
	for _, result := range incoming {
		if i := indexByID(merged, result.ID); i >= 0 {
			merged[i] = result
			continue
		}
		merged = append(merged, result)
	}
	return merged
}

func filterByKind(results []Result, kind Kind) []Result {
	var filtered []Result
	for _, result := range results {
		if result.Kind == kind {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func indexByID(results []Result, id string) int {
	for i, result := range results {
		if result.ID == id {
			return i
		}
	}
	return -1
}
