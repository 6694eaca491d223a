package rota

import "sort"

// Overlap details a pair of overrides that overlap in time without being
// nested: Later starts inside Earlier but ends after it. Stack-based
// precedence cannot represent this shape, so Earlier's end event is popped
// away by Later and the remainder of Earlier is reassigned to Later.
type Overlap struct {
	Earlier Override
	Later   Override
}

// DetectOverlaps identifies overlapping-but-not-nested override pairs so
// callers can surface them as warnings. The sweep itself is left untouched;
// rendering remains deterministic for these inputs, just surprising.
func DetectOverlaps(overrides []Override) []Overlap {
	sorted := make([]Override, 0, len(overrides))
	for _, o := range overrides {
		if !o.End.After(o.Start) {
			continue
		}
		sorted = append(sorted, o)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var overlaps []Overlap
	for i, earlier := range sorted {
		for _, later := range sorted[i+1:] {
			if !later.Start.Before(earlier.End) {
				continue
			}
			if later.End.After(earlier.End) {
				overlaps = append(overlaps, Overlap{Earlier: earlier, Later: later})
			}
		}
	}
	return overlaps
}
