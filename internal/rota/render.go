package rota

import (
	"sort"
	"time"
)

// Render computes the concrete on-call timeline for the window [from, until).
//
// The engine enforces the following semantics:
//   - Overrides take precedence over the base rotation, and an override
//     started more recently takes precedence over one still active beneath it.
//   - Returned segments are chronological, non-overlapping, cover the window
//     exactly, and no two adjacent segments share a user.
//   - A zero-width window (from >= until) yields an empty timeline, not an
//     error; validated entry points reject it before reaching the engine.
//
// Precedence is tracked with a stack, which is well defined only for nested
// overrides. An override end that does not match the top of the stack is
// ignored; DetectOverlaps reports the inputs that trigger this.
func Render(r Rotation, overrides []Override, from, until time.Time) ([]Segment, error) {
	if !from.Before(until) {
		return nil, nil
	}
	if len(r.Users) == 0 {
		return nil, ErrNoUsers
	}

	events := append(collectOverrideEvents(overrides, from, until), collectHandoverEvents(r, from, until)...)
	sort.Slice(events, func(i, j int) bool { return events[i].less(events[j]) })

	stack := seedStack(overrides, from)

	segments := make([]Segment, 0, len(events)+1)
	currentTime := from
	currentUser := effectiveUser(stack, r, currentTime)

	for _, ev := range events {
		if currentTime.Before(ev.at) {
			segments = append(segments, Segment{User: currentUser, Start: currentTime, End: ev.at})
		}

		switch ev.kind {
		case overrideStart:
			stack = append(stack, ev.user)
		case overrideEnd:
			// Pop only when the ending override is the innermost one; a
			// mismatch means the overrides were not nested and the end is
			// silently ignored.
			if len(stack) > 0 && stack[len(stack)-1] == ev.user {
				stack = stack[:len(stack)-1]
			}
		case handover:
			// No stack effect. The boundary forces a segment break so the
			// base user is re-resolved on the next lookup.
		}

		currentTime = ev.at
		currentUser = effectiveUser(stack, r, currentTime)
	}

	if currentTime.Before(until) {
		segments = append(segments, Segment{User: currentUser, Start: currentTime, End: until})
	}

	return mergeSegments(segments), nil
}

// seedStack builds the initial precedence stack from overrides already active
// at the window's opening instant, ordered oldest start first so the most
// recently started override ends up on top.
func seedStack(overrides []Override, from time.Time) []string {
	active := make([]Override, 0)
	for _, o := range overrides {
		if !o.End.After(o.Start) {
			continue
		}
		if o.Start.Before(from) && o.End.After(from) {
			active = append(active, o)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Start.Before(active[j].Start) })

	stack := make([]string, 0, len(active))
	for _, o := range active {
		stack = append(stack, o.User)
	}
	return stack
}

func effectiveUser(stack []string, r Rotation, at time.Time) string {
	if len(stack) > 0 {
		return stack[len(stack)-1]
	}
	return UserAt(r, at)
}

// mergeSegments coalesces adjacent segments that share a user and are
// time-contiguous. Single pass, order preserving.
func mergeSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}

	merged := make([]Segment, 0, len(segments))
	merged = append(merged, segments[0])
	for _, seg := range segments[1:] {
		last := &merged[len(merged)-1]
		if last.User == seg.User && last.End.Equal(seg.Start) {
			last.End = seg.End
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}
