package rota

import "time"

type eventKind int

// Kind values double as the tie-break key for events at the same instant: an
// ending override must close before anything else opens, so a boundary
// instant is never attributed to two users.
const (
	overrideEnd eventKind = iota
	overrideStart
	handover
)

// event is a temporal boundary consumed by the sweep. Events exist only for
// the duration of a Render call.
type event struct {
	at   time.Time
	kind eventKind
	user string // override events only
}

// less orders events by time ascending, then by kind.
func (e event) less(other event) bool {
	if !e.at.Equal(other.at) {
		return e.at.Before(other.at)
	}
	return e.kind < other.kind
}

// collectOverrideEvents returns the boundary events contributed by overrides
// that intersect [from, until). An override already active at from is not
// re-opened here (it seeds the initial precedence stack instead), and an
// override outliving until is truncated by the final segment rather than by
// an end event. Degenerate overrides with start >= end are skipped.
func collectOverrideEvents(overrides []Override, from, until time.Time) []event {
	events := make([]event, 0, 2*len(overrides))
	for _, o := range overrides {
		if !o.End.After(o.Start) {
			continue
		}
		if !o.End.After(from) || !o.Start.Before(until) {
			continue
		}
		if !o.Start.Before(from) {
			events = append(events, event{at: o.Start, kind: overrideStart, user: o.User})
		}
		if !o.End.After(until) {
			events = append(events, event{at: o.End, kind: overrideEnd, user: o.User})
		}
	}
	return events
}

// collectHandoverEvents returns a handover event for every rotation boundary
// inside [from, until). The walk starts from the boundary of the shift that
// covers from, computed with the same floor division as UserAt.
func collectHandoverEvents(r Rotation, from, until time.Time) []event {
	if len(r.Users) == 0 {
		return nil
	}

	period := floorDiv(from.Sub(r.Anchor), r.Interval)
	shiftStart := r.Anchor.Add(time.Duration(period) * r.Interval)

	var events []event
	for next := shiftStart.Add(r.Interval); next.Before(until); next = next.Add(r.Interval) {
		if !next.Before(from) {
			events = append(events, event{at: next, kind: handover})
		}
	}
	return events
}
