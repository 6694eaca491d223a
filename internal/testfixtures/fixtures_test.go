package testfixtures

import (
	"testing"
	"time"

	"github.com/example/oncall-roster/internal/rota"
)

func TestRotationFixtureDefaults(t *testing.T) {
	fixture := NewRotationFixture()

	if fixture.ID == "" || fixture.Name == "" {
		t.Fatalf("expected generated identity, got %+v", fixture)
	}
	if len(fixture.Users) != 3 {
		t.Fatalf("expected three default users, got %v", fixture.Users)
	}
	if !fixture.Anchor.Equal(ReferenceTime()) {
		t.Errorf("expected anchor at ReferenceTime, got %v", fixture.Anchor)
	}
	if fixture.IntervalDays != 7 {
		t.Errorf("expected weekly interval, got %d", fixture.IntervalDays)
	}

	engine := fixture.Rota()
	if engine.Interval != 7*24*time.Hour {
		t.Errorf("expected 168h engine interval, got %v", engine.Interval)
	}
	if err := rota.Validate(engine); err != nil {
		t.Errorf("default fixture should produce a valid rotation: %v", err)
	}
}

func TestRotationFixtureOptions(t *testing.T) {
	anchor := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	fixture := NewRotationFixture(
		WithRotationID("rot-custom"),
		WithRotationUsers("dana"),
		WithRotationAnchor(anchor),
		WithRotationIntervalDays(1),
	)

	if fixture.ID != "rot-custom" {
		t.Errorf("unexpected id %q", fixture.ID)
	}
	if len(fixture.Users) != 1 || fixture.Users[0] != "dana" {
		t.Errorf("unexpected users %v", fixture.Users)
	}

	input := fixture.Input()
	if !input.Anchor.Equal(anchor) || input.IntervalDays != 1 {
		t.Errorf("unexpected input %+v", input)
	}
}

func TestOverrideFixturesDoNotOverlapByDefault(t *testing.T) {
	first := NewOverrideFixture()
	second := NewOverrideFixture()

	if first.End.After(second.Start) {
		t.Errorf("expected disjoint fixtures, got %v-%v then %v-%v",
			first.Start, first.End, second.Start, second.End)
	}
	if !first.End.After(first.Start) {
		t.Errorf("expected a non-degenerate window, got %v-%v", first.Start, first.End)
	}
}

func TestOverrideFixtureConversions(t *testing.T) {
	start := ReferenceTime().Add(48 * time.Hour)
	fixture := NewOverrideFixture(
		WithOverrideRotation("rot-9"),
		WithOverrideUser("erin"),
		WithOverrideWindow(start, start.Add(8*time.Hour)),
	)

	app := fixture.Application()
	if app.RotationID != "rot-9" || app.User != "erin" {
		t.Errorf("unexpected application model %+v", app)
	}

	stored := fixture.Persistence()
	if !stored.Start.Equal(start) || !stored.End.Equal(start.Add(8*time.Hour)) {
		t.Errorf("unexpected persistence window %v-%v", stored.Start, stored.End)
	}

	engine := fixture.Rota()
	if engine.User != "erin" {
		t.Errorf("unexpected engine override %+v", engine)
	}
}
