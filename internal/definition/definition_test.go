package definition

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	got, err := ParseTime("2025-11-07T17:00:00Z")
	if err != nil {
		t.Fatalf("ParseTime returned error: %v", err)
	}
	want := time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Offsets normalize to the same absolute timeline.
	offset, err := ParseTime("2025-11-08T02:00:00+09:00")
	if err != nil {
		t.Fatalf("ParseTime returned error: %v", err)
	}
	if !offset.Equal(want) {
		t.Fatalf("offset instant %v does not equal %v", offset, want)
	}
	if offset.Location() != time.UTC {
		t.Fatalf("expected UTC normalization, got %v", offset.Location())
	}

	if _, err := ParseTime("2025-11-07"); err == nil {
		t.Fatal("expected error for date-only input")
	}
}

func TestRotationToRota(t *testing.T) {
	t.Parallel()

	doc := Rotation{
		Users:                []string{"alice", "bob"},
		HandoverStartAt:      "2025-11-07T17:00:00Z",
		HandoverIntervalDays: 7,
	}
	r, err := doc.ToRota()
	if err != nil {
		t.Fatalf("ToRota returned error: %v", err)
	}
	if r.Interval != 7*24*time.Hour {
		t.Fatalf("got interval %v, want 168h", r.Interval)
	}

	cases := []struct {
		name string
		doc  Rotation
		want string
	}{
		{"empty users", Rotation{HandoverStartAt: "2025-11-07T17:00:00Z", HandoverIntervalDays: 7}, "at least one user"},
		{"missing anchor", Rotation{Users: []string{"alice"}, HandoverIntervalDays: 7}, "handover_start_at"},
		{"zero interval", Rotation{Users: []string{"alice"}, HandoverStartAt: "2025-11-07T17:00:00Z"}, "positive"},
		{"bad anchor", Rotation{Users: []string{"alice"}, HandoverStartAt: "november", HandoverIntervalDays: 7}, "invalid timestamp"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := tc.doc.ToRota()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("got error %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestOverrideToRota(t *testing.T) {
	t.Parallel()

	doc := Override{User: "charlie", StartAt: "2025-11-10T17:00:00Z", EndAt: "2025-11-10T22:00:00Z"}
	o, err := doc.ToRota()
	if err != nil {
		t.Fatalf("ToRota returned error: %v", err)
	}
	if o.User != "charlie" || !o.Start.Before(o.End) {
		t.Fatalf("unexpected override: %+v", o)
	}

	// Zero and negative durations are rejected at this layer.
	doc.EndAt = doc.StartAt
	if _, err := doc.ToRota(); err == nil {
		t.Fatal("expected error for zero-duration override")
	}
	doc.EndAt = "2025-11-09T17:00:00Z"
	if _, err := doc.ToRota(); err == nil {
		t.Fatal("expected error for negative-duration override")
	}
}

func TestLoadRotation(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "schedule.json", `{
  "users": ["alice", "bob", "charlie"],
  "handover_start_at": "2025-11-07T17:00:00Z",
  "handover_interval_days": 7
}`)
		r, err := LoadRotation(path)
		if err != nil {
			t.Fatalf("LoadRotation returned error: %v", err)
		}
		if len(r.Users) != 3 || r.Users[0] != "alice" {
			t.Fatalf("unexpected rotation: %+v", r)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "schedule.yaml", `users:
  - alice
  - bob
handover_start_at: "2025-11-07T17:00:00Z"
handover_interval_days: 7
`)
		r, err := LoadRotation(path)
		if err != nil {
			t.Fatalf("LoadRotation returned error: %v", err)
		}
		if len(r.Users) != 2 || r.Users[1] != "bob" {
			t.Fatalf("unexpected rotation: %+v", r)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRotation(filepath.Join(t.TempDir(), "absent.json"))
		if err == nil || !strings.Contains(err.Error(), "could not find file") {
			t.Fatalf("got error %v, want missing-file diagnostic", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "schedule.json", `{"users": [`)
		_, err := LoadRotation(path)
		if err == nil || !strings.Contains(err.Error(), "invalid JSON") {
			t.Fatalf("got error %v, want parse diagnostic", err)
		}
	})
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "overrides.json", `[
  {"user": "charlie", "start_at": "2025-11-10T17:00:00Z", "end_at": "2025-11-10T22:00:00Z"}
]`)
		overrides, err := LoadOverrides(path)
		if err != nil {
			t.Fatalf("LoadOverrides returned error: %v", err)
		}
		if len(overrides) != 1 || overrides[0].User != "charlie" {
			t.Fatalf("unexpected overrides: %+v", overrides)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "overrides.json", `[]`)
		overrides, err := LoadOverrides(path)
		if err != nil {
			t.Fatalf("LoadOverrides returned error: %v", err)
		}
		if len(overrides) != 0 {
			t.Fatalf("expected empty overrides, got %+v", overrides)
		}
	})

	t.Run("not a list", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "overrides.json", `{"user": "charlie"}`)
		if _, err := LoadOverrides(path); err == nil {
			t.Fatal("expected error when overrides document is not a list")
		}
	})

	t.Run("invalid entry names its index", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "overrides.yaml", `- user: charlie
  start_at: "2025-11-10T17:00:00Z"
  end_at: "2025-11-10T17:00:00Z"
`)
		_, err := LoadOverrides(path)
		if err == nil || !strings.Contains(err.Error(), "overrides[0]") {
			t.Fatalf("got error %v, want indexed diagnostic", err)
		}
	})
}
