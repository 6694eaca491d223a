package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const weeklySchedule = `{
  "users": ["alice", "bob", "charlie"],
  "handover_start_at": "2025-11-07T17:00:00Z",
  "handover_interval_days": 7
}`

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decodeSegments(t *testing.T, stdout string) []segmentOutput {
	t.Helper()
	var segments []segmentOutput
	if err := json.Unmarshal([]byte(stdout), &segments); err != nil {
		t.Fatalf("failed to decode output %q: %v", stdout, err)
	}
	return segments
}

func TestRunRendersPlainRotation(t *testing.T) {
	schedule := writeTempFile(t, "schedule.json", weeklySchedule)

	code, stdout, stderr := runCLI(t,
		"--schedule", schedule,
		"--from", "2025-11-07T17:00:00Z",
		"--until", "2025-11-28T17:00:00Z",
	)
	if code != 0 {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}

	segments := decodeSegments(t, stdout)
	expected := []segmentOutput{
		{User: "alice", StartAt: "2025-11-07T17:00:00Z", EndAt: "2025-11-14T17:00:00Z"},
		{User: "bob", StartAt: "2025-11-14T17:00:00Z", EndAt: "2025-11-21T17:00:00Z"},
		{User: "charlie", StartAt: "2025-11-21T17:00:00Z", EndAt: "2025-11-28T17:00:00Z"},
	}
	if len(segments) != len(expected) {
		t.Fatalf("expected %d segments, got %+v", len(expected), segments)
	}
	for i, want := range expected {
		if segments[i] != want {
			t.Errorf("segment %d: expected %+v, got %+v", i, want, segments[i])
		}
	}
}

func TestRunAppliesOverrides(t *testing.T) {
	schedule := writeTempFile(t, "schedule.json", weeklySchedule)
	overrides := writeTempFile(t, "overrides.json", `[
  {"user": "charlie", "start_at": "2025-11-10T09:00:00Z", "end_at": "2025-11-12T09:00:00Z"}
]`)

	code, stdout, stderr := runCLI(t,
		"--schedule", schedule,
		"--overrides", overrides,
		"--from", "2025-11-07T17:00:00Z",
		"--until", "2025-11-21T17:00:00Z",
	)
	if code != 0 {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}

	segments := decodeSegments(t, stdout)
	expected := []segmentOutput{
		{User: "alice", StartAt: "2025-11-07T17:00:00Z", EndAt: "2025-11-10T09:00:00Z"},
		{User: "charlie", StartAt: "2025-11-10T09:00:00Z", EndAt: "2025-11-12T09:00:00Z"},
		{User: "alice", StartAt: "2025-11-12T09:00:00Z", EndAt: "2025-11-14T17:00:00Z"},
		{User: "bob", StartAt: "2025-11-14T17:00:00Z", EndAt: "2025-11-21T17:00:00Z"},
	}
	if len(segments) != len(expected) {
		t.Fatalf("expected %d segments, got %+v", len(expected), segments)
	}
	for i, want := range expected {
		if segments[i] != want {
			t.Errorf("segment %d: expected %+v, got %+v", i, want, segments[i])
		}
	}
}

func TestRunReadsYAMLDefinitions(t *testing.T) {
	schedule := writeTempFile(t, "schedule.yaml", strings.Join([]string{
		"users:",
		"  - alice",
		"  - bob",
		"handover_start_at: 2025-11-07T17:00:00Z",
		"handover_interval_days: 7",
	}, "\n"))

	code, stdout, stderr := runCLI(t,
		"--schedule", schedule,
		"--from", "2025-11-07T17:00:00Z",
		"--until", "2025-11-14T17:00:00Z",
	)
	if code != 0 {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}

	segments := decodeSegments(t, stdout)
	if len(segments) != 1 || segments[0].User != "alice" {
		t.Fatalf("unexpected segments %+v", segments)
	}
}

func TestRunRendersTinyWindow(t *testing.T) {
	schedule := writeTempFile(t, "schedule.json", weeklySchedule)

	code, stdout, _ := runCLI(t,
		"--schedule", schedule,
		"--from", "2025-11-07T17:00:00Z",
		"--until", "2025-11-07T17:00:01Z",
	)
	if code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	segments := decodeSegments(t, stdout)
	if len(segments) != 1 {
		t.Fatalf("expected one second-long segment, got %+v", segments)
	}
}

func TestRunRejectsInvertedWindow(t *testing.T) {
	schedule := writeTempFile(t, "schedule.json", weeklySchedule)

	code, _, stderr := runCLI(t,
		"--schedule", schedule,
		"--from", "2025-11-28T17:00:00Z",
		"--until", "2025-11-07T17:00:00Z",
	)
	if code != 1 {
		t.Fatalf("expected failure, got %d", code)
	}
	if !strings.Contains(stderr, "'from' time must be before 'until' time") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunReportsMissingScheduleFile(t *testing.T) {
	code, _, stderr := runCLI(t,
		"--schedule", filepath.Join(t.TempDir(), "nope.json"),
		"--from", "2025-11-07T17:00:00Z",
		"--until", "2025-11-14T17:00:00Z",
	)
	if code != 1 {
		t.Fatalf("expected failure, got %d", code)
	}
	if !strings.Contains(stderr, "could not find file") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunReportsMalformedTimestamps(t *testing.T) {
	schedule := writeTempFile(t, "schedule.json", weeklySchedule)

	code, _, stderr := runCLI(t,
		"--schedule", schedule,
		"--from", "next tuesday",
		"--until", "2025-11-14T17:00:00Z",
	)
	if code != 1 {
		t.Fatalf("expected failure, got %d", code)
	}
	if !strings.HasPrefix(stderr, "Error: ") {
		t.Errorf("expected single-line error prefix, got %q", stderr)
	}
}

func TestRunRequiresScheduleFlag(t *testing.T) {
	code, _, stderr := runCLI(t,
		"--from", "2025-11-07T17:00:00Z",
		"--until", "2025-11-14T17:00:00Z",
	)
	if code != 1 {
		t.Fatalf("expected failure, got %d", code)
	}
	if !strings.Contains(stderr, "--schedule is required") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
