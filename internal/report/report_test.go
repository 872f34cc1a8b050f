package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"SkewSentinel/internal/model"
)

var sampleRecords = []model.ChangeRecord{
	{Strike: 100, Expiry: time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC), IVDelta: 0.07, SkewDelta: 0},
	{Strike: 105, Expiry: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), IVDelta: -0.02, SkewDelta: -0.06},
}

func TestFormat(t *testing.T) {
	out := Format(sampleRecords)
	for _, want := range []string{"100.00", "2024-01-25", "+0.0700", "-0.0600"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n"); lines != 2 {
		t.Errorf("expected header + 2 rows, got %d newlines", lines)
	}
}

func TestFormat_Empty(t *testing.T) {
	if out := Format(nil); !strings.Contains(out, "no significant changes") {
		t.Errorf("unexpected empty-format output: %q", out)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	asOf := time.Date(2024, time.January, 26, 15, 30, 0, 0, time.UTC)

	path, err := Write(sampleRecords, dir, model.SideCalls, asOf)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "significant_changes_calls_2024-01-26.csv"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if strings.TrimSpace(lines[0]) != "strikePrice,expiryDate,ATM_IV_change,skew_change" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("expected header + 2 rows, got %d lines", len(lines))
	}
}

func TestWrite_SameDayOverwrite(t *testing.T) {
	dir := t.TempDir()
	asOf := time.Date(2024, time.January, 26, 9, 0, 0, 0, time.UTC)

	if _, err := Write(sampleRecords, dir, model.SidePuts, asOf); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	path, err := Write(sampleRecords[:1], dir, model.SidePuts, asOf.Add(4*time.Hour))
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("same-day rerun should overwrite, got %d lines", len(lines))
	}
}
