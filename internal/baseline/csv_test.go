package baseline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"SkewSentinel/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleCurve(side model.Side) *model.SkewCurve {
	curve := model.NewSkewCurve(side)
	exp := date(2024, time.January, 25)
	curve.Add(model.SkewRow{Strike: 95, Expiry: exp, Moneyness: model.ITM, ImpliedVol: 0.25, Skew: 0.05, ATMRefIV: 0.20})
	curve.Add(model.SkewRow{Strike: 100, Expiry: exp, Moneyness: model.ATM, ImpliedVol: 0.20, Skew: 0, ATMRefIV: 0.20})
	curve.Add(model.SkewRow{Strike: 105, Expiry: date(2024, time.February, 1), Moneyness: model.OTM, ImpliedVol: 0.22, Skew: 0.02, ATMRefIV: 0.20})
	return curve
}

func TestCSVStore_LoadAbsent(t *testing.T) {
	store, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	curve, ok, err := store.Load(model.SideCalls)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing baseline")
	}
	if curve != nil {
		t.Error("expected nil curve for missing baseline")
	}
}

func TestCSVStore_RoundTrip(t *testing.T) {
	store, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	want := sampleCurve(model.SideCalls)
	if err := store.Save(model.SideCalls, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load(model.SideCalls)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected baseline to exist after Save")
	}
	wantRows, gotRows := want.Rows(), got.Rows()
	if len(gotRows) != len(wantRows) {
		t.Fatalf("row count = %d, want %d", len(gotRows), len(wantRows))
	}
	for i := range wantRows {
		if gotRows[i] != wantRows[i] {
			t.Errorf("row %d = %+v, want %+v", i, gotRows[i], wantRows[i])
		}
	}
}

func TestCSVStore_SidesAreIndependent(t *testing.T) {
	store, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	if err := store.Save(model.SideCalls, sampleCurve(model.SideCalls)); err != nil {
		t.Fatalf("Save calls: %v", err)
	}
	if _, ok, err := store.Load(model.SidePuts); err != nil || ok {
		t.Errorf("puts baseline: ok=%v err=%v, want absent", ok, err)
	}
}

func TestCSVStore_SaveOverwrites(t *testing.T) {
	store, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	if err := store.Save(model.SideCalls, sampleCurve(model.SideCalls)); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	next := model.NewSkewCurve(model.SideCalls)
	next.Add(model.SkewRow{Strike: 200, Expiry: date(2024, time.March, 28), Moneyness: model.OTM, ImpliedVol: 0.30, Skew: 0.01, ATMRefIV: 0.29})
	if err := store.Save(model.SideCalls, next); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, ok, err := store.Load(model.SideCalls)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Len() != 1 {
		t.Errorf("rolling baseline should only hold the latest curve, got %d rows", got.Len())
	}
	if _, found := got.Lookup(95, date(2024, time.January, 25)); found {
		t.Error("old baseline row survived an overwrite")
	}
}

func TestCSVStore_FileFormat(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	if err := store.Save(model.SidePuts, sampleCurve(model.SidePuts)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "baseline_puts_skew.csv"))
	if err != nil {
		t.Fatalf("read baseline file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	header := strings.TrimSpace(lines[0])
	if header != "strikePrice,expiryDate,moneyness,impliedVolatility,skew,atmReferenceIV" {
		t.Errorf("unexpected header: %q", header)
	}
	if len(lines) != 4 {
		t.Errorf("expected header + 3 rows, got %d lines", len(lines))
	}

	// No stray temp files after a successful save.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}
