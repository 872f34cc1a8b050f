package drift

import (
	"math"
	"testing"
	"time"

	"SkewSentinel/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func curveOf(rows ...model.SkewRow) *model.SkewCurve {
	c := model.NewSkewCurve(model.SideCalls)
	for _, r := range rows {
		c.Add(r)
	}
	return c
}

func TestDetect_NilBaseline(t *testing.T) {
	current := curveOf(model.SkewRow{Strike: 100, Expiry: date(2024, time.January, 25), ImpliedVol: 0.20})
	changes, err := Detect(nil, current, DefaultThreshold)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("bootstrap cycle must emit nothing, got %d records", len(changes))
	}
}

func TestDetect_ThresholdBoundary(t *testing.T) {
	exp := date(2024, time.January, 25)
	base := curveOf(model.SkewRow{Strike: 100, Expiry: exp, ImpliedVol: 0.20, Skew: 0})
	cur := curveOf(model.SkewRow{Strike: 100, Expiry: exp, ImpliedVol: 0.27, Skew: 0})

	// |ivDelta| = 0.07 > 0.05 → one record.
	changes, err := Detect(base, cur, 0.05)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("threshold 0.05: expected 1 record, got %d", len(changes))
	}
	rec := changes[0]
	if rec.Strike != 100 || !rec.Expiry.Equal(exp) {
		t.Errorf("record key = (%v, %v)", rec.Strike, rec.Expiry)
	}
	if math.Abs(rec.IVDelta-0.07) > 1e-12 || rec.SkewDelta != 0 {
		t.Errorf("deltas = (%v, %v), want (0.07, 0)", rec.IVDelta, rec.SkewDelta)
	}

	// |ivDelta| = 0.07 < 0.10 → nothing.
	changes, err = Detect(base, cur, 0.10)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("threshold 0.10: expected no records, got %d", len(changes))
	}
}

func TestDetect_SkewDeltaAloneTriggers(t *testing.T) {
	exp := date(2024, time.January, 25)
	base := curveOf(model.SkewRow{Strike: 110, Expiry: exp, ImpliedVol: 0.25, Skew: 0.05})
	cur := curveOf(model.SkewRow{Strike: 110, Expiry: exp, ImpliedVol: 0.25, Skew: 0.15})

	changes, err := Detect(base, cur, 0.05)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 record on skew move alone, got %d", len(changes))
	}
	if changes[0].IVDelta != 0 || math.Abs(changes[0].SkewDelta-0.10) > 1e-12 {
		t.Errorf("deltas = (%v, %v)", changes[0].IVDelta, changes[0].SkewDelta)
	}
}

func TestDetect_IgnoresDisjointKeys(t *testing.T) {
	exp := date(2024, time.January, 25)
	base := curveOf(
		model.SkewRow{Strike: 100, Expiry: exp, ImpliedVol: 0.20},
		model.SkewRow{Strike: 90, Expiry: exp, ImpliedVol: 0.50}, // rolled off
	)
	cur := curveOf(
		model.SkewRow{Strike: 100, Expiry: exp, ImpliedVol: 0.20},
		model.SkewRow{Strike: 120, Expiry: exp, ImpliedVol: 0.90}, // newly listed
	)
	changes, err := Detect(base, cur, 0.05)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("appeared/disappeared strikes must not be reported, got %v", changes)
	}
}

func TestDetect_RaisingThresholdShrinksOutput(t *testing.T) {
	exp := date(2024, time.January, 25)
	base := curveOf(
		model.SkewRow{Strike: 95, Expiry: exp, ImpliedVol: 0.20, Skew: 0.01},
		model.SkewRow{Strike: 100, Expiry: exp, ImpliedVol: 0.20, Skew: 0},
		model.SkewRow{Strike: 105, Expiry: exp, ImpliedVol: 0.20, Skew: -0.01},
	)
	cur := curveOf(
		model.SkewRow{Strike: 95, Expiry: exp, ImpliedVol: 0.23, Skew: 0.01},  // iv +0.03
		model.SkewRow{Strike: 100, Expiry: exp, ImpliedVol: 0.28, Skew: 0},    // iv +0.08
		model.SkewRow{Strike: 105, Expiry: exp, ImpliedVol: 0.45, Skew: -0.01}, // iv +0.25
	)

	prev := -1
	for _, th := range []float64{0.02, 0.05, 0.10, 0.30} {
		changes, err := Detect(base, cur, th)
		if err != nil {
			t.Fatalf("Detect(%v): %v", th, err)
		}
		if prev >= 0 && len(changes) > prev {
			t.Errorf("threshold %v grew the output: %d > %d", th, len(changes), prev)
		}
		prev = len(changes)
	}
}

func TestDetect_OutputOrdering(t *testing.T) {
	exp1 := date(2024, time.January, 25)
	exp2 := date(2024, time.February, 29)
	rows := []model.SkewRow{
		{Strike: 110, Expiry: exp2, ImpliedVol: 0.20},
		{Strike: 90, Expiry: exp2, ImpliedVol: 0.20},
		{Strike: 105, Expiry: exp1, ImpliedVol: 0.20},
		{Strike: 95, Expiry: exp1, ImpliedVol: 0.20},
	}
	base := curveOf(rows...)
	moved := make([]model.SkewRow, len(rows))
	for i, r := range rows {
		r.ImpliedVol += 0.10
		moved[i] = r
	}
	cur := curveOf(moved...)

	changes, err := Detect(base, cur, 0.05)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(changes) != 4 {
		t.Fatalf("expected 4 records, got %d", len(changes))
	}
	for i := 1; i < len(changes); i++ {
		a, b := changes[i-1], changes[i]
		if b.Expiry.Before(a.Expiry) || (b.Expiry.Equal(a.Expiry) && b.Strike < a.Strike) {
			t.Errorf("records out of order at %d: %+v after %+v", i, b, a)
		}
	}
}

func TestDetect_InvalidThreshold(t *testing.T) {
	cur := curveOf(model.SkewRow{Strike: 100, Expiry: date(2024, time.January, 25), ImpliedVol: 0.20})
	for _, th := range []float64{0, -0.05, 1.5} {
		if _, err := Detect(cur, cur, th); err == nil {
			t.Errorf("threshold %v: expected error", th)
		}
	}
}
