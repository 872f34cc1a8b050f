package drift

import (
	"fmt"
	"math"

	"SkewSentinel/internal/model"
)

// DefaultThreshold is the volatility-point delta used when none is configured
// (0.05 = five percentage points of IV).
const DefaultThreshold = 0.05

// Detect diffs a current curve against the previous baseline and returns a
// record for every (strike, expiry) key present in both curves whose IV or
// skew moved by more than threshold in absolute terms.
//
// A nil baseline is the bootstrap cycle: nothing to compare, empty output.
// Keys present in only one curve are ignored — strikes that appear on or
// roll off the chain produce no record. Output is ordered ascending by
// expiry then strike.
func Detect(baseline, current *model.SkewCurve, threshold float64) ([]model.ChangeRecord, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in (0, 1], got %v", threshold)
	}
	if baseline == nil || current == nil {
		return nil, nil
	}

	var changes []model.ChangeRecord
	for _, row := range current.Rows() {
		prev, ok := baseline.Lookup(row.Strike, row.Expiry)
		if !ok {
			continue
		}
		ivDelta := row.ImpliedVol - prev.ImpliedVol
		skewDelta := row.Skew - prev.Skew
		if math.Abs(ivDelta) > threshold || math.Abs(skewDelta) > threshold {
			changes = append(changes, model.ChangeRecord{
				Strike:    row.Strike,
				Expiry:    row.Expiry,
				IVDelta:   ivDelta,
				SkewDelta: skewDelta,
			})
		}
	}
	return changes, nil
}
