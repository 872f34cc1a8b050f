package skew

import (
	"fmt"
	"log"
	"time"

	"SkewSentinel/internal/model"
)

// Compute derives the volatility-skew curve for one side of a chain pull.
//
// Quotes with non-positive implied volatility are discarded. The remaining
// quotes are classified by moneyness and grouped by expiry; each group's ATM
// reference is the mean IV of its ATM-labeled quotes, and every row's skew is
// IV minus that reference. A group with no ATM-labeled quote has no defined
// reference and is excluded from the curve entirely — that is the one
// permitted gap, logged as a data-quality note rather than raised.
//
// A snapshot with zero valid quotes yields an empty curve, not an error.
func Compute(snap *model.Snapshot, spot float64) (*model.SkewCurve, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("spot price must be positive, got %v", spot)
	}

	groups := make(map[time.Time][]model.OptionQuote)
	for _, q := range snap.Quotes {
		if q.ImpliedVol <= 0 {
			continue
		}
		expiry := model.DateOnly(q.Expiry)
		groups[expiry] = append(groups[expiry], q)
	}

	curve := model.NewSkewCurve(snap.Side)
	for expiry, quotes := range groups {
		atmRef, ok := atmReference(quotes, spot)
		if !ok {
			log.Printf("[WARN] %s %s: expiry %s has no ATM quote at spot %.2f, excluding %d rows",
				snap.Symbol, snap.Side, expiry.Format("2006-01-02"), spot, len(quotes))
			continue
		}
		for _, q := range quotes {
			curve.Add(model.SkewRow{
				Strike:     q.Strike,
				Expiry:     expiry,
				Moneyness:  Classify(q.Strike, spot),
				ImpliedVol: q.ImpliedVol,
				Skew:       q.ImpliedVol - atmRef,
				ATMRefIV:   atmRef,
			})
		}
	}
	return curve, nil
}

// atmReference returns the mean implied volatility of the ATM-classified
// quotes in one expiry group. ok is false when the group has no ATM quote.
func atmReference(quotes []model.OptionQuote, spot float64) (ref float64, ok bool) {
	sum, n := 0.0, 0
	for _, q := range quotes {
		if Classify(q.Strike, spot) == model.ATM {
			sum += q.ImpliedVol
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
