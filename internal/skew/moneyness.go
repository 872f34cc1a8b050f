package skew

import "SkewSentinel/internal/model"

// Classify labels a strike relative to the underlying spot price. The rule
// is side-agnostic: the same boundaries apply to calls and puts.
func Classify(strike, spot float64) model.Moneyness {
	switch {
	case strike == spot:
		return model.ATM
	case strike < spot:
		return model.ITM
	default:
		return model.OTM
	}
}
