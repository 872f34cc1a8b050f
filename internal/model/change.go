package model

import "time"

// ChangeRecord reports a (strike, expiry) pair whose implied volatility or
// skew moved beyond the cycle threshold since the previous baseline.
type ChangeRecord struct {
	Strike    float64
	Expiry    time.Time
	IVDelta   float64
	SkewDelta float64
}
