package model

import "time"

// Side identifies which half of the option chain a quote belongs to.
type Side string

const (
	SideCalls Side = "calls"
	SidePuts  Side = "puts"
)

// Sides lists both instrument sides in processing order.
var Sides = []Side{SideCalls, SidePuts}

// Moneyness classifies a strike relative to the underlying spot price.
type Moneyness string

const (
	ITM Moneyness = "ITM"
	ATM Moneyness = "ATM"
	OTM Moneyness = "OTM"
)

// OptionQuote is a single strike/expiry/IV observation from one chain pull.
// A quote with ImpliedVol <= 0 is unquoted and excluded from all downstream
// computation.
type OptionQuote struct {
	Strike     float64
	Expiry     time.Time // calendar date, midnight UTC
	Side       Side
	ImpliedVol float64
}

// Snapshot holds one side of a full option-chain pull. It lives for a single
// cycle and is never persisted itself.
type Snapshot struct {
	Symbol    string
	Side      Side
	FetchedAt time.Time
	Quotes    []OptionQuote
}

// DateOnly strips the time component and normalizes to UTC, so that expiry
// dates compare and hash consistently regardless of where they were parsed.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
