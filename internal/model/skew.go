package model

import (
	"sort"
	"time"
)

// Key identifies one (strike, expiry) point of a curve.
type Key struct {
	Strike float64
	Expiry time.Time
}

// SkewRow is one derived point of a skew curve:
// Skew = ImpliedVol - ATMRefIV for the row's expiry group.
type SkewRow struct {
	Strike     float64
	Expiry     time.Time
	Moneyness  Moneyness
	ImpliedVol float64
	Skew       float64
	ATMRefIV   float64
}

// SkewCurve is the per-expiry skew table for one instrument side, keyed by
// (strike, expiry). An expiry with no ATM reference contributes no rows.
type SkewCurve struct {
	Side Side
	rows map[Key]SkewRow
}

// NewSkewCurve returns an empty curve for the given side.
func NewSkewCurve(side Side) *SkewCurve {
	return &SkewCurve{Side: side, rows: make(map[Key]SkewRow)}
}

// Add inserts a row, normalizing its expiry to a bare UTC date. A later row
// with the same (strike, expiry) replaces the earlier one.
func (c *SkewCurve) Add(row SkewRow) {
	row.Expiry = DateOnly(row.Expiry)
	c.rows[Key{Strike: row.Strike, Expiry: row.Expiry}] = row
}

// Lookup returns the row at (strike, expiry) if present.
func (c *SkewCurve) Lookup(strike float64, expiry time.Time) (SkewRow, bool) {
	row, ok := c.rows[Key{Strike: strike, Expiry: DateOnly(expiry)}]
	return row, ok
}

// Len returns the number of rows in the curve.
func (c *SkewCurve) Len() int { return len(c.rows) }

// Rows returns all rows ordered ascending by expiry then strike, so every
// traversal of the curve is reproducible.
func (c *SkewCurve) Rows() []SkewRow {
	out := make([]SkewRow, 0, len(c.rows))
	for _, row := range c.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Expiry.Equal(out[j].Expiry) {
			return out[i].Expiry.Before(out[j].Expiry)
		}
		return out[i].Strike < out[j].Strike
	})
	return out
}

// Expiries returns the distinct expiry dates in ascending order.
func (c *SkewCurve) Expiries() []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for key := range c.rows {
		if !seen[key.Expiry] {
			seen[key.Expiry] = true
			out = append(out, key.Expiry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
