package recorder

import (
	"time"

	"SkewSentinel/internal/model"
)

// CycleRun summarizes one side of one completed skew cycle.
type CycleRun struct {
	Symbol        string
	Side          model.Side
	SpotPrice     float64
	Threshold     float64
	QuotesTotal   int // quotes received from the fetch
	CurveRows     int // rows emitted into the skew curve
	Expiries      int // expiry groups that produced rows
	BaselineFound bool
	ChangeCount   int
	RanAt         time.Time
}

// Recorder persists cycle history for later analysis. It is supplementary
// state: the CSV baseline files remain the authoritative comparison point
// for drift detection.
type Recorder interface {
	RecordCycle(run *CycleRun) error
	RecordChanges(side model.Side, asOf time.Time, records []model.ChangeRecord) error
	Close() error
}
