package recorder

import (
	"time"

	"SkewSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordCycle(_ *CycleRun) error { return nil }
func (n *NoopRecorder) RecordChanges(_ model.Side, _ time.Time, _ []model.ChangeRecord) error {
	return nil
}
func (n *NoopRecorder) Close() error { return nil }
