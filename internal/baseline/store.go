package baseline

import "SkewSentinel/internal/model"

// Store persists the rolling per-side baseline curve. Each cycle reads the
// previous curve, compares, then overwrites it wholesale — the store keeps
// only the most recent curve per side, never a history.
type Store interface {
	// Load returns the stored baseline for a side. ok is false when no
	// baseline exists yet, which is the expected state on first run and
	// not an error.
	Load(side model.Side) (curve *model.SkewCurve, ok bool, err error)

	// Save replaces the baseline for a side with the given curve.
	Save(side model.Side, curve *model.SkewCurve) error
}
