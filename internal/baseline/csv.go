package baseline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"SkewSentinel/internal/model"
)

const expiryLayout = "2006-01-02"

// baselineRow is the on-disk shape of one curve point.
type baselineRow struct {
	Strike     float64 `csv:"strikePrice"`
	Expiry     string  `csv:"expiryDate"`
	Moneyness  string  `csv:"moneyness"`
	ImpliedVol float64 `csv:"impliedVolatility"`
	Skew       float64 `csv:"skew"`
	ATMRefIV   float64 `csv:"atmReferenceIV"`
}

// CSVStore keeps one baseline file per side under a single directory,
// named baseline_<side>_skew.csv.
type CSVStore struct {
	Dir string
}

// NewCSVStore creates the directory if needed and returns the store.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create baseline dir: %w", err)
	}
	return &CSVStore{Dir: dir}, nil
}

func (s *CSVStore) path(side model.Side) string {
	return filepath.Join(s.Dir, fmt.Sprintf("baseline_%s_skew.csv", side))
}

// Load reads the baseline curve for a side. A missing file means no
// baseline yet.
func (s *CSVStore) Load(side model.Side) (*model.SkewCurve, bool, error) {
	f, err := os.Open(s.path(side))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open baseline %s: %w", side, err)
	}
	defer f.Close()

	var rows []baselineRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, false, fmt.Errorf("parse baseline %s: %w", side, err)
	}

	curve := model.NewSkewCurve(side)
	for _, r := range rows {
		expiry, err := time.Parse(expiryLayout, r.Expiry)
		if err != nil {
			return nil, false, fmt.Errorf("baseline %s: bad expiry %q: %w", side, r.Expiry, err)
		}
		curve.Add(model.SkewRow{
			Strike:     r.Strike,
			Expiry:     expiry,
			Moneyness:  model.Moneyness(r.Moneyness),
			ImpliedVol: r.ImpliedVol,
			Skew:       r.Skew,
			ATMRefIV:   r.ATMRefIV,
		})
	}
	return curve, true, nil
}

// Save atomically replaces the baseline file for a side: the curve is
// written to a temp file in the same directory and renamed over the old
// baseline, so a failed write never leaves a half-written table behind.
func (s *CSVStore) Save(side model.Side, curve *model.SkewCurve) error {
	rows := make([]baselineRow, 0, curve.Len())
	for _, r := range curve.Rows() {
		rows = append(rows, baselineRow{
			Strike:     r.Strike,
			Expiry:     r.Expiry.Format(expiryLayout),
			Moneyness:  string(r.Moneyness),
			ImpliedVol: r.ImpliedVol,
			Skew:       r.Skew,
			ATMRefIV:   r.ATMRefIV,
		})
	}

	tmp, err := os.CreateTemp(s.Dir, "baseline-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp baseline: %w", err)
	}
	tmpPath := tmp.Name()

	if err := gocsv.MarshalFile(&rows, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write baseline %s: %w", side, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp baseline: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(side)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace baseline %s: %w", side, err)
	}
	return nil
}
