package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"SkewSentinel/internal/model"
)

// changeRow is the on-disk shape of one significant-change record.
type changeRow struct {
	Strike    float64 `csv:"strikePrice"`
	Expiry    string  `csv:"expiryDate"`
	IVDelta   float64 `csv:"ATM_IV_change"`
	SkewDelta float64 `csv:"skew_change"`
}

// Format renders change records as a plain text table for logs and alerts.
func Format(records []model.ChangeRecord) string {
	if len(records) == 0 {
		return "no significant changes"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s %-12s %10s %10s\n", "strike", "expiry", "ivDelta", "skewDelta"))
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%-10.2f %-12s %+10.4f %+10.4f\n",
			r.Strike, r.Expiry.Format("2006-01-02"), r.IVDelta, r.SkewDelta))
	}
	return b.String()
}

// Write persists the cycle's change records as their own CSV artifact, named
// by side and run date. A second run the same day overwrites that day's
// file; reports are never merged across days. Returns the written path.
func Write(records []model.ChangeRecord, dir string, side model.Side, asOf time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	rows := make([]changeRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, changeRow{
			Strike:    r.Strike,
			Expiry:    r.Expiry.Format("2006-01-02"),
			IVDelta:   r.IVDelta,
			SkewDelta: r.SkewDelta,
		})
	}

	name := fmt.Sprintf("significant_changes_%s_%s.csv", side, asOf.Format("2006-01-02"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
