package notifier

import (
	"fmt"
	"strings"
	"time"

	"SkewSentinel/internal/model"
	"SkewSentinel/internal/report"
)

// FormatDriftAlert formats a side's significant changes into a Telegram message.
func FormatDriftAlert(symbol string, side model.Side, records []model.ChangeRecord, threshold float64, asOf time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>SkewSentinel</b> | %s %s | %s\n\n",
		symbol, side, asOf.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%d strike(s) moved more than %.2f vol points since the last baseline:\n\n",
		len(records), threshold))
	b.WriteString("<pre>")
	b.WriteString(report.Format(records))
	b.WriteString("</pre>")
	return b.String()
}

// FormatBootstrap notes that a side had no baseline and one was established.
func FormatBootstrap(symbol string, side model.Side, rows int) string {
	return fmt.Sprintf("🌱 <b>SkewSentinel</b> | %s %s\n\nNo prior baseline — stored the current curve (%d rows) as the new reference.",
		symbol, side, rows)
}

// FormatStatus summarizes the last completed cycle for the /status command.
func FormatStatus(symbol string, lastRun time.Time, lastChanges map[model.Side]int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>SkewSentinel status</b> | %s\n\n", symbol))
	if lastRun.IsZero() {
		b.WriteString("No cycle has completed yet.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Last cycle: %s\n", lastRun.Format("2006-01-02 15:04:05")))
	for _, side := range model.Sides {
		b.WriteString(fmt.Sprintf("%s: %d significant change(s)\n", side, lastChanges[side]))
	}
	return b.String()
}
