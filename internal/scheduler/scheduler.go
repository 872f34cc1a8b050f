package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"SkewSentinel/internal/baseline"
	"SkewSentinel/internal/collector"
	"SkewSentinel/internal/drift"
	"SkewSentinel/internal/model"
	"SkewSentinel/internal/notifier"
	"SkewSentinel/internal/recorder"
	"SkewSentinel/internal/report"
	"SkewSentinel/internal/skew"
)

// Scheduler runs the skew cycle on a cron schedule:
// fetch → compute skew per side → load baseline → detect drift → report →
// save baseline. Cycles are serialized; the baseline is only written after a
// fully computed curve exists.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Store      baseline.Store
	Recorder   recorder.Recorder
	Notifier   notifier.Notifier
	Threshold  float64
	SpotPrice  float64 // configured spot; 0 falls back to the source's quoted spot
	ReportsDir string
	Ctx        context.Context

	mu          sync.Mutex // one cycle in flight at a time
	lastRun     time.Time
	lastChanges map[model.Side]int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, store baseline.Store,
	rec recorder.Recorder, n notifier.Notifier, threshold, spotPrice float64, reportsDir string) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   col,
		Store:       store,
		Recorder:    rec,
		Notifier:    n,
		Threshold:   threshold,
		SpotPrice:   spotPrice,
		ReportsDir:  reportsDir,
		Ctx:         ctx,
		lastChanges: make(map[model.Side]int),
	}
}

// Register schedules the periodic cycle.
func (s *Scheduler) Register(cycleCron string) error {
	if _, err := s.Cron.AddFunc(cycleCron, s.runCycle); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunCycleNow executes one cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunCycleNow() {
	s.runCycle()
}

func (s *Scheduler) runCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Println("[INFO] running skew cycle")
	asOf := time.Now()

	chain, err := s.Collector.Collect()
	if err != nil {
		log.Printf("[ERROR] cycle collect: %v", err)
		return
	}

	spot := s.SpotPrice
	if spot <= 0 {
		spot = chain.QuotedSpot
	}
	if spot <= 0 {
		// Without a spot price moneyness is undefined; abort rather than
		// guess a classification. No baseline is touched.
		log.Printf("[ERROR] cycle aborted: no usable spot price for %s", chain.Symbol)
		return
	}

	changes := make(map[model.Side]int)
	for _, snap := range []*model.Snapshot{&chain.Calls, &chain.Puts} {
		n, err := s.runSide(snap, spot, asOf)
		if err != nil {
			log.Printf("[ERROR] cycle %s: %v", snap.Side, err)
			continue
		}
		changes[snap.Side] = n
	}

	s.lastRun = asOf
	s.lastChanges = changes
}

// runSide processes one instrument side end to end and returns the number of
// significant changes it reported. The baseline is overwritten only once the
// whole side succeeded up to that point.
func (s *Scheduler) runSide(snap *model.Snapshot, spot float64, asOf time.Time) (int, error) {
	curve, err := skew.Compute(snap, spot)
	if err != nil {
		return 0, fmt.Errorf("compute skew: %w", err)
	}
	log.Printf("[INFO] %s %s: %d quotes → %d curve rows across %d expiries",
		snap.Symbol, snap.Side, len(snap.Quotes), curve.Len(), len(curve.Expiries()))

	base, found, err := s.Store.Load(snap.Side)
	if err != nil {
		return 0, fmt.Errorf("load baseline: %w", err)
	}

	var changes []model.ChangeRecord
	if found {
		changes, err = drift.Detect(base, curve, s.Threshold)
		if err != nil {
			return 0, fmt.Errorf("detect drift: %w", err)
		}
	} else {
		log.Printf("[INFO] %s %s: no baseline yet, bootstrap cycle", snap.Symbol, snap.Side)
		s.trySend(notifier.FormatBootstrap(snap.Symbol, snap.Side, curve.Len()))
	}

	if len(changes) > 0 {
		path, err := report.Write(changes, s.ReportsDir, snap.Side, asOf)
		if err != nil {
			return 0, fmt.Errorf("write report: %w", err)
		}
		log.Printf("[INFO] %s %s: %d significant changes → %s", snap.Symbol, snap.Side, len(changes), path)
		s.trySend(notifier.FormatDriftAlert(snap.Symbol, snap.Side, changes, s.Threshold, asOf))
		if err := s.Recorder.RecordChanges(snap.Side, asOf, changes); err != nil {
			log.Printf("[ERROR] record changes: %v", err)
		}
	} else if found {
		log.Printf("[INFO] %s %s: no significant changes", snap.Symbol, snap.Side)
	}

	// Roll the baseline forward unconditionally: next cycle compares
	// against today's curve, not the original one.
	if err := s.Store.Save(snap.Side, curve); err != nil {
		return 0, fmt.Errorf("save baseline: %w", err)
	}

	if err := s.Recorder.RecordCycle(&recorder.CycleRun{
		Symbol:        snap.Symbol,
		Side:          snap.Side,
		SpotPrice:     spot,
		Threshold:     s.Threshold,
		QuotesTotal:   len(snap.Quotes),
		CurveRows:     curve.Len(),
		Expiries:      len(curve.Expiries()),
		BaselineFound: found,
		ChangeCount:   len(changes),
		RanAt:         asOf,
	}); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}
	return len(changes), nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		go s.RunCycleNow()
		return "cycle started"
	case "/status":
		s.mu.Lock()
		defer s.mu.Unlock()
		return notifier.FormatStatus(s.Collector.Symbol, s.lastRun, s.lastChanges)
	case "/threshold":
		return fmt.Sprintf("threshold: %.2f vol points", s.Threshold)
	default:
		return "commands:\n• /run — run a cycle now\n• /status — last cycle summary\n• /threshold — current threshold"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
