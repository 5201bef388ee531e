package services

import (
	"context"
	"sync"
	"time"

	"valuation-service/internal/models"
)

// ComputeDurations returns the elapsed time since creation for every record
// that is still moving through review. Approved records are excluded so their
// visible duration freezes. Records with an empty uniqueId cannot be keyed
// and are skipped; consumers treat a missing entry as zero. A createdAt in
// the future yields a negative decomposition, passed through for upstream
// diagnosis rather than clamped.
func ComputeDurations(records []models.ValuationRecord, now time.Time) map[string]models.DurationBreakdown {
	durations := make(map[string]models.DurationBreakdown, len(records))

	for i := range records {
		record := &records[i]
		if record.UniqueID == "" {
			continue
		}
		status, ok := record.Status()
		if !ok || status == models.StatusApproved {
			continue
		}

		total := int64(now.Sub(record.CreatedAt) / time.Second)
		remainder := total % 86400
		durations[record.UniqueID] = models.DurationBreakdown{
			Days:         int(total / 86400),
			Hours:        int(remainder / 3600),
			Minutes:      int(remainder % 3600 / 60),
			Seconds:      int(remainder % 60),
			TotalSeconds: total,
		}
	}

	return durations
}

// DurationTracker recomputes the duration map on a fixed cadence over the
// current merged snapshot. The map is replaced wholesale on every tick; no
// entry is mutated in place.
type DurationTracker struct {
	interval time.Duration
	snapshot func() []models.ValuationRecord

	mu        sync.RWMutex
	durations map[string]models.DurationBreakdown
}

func NewDurationTracker(interval time.Duration, snapshot func() []models.ValuationRecord) *DurationTracker {
	return &DurationTracker{
		interval:  interval,
		snapshot:  snapshot,
		durations: make(map[string]models.DurationBreakdown),
	}
}

// Run ticks until ctx is cancelled. The ticker is stopped on exit so a
// torn-down session leaks no timer.
func (t *DurationTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.Recompute(time.Now())
	for {
		select {
		case <-ticker.C:
			t.Recompute(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// Recompute rebuilds the duration map from the current snapshot. Idempotent
// for a fixed now.
func (t *DurationTracker) Recompute(now time.Time) {
	durations := ComputeDurations(t.snapshot(), now)

	t.mu.Lock()
	t.durations = durations
	t.mu.Unlock()
}

// Durations returns the latest duration map.
func (t *DurationTracker) Durations() map[string]models.DurationBreakdown {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.durations
}
