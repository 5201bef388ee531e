package services

import (
	"testing"
	"time"

	"valuation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// DURATION COMPUTATION
// ============================================================================

func TestComputeDurations_Decomposition(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	// 2 days, 3 hours, 4 minutes, 5 seconds before now.
	createdAt := now.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second))
	records := []models.ValuationRecord{
		{UniqueID: "V-1", RawStatus: "pending", CreatedAt: createdAt},
	}

	durations := ComputeDurations(records, now)

	breakdown, ok := durations["V-1"]
	assert.True(t, ok)
	assert.Equal(t, 2, breakdown.Days)
	assert.Equal(t, 3, breakdown.Hours)
	assert.Equal(t, 4, breakdown.Minutes)
	assert.Equal(t, 5, breakdown.Seconds)
	assert.Equal(t, int64(2*86400+3*3600+4*60+5), breakdown.TotalSeconds)
}

func TestComputeDurations_ExactBoundaries(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	records := []models.ValuationRecord{
		{UniqueID: "day", RawStatus: "pending", CreatedAt: now.Add(-24 * time.Hour)},
		{UniqueID: "hour", RawStatus: "pending", CreatedAt: now.Add(-time.Hour)},
		{UniqueID: "zero", RawStatus: "pending", CreatedAt: now},
	}

	durations := ComputeDurations(records, now)

	assert.Equal(t, models.DurationBreakdown{Days: 1, TotalSeconds: 86400}, durations["day"])
	assert.Equal(t, models.DurationBreakdown{Hours: 1, TotalSeconds: 3600}, durations["hour"])
	assert.Equal(t, models.DurationBreakdown{}, durations["zero"])
}

func TestComputeDurations_ApprovedExcluded(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	records := []models.ValuationRecord{
		{UniqueID: "moving", RawStatus: "on-progress", CreatedAt: now.Add(-time.Hour)},
		{UniqueID: "frozen", RawStatus: "approved", CreatedAt: now.Add(-time.Hour)},
	}

	durations := ComputeDurations(records, now)

	assert.Contains(t, durations, "moving")
	assert.NotContains(t, durations, "frozen", "approved records stop accruing duration")
}

func TestComputeDurations_UnknownStatusAndEmptyIDSkipped(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	records := []models.ValuationRecord{
		{UniqueID: "odd", RawStatus: "archived", CreatedAt: now.Add(-time.Hour)},
		{UniqueID: "", RawStatus: "pending", CreatedAt: now.Add(-time.Hour)},
	}

	durations := ComputeDurations(records, now)

	assert.Empty(t, durations)
}

func TestComputeDurations_FutureCreatedAtPassesNegative(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	records := []models.ValuationRecord{
		{UniqueID: "future", RawStatus: "pending", CreatedAt: now.Add(time.Hour)},
	}

	durations := ComputeDurations(records, now)

	assert.Equal(t, int64(-3600), durations["future"].TotalSeconds,
		"clock skew is surfaced, not clamped")
}

// ============================================================================
// TRACKER
// ============================================================================

func TestDurationTracker_RecomputeReplacesWholesale(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	snapshot := []models.ValuationRecord{
		{UniqueID: "V-1", RawStatus: "pending", CreatedAt: now.Add(-time.Hour)},
		{UniqueID: "V-2", RawStatus: "pending", CreatedAt: now.Add(-2 * time.Hour)},
	}
	tracker := NewDurationTracker(time.Second, func() []models.ValuationRecord { return snapshot })

	tracker.Recompute(now)
	assert.Len(t, tracker.Durations(), 2)

	// V-2 approved: its entry must disappear on the next tick, not linger.
	snapshot[1].RawStatus = "approved"
	tracker.Recompute(now)

	durations := tracker.Durations()
	assert.Len(t, durations, 1)
	assert.Contains(t, durations, "V-1")
	assert.NotContains(t, durations, "V-2")
}

func TestDurationTracker_RecomputeIdempotentForFixedNow(t *testing.T) {
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	snapshot := []models.ValuationRecord{
		{UniqueID: "V-1", RawStatus: "pending", CreatedAt: now.Add(-90 * time.Second)},
	}
	tracker := NewDurationTracker(time.Second, func() []models.ValuationRecord { return snapshot })

	tracker.Recompute(now)
	first := tracker.Durations()
	tracker.Recompute(now)
	second := tracker.Durations()

	assert.Equal(t, first, second)
}
