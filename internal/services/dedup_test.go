package services

import (
	"testing"
	"time"

	"valuation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func recordWithTimes(uniqueID string, createdAt time.Time, updatedAt, lastUpdatedAt *time.Time) models.ValuationRecord {
	return models.ValuationRecord{
		UniqueID:      uniqueID,
		RawStatus:     string(models.StatusPending),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		LastUpdatedAt: lastUpdatedAt,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

// ============================================================================
// DEDUPLICATION
// ============================================================================

func TestDeduplicate_KeepsFreshestVersion(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	stale := recordWithTimes("V-1", base, nil, nil)
	stale.City = "Pune"
	fresh := recordWithTimes("V-1", base, nil, timePtr(base.Add(2*time.Hour)))
	fresh.City = "Mumbai"

	out := Deduplicate([]models.ValuationRecord{stale, fresh})

	assert.Len(t, out, 1)
	assert.Equal(t, "Mumbai", out[0].City, "the later effective timestamp should survive")
}

func TestDeduplicate_SurvivorKeepsFirstSeenPosition(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	records := []models.ValuationRecord{
		recordWithTimes("A", base, nil, nil),
		recordWithTimes("B", base, nil, nil),
		recordWithTimes("A", base, nil, timePtr(base.Add(time.Hour))),
		recordWithTimes("C", base, nil, nil),
	}

	out := Deduplicate(records)

	assert.Len(t, out, 3)
	assert.Equal(t, "A", out[0].UniqueID, "survivor stays at the first-seen position")
	assert.Equal(t, "B", out[1].UniqueID)
	assert.Equal(t, "C", out[2].UniqueID)
	assert.NotNil(t, out[0].LastUpdatedAt, "the fresher duplicate replaced the stale one in place")
}

func TestDeduplicate_TieKeepsEarlierSeen(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	first := recordWithTimes("V-1", base, nil, nil)
	first.City = "first"
	second := recordWithTimes("V-1", base, nil, nil)
	second.City = "second"

	out := Deduplicate([]models.ValuationRecord{first, second})

	assert.Len(t, out, 1)
	assert.Equal(t, "first", out[0].City, "equal timestamps keep the earlier-seen record")
}

func TestDeduplicate_EffectiveTimestampFallback(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	// lastUpdatedAt wins over updatedAt, which wins over createdAt.
	viaUpdated := recordWithTimes("V-1", base, timePtr(base.Add(time.Hour)), nil)
	viaUpdated.City = "updated"
	viaLast := recordWithTimes("V-1", base, timePtr(base.Add(time.Hour)), timePtr(base.Add(3*time.Hour)))
	viaLast.City = "last"

	out := Deduplicate([]models.ValuationRecord{viaUpdated, viaLast})

	assert.Len(t, out, 1)
	assert.Equal(t, "last", out[0].City)
}

func TestDeduplicate_EmptyIDPassesThrough(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	records := []models.ValuationRecord{
		recordWithTimes("", base, nil, nil),
		recordWithTimes("  ", base, nil, nil),
		recordWithTimes("", base.Add(time.Hour), nil, nil),
	}

	out := Deduplicate(records)

	assert.Len(t, out, 3, "records without a usable uniqueId are never collapsed")
}

func TestDeduplicate_Idempotent(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	records := []models.ValuationRecord{
		recordWithTimes("A", base, nil, timePtr(base.Add(time.Hour))),
		recordWithTimes("A", base, nil, nil),
		recordWithTimes("B", base, nil, nil),
	}

	once := Deduplicate(records)
	twice := Deduplicate(once)

	assert.Equal(t, once, twice)
}

func TestDeduplicate_EmptyInput(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
	assert.Empty(t, Deduplicate([]models.ValuationRecord{}))
}
