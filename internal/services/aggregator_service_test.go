package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"valuation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type fakeSource struct {
	family  models.FormFamily
	records []models.ValuationRecord
	err     error
	delay   time.Duration
}

func (f *fakeSource) Family() models.FormFamily { return f.family }

func (f *fakeSource) FetchRecords(ctx context.Context, fctx models.FetchContext) ([]models.ValuationRecord, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func testFetchContext() models.FetchContext {
	return models.FetchContext{Username: "tester", Role: models.RoleManager, ClientID: "tenant-1"}
}

// ============================================================================
// AGGREGATION
// ============================================================================

func TestAggregate_UnionsAllSourcesInOrder(t *testing.T) {
	shop := &fakeSource{family: models.FamilyShopForm, records: []models.ValuationRecord{{UniqueID: "S-1"}, {UniqueID: "S-2"}}}
	flat := &fakeSource{family: models.FamilyAltFlatForm, records: []models.ValuationRecord{{UniqueID: "F-1"}}}
	apf := &fakeSource{family: models.FamilyAPFForm, records: []models.ValuationRecord{{UniqueID: "A-1"}}}

	out := NewAggregatorService(shop, flat, apf).Aggregate(context.Background(), testFetchContext())

	assert.Len(t, out, 4)
	assert.Equal(t, "S-1", out[0].UniqueID)
	assert.Equal(t, "S-2", out[1].UniqueID)
	assert.Equal(t, "F-1", out[2].UniqueID)
	assert.Equal(t, "A-1", out[3].UniqueID)
}

func TestAggregate_StampsFormFamilyFromSource(t *testing.T) {
	// The record itself claims the wrong family; the source wins.
	flat := &fakeSource{
		family:  models.FamilyAltFlatForm,
		records: []models.ValuationRecord{{UniqueID: "F-1", FormFamily: models.FamilyShopForm}},
	}

	out := NewAggregatorService(flat).Aggregate(context.Background(), testFetchContext())

	assert.Len(t, out, 1)
	assert.Equal(t, models.FamilyAltFlatForm, out[0].FormFamily)
}

func TestAggregate_FailingSourceContributesEmpty(t *testing.T) {
	shop := &fakeSource{family: models.FamilyShopForm, records: []models.ValuationRecord{{UniqueID: "S-1"}}}
	flat := &fakeSource{family: models.FamilyAltFlatForm, err: errors.New("connection refused")}
	apf := &fakeSource{family: models.FamilyAPFForm, records: []models.ValuationRecord{{UniqueID: "A-1"}}}

	out := NewAggregatorService(shop, flat, apf).Aggregate(context.Background(), testFetchContext())

	assert.Len(t, out, 2, "a down source must not fail the merged fetch")
	assert.Equal(t, "S-1", out[0].UniqueID)
	assert.Equal(t, "A-1", out[1].UniqueID)
}

func TestAggregate_WaitsForSlowestSource(t *testing.T) {
	slow := &fakeSource{
		family:  models.FamilyAPFForm,
		records: []models.ValuationRecord{{UniqueID: "A-1"}},
		delay:   50 * time.Millisecond,
	}
	fast := &fakeSource{family: models.FamilyShopForm, records: []models.ValuationRecord{{UniqueID: "S-1"}}}

	out := NewAggregatorService(fast, slow).Aggregate(context.Background(), testFetchContext())

	assert.Len(t, out, 2, "aggregation settles only after every source settles")
}

func TestAggregate_NoSources(t *testing.T) {
	out := NewAggregatorService().Aggregate(context.Background(), testFetchContext())
	assert.Empty(t, out)
}
