package repository

import (
	"context"
	"testing"

	"valuation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// The server boots even when the first database connect fails and retries in
// the background. Until the handle exists every query must fail with a plain
// error, never a nil dereference, so the aggregator can degrade to an empty
// contribution.
func TestRepositories_NilHandleReturnsErrorNotPanic(t *testing.T) {
	ctx := context.Background()
	fctx := models.FetchContext{Username: "tester", Role: models.RoleManager, ClientID: "tenant-1"}

	shop := NewShopValuationRepository(nil)
	flat := NewFlatValuationRepository(nil)
	apf := NewAPFValuationRepository(nil)

	assert.NotPanics(t, func() {
		_, err := shop.FetchRecords(ctx, fctx)
		assert.ErrorIs(t, err, ErrDatabaseUnavailable)
		_, err = flat.FetchRecords(ctx, fctx)
		assert.ErrorIs(t, err, ErrDatabaseUnavailable)
		_, err = apf.FetchRecords(ctx, fctx)
		assert.ErrorIs(t, err, ErrDatabaseUnavailable)
	})

	assert.ErrorIs(t, shop.Create(ctx, &models.ShopValuation{}), ErrDatabaseUnavailable)

	_, err := shop.GetByUniqueID(ctx, "tenant-1", "V-1")
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)

	_, err = shop.SaveEdit(ctx, "tenant-1", "V-1", map[string]string{"notes": "x"}, "tester")
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)

	_, err = shop.SetStatus(ctx, "tenant-1", "V-1", models.StatusApproved, "tester", nil)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
}
