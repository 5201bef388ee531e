package services

import (
	"context"
	"testing"
	"time"

	"valuation-service/internal/event"
	"valuation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type fakeStore struct {
	family models.FormFamily
	record models.ValuationRecord

	savedFields map[string]string
	setStatus   *models.Status
	setFeedback *string
}

func (f *fakeStore) Family() models.FormFamily { return f.family }

func (f *fakeStore) GetByUniqueID(ctx context.Context, clientID, uniqueID string) (*models.ValuationRecord, error) {
	record := f.record
	return &record, nil
}

func (f *fakeStore) SaveEdit(ctx context.Context, clientID, uniqueID string, fields map[string]string, updatedBy string) (*models.ValuationRecord, error) {
	f.savedFields = fields
	updated := f.record
	updated.RawStatus = string(models.StatusOnProgress)
	updated.LastUpdatedBy = updatedBy
	return &updated, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, clientID, uniqueID string, status models.Status, actedBy string, feedback *string) (*models.ValuationRecord, error) {
	f.setStatus = &status
	f.setFeedback = feedback
	updated := f.record
	updated.RawStatus = string(status)
	return &updated, nil
}

type fakePublisher struct {
	events []event.StatusEvent
}

func (f *fakePublisher) PublishStatusEvent(ctx context.Context, evt event.StatusEvent) error {
	f.events = append(f.events, evt)
	return nil
}

func storeWithStatus(status string) *fakeStore {
	return &fakeStore{
		family: models.FamilyShopForm,
		record: models.ValuationRecord{
			UniqueID:   "V-1",
			FormFamily: models.FamilyShopForm,
			RawStatus:  status,
			ClientID:   "tenant-1",
			CreatedAt:  time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		},
	}
}

func contextFor(role models.Role) models.FetchContext {
	return models.FetchContext{Username: "tester", Role: role, ClientID: "tenant-1"}
}

// ============================================================================
// SAVE EDIT
// ============================================================================

func TestSaveEdit_ResultsInOnProgress(t *testing.T) {
	store := storeWithStatus("pending")
	service := NewValuationService(nil, store)

	payload := models.EditPayload{Notes: stringPtr("re-measured the frontage")}
	updated, err := service.SaveEdit(context.Background(), contextFor(models.RoleUser), models.FamilyShopForm, "V-1", payload)

	assert.NoError(t, err)
	assert.Equal(t, string(models.StatusOnProgress), updated.RawStatus,
		"every successful edit lands on-progress, whatever the actor's role")
	assert.Equal(t, map[string]string{"notes": "re-measured the frontage"}, store.savedFields)
}

func TestSaveEdit_AdminEditAlsoLandsOnProgress(t *testing.T) {
	store := storeWithStatus("approved")
	service := NewValuationService(nil, store)

	updated, err := service.SaveEdit(context.Background(), contextFor(models.RoleAdmin), models.FamilyShopForm, "V-1", models.EditPayload{Notes: stringPtr("x")})

	assert.NoError(t, err)
	assert.Equal(t, string(models.StatusOnProgress), updated.RawStatus)
}

func TestSaveEdit_DeniedBeforeAnyMutation(t *testing.T) {
	store := storeWithStatus("on-progress")
	service := NewValuationService(nil, store)

	_, err := service.SaveEdit(context.Background(), contextFor(models.RoleUser), models.FamilyShopForm, "V-1", models.EditPayload{Notes: stringPtr("x")})

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, store.savedFields, "a denied edit must never reach storage")
}

func TestSaveEdit_RestrictedFieldDeniedForSubmitter(t *testing.T) {
	store := storeWithStatus("pending")
	service := NewValuationService(nil, store)

	payload := models.EditPayload{BankName: stringPtr("HDFC"), Notes: stringPtr("x")}
	_, err := service.SaveEdit(context.Background(), contextFor(models.RoleUser), models.FamilyShopForm, "V-1", payload)

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, store.savedFields, "one restricted field rejects the whole edit")
}

func TestSaveEdit_UnknownStoredStatusAdminOnly(t *testing.T) {
	store := storeWithStatus("archived")
	service := NewValuationService(nil, store)

	_, err := service.SaveEdit(context.Background(), contextFor(models.RoleManager), models.FamilyShopForm, "V-1", models.EditPayload{Notes: stringPtr("x")})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = service.SaveEdit(context.Background(), contextFor(models.RoleAdmin), models.FamilyShopForm, "V-1", models.EditPayload{Notes: stringPtr("x")})
	assert.NoError(t, err)
}

func TestSaveEdit_UnknownFamily(t *testing.T) {
	service := NewValuationService(nil, storeWithStatus("pending"))

	_, err := service.SaveEdit(context.Background(), contextFor(models.RoleAdmin), models.FormFamily("houseForm"), "V-1", models.EditPayload{})

	assert.ErrorIs(t, err, ErrUnknownFormFamily)
}

// ============================================================================
// DECISIONS
// ============================================================================

func TestSetDecision_ApproveByManager(t *testing.T) {
	store := storeWithStatus("on-progress")
	publisher := &fakePublisher{}
	service := NewValuationService(publisher, store)

	updated, err := service.SetDecision(context.Background(), contextFor(models.RoleManager), models.FamilyShopForm, "V-1", models.StatusApproved, nil)

	assert.NoError(t, err)
	assert.Equal(t, string(models.StatusApproved), updated.RawStatus)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, models.StatusApproved, publisher.events[0].ToStatus)
	assert.Equal(t, "on-progress", publisher.events[0].FromStatus)
}

func TestSetDecision_RejectCarriesFeedback(t *testing.T) {
	store := storeWithStatus("pending")
	service := NewValuationService(nil, store)

	feedback := "measurements missing for the second floor"
	_, err := service.SetDecision(context.Background(), contextFor(models.RoleManager), models.FamilyShopForm, "V-1", models.StatusRejected, &feedback)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, *store.setStatus)
	assert.Equal(t, feedback, *store.setFeedback)
}

func TestSetDecision_OnlyApproveOrReject(t *testing.T) {
	service := NewValuationService(nil, storeWithStatus("pending"))

	_, err := service.SetDecision(context.Background(), contextFor(models.RoleManager), models.FamilyShopForm, "V-1", models.StatusRework, nil)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetDecision_SubmitterDenied(t *testing.T) {
	store := storeWithStatus("pending")
	service := NewValuationService(nil, store)

	_, err := service.SetDecision(context.Background(), contextFor(models.RoleUser), models.FamilyShopForm, "V-1", models.StatusApproved, nil)

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, store.setStatus)
}

func TestSetDecision_NotFromApproved(t *testing.T) {
	service := NewValuationService(nil, storeWithStatus("approved"))

	_, err := service.SetDecision(context.Background(), contextFor(models.RoleManager), models.FamilyShopForm, "V-1", models.StatusApproved, nil)

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

// ============================================================================
// REWORK
// ============================================================================

func TestRequestRework_FromApproved(t *testing.T) {
	store := storeWithStatus("approved")
	publisher := &fakePublisher{}
	service := NewValuationService(publisher, store)

	comments := "bank asked for a re-survey"
	updated, err := service.RequestRework(context.Background(), contextFor(models.RoleManager), models.FamilyShopForm, "V-1", &comments)

	assert.NoError(t, err)
	assert.Equal(t, string(models.StatusRework), updated.RawStatus)
	assert.Equal(t, comments, *store.setFeedback)
	assert.Len(t, publisher.events, 1)
}

func TestRequestRework_OnlyFromApproved(t *testing.T) {
	for _, status := range []string{"pending", "on-progress", "rejected", "rework"} {
		store := storeWithStatus(status)
		service := NewValuationService(nil, store)

		_, err := service.RequestRework(context.Background(), contextFor(models.RoleAdmin), models.FamilyShopForm, "V-1", nil)

		assert.ErrorIs(t, err, ErrInvalidTransition, "rework from %s must fail", status)
		assert.Nil(t, store.setStatus)
	}
}

func TestRequestRework_SubmitterDenied(t *testing.T) {
	service := NewValuationService(nil, storeWithStatus("approved"))

	_, err := service.RequestRework(context.Background(), contextFor(models.RoleUser), models.FamilyShopForm, "V-1", nil)

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

// ============================================================================
// RECORD LOOKUP
// ============================================================================

func TestGetRecord(t *testing.T) {
	service := NewValuationService(nil, storeWithStatus("pending"))

	record, err := service.GetRecord(context.Background(), contextFor(models.RoleUser), models.FamilyShopForm, "V-1")
	assert.NoError(t, err)
	assert.Equal(t, "V-1", record.UniqueID)

	_, err = service.GetRecord(context.Background(), contextFor(models.RoleUser), models.FormFamily("houseForm"), "V-1")
	assert.ErrorIs(t, err, ErrUnknownFormFamily)
}
