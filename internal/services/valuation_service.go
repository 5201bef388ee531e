package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"valuation-service/internal/event"
	"valuation-service/internal/models"
)

var ErrUnknownFormFamily = errors.New("unknown form family")

// ValuationStore is the per-family mutation surface. The store is
// authoritative for the resulting status of every mutation; callers adopt
// the returned record rather than assuming their optimistic value.
type ValuationStore interface {
	Family() models.FormFamily
	GetByUniqueID(ctx context.Context, clientID, uniqueID string) (*models.ValuationRecord, error)
	SaveEdit(ctx context.Context, clientID, uniqueID string, fields map[string]string, updatedBy string) (*models.ValuationRecord, error)
	SetStatus(ctx context.Context, clientID, uniqueID string, status models.Status, actedBy string, feedback *string) (*models.ValuationRecord, error)
}

// TransitionPublisher emits a status event after a successful transition.
type TransitionPublisher interface {
	PublishStatusEvent(ctx context.Context, evt event.StatusEvent) error
}

// ValuationService runs the workflow mutations. Every mutation re-reads the
// freshest stored state before gating and writing, so a stale view held by
// the presentation layer can never smuggle a forbidden transition through.
type ValuationService struct {
	stores    map[models.FormFamily]ValuationStore
	publisher TransitionPublisher
}

// NewValuationService wires one store per form family. publisher may be nil
// when event publishing is disabled.
func NewValuationService(publisher TransitionPublisher, stores ...ValuationStore) *ValuationService {
	byFamily := make(map[models.FormFamily]ValuationStore, len(stores))
	for _, store := range stores {
		byFamily[store.Family()] = store
	}
	return &ValuationService{
		stores:    byFamily,
		publisher: publisher,
	}
}

// GetRecord reads one record fresh from its family store.
func (s *ValuationService) GetRecord(ctx context.Context, fctx models.FetchContext, family models.FormFamily, uniqueID string) (*models.ValuationRecord, error) {
	store, ok := s.stores[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormFamily, family)
	}
	return store.GetByUniqueID(ctx, fctx.ClientID, uniqueID)
}

// SaveEdit applies an edit after checking the role/status gate and the
// per-field restriction. On success the stored status always resolves to
// on-progress, whatever the actor's role; approval is a distinct action.
func (s *ValuationService) SaveEdit(ctx context.Context, fctx models.FetchContext, family models.FormFamily, uniqueID string, payload models.EditPayload) (*models.ValuationRecord, error) {
	store, ok := s.stores[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormFamily, family)
	}

	current, err := store.GetByUniqueID(ctx, fctx.ClientID, uniqueID)
	if err != nil {
		return nil, err
	}

	status, known := current.Status()
	if !known {
		// An unrecognized stored status is only editable by an admin.
		if fctx.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: status %q is not recognized", ErrPermissionDenied, current.RawStatus)
		}
	} else {
		if !CanEdit(fctx.Role, status) {
			return nil, fmt.Errorf("%w: role %s cannot edit a %s record", ErrPermissionDenied, fctx.Role, status)
		}
	}

	fields := payload.Fields()
	if known {
		for name := range fields {
			if !CanEditField(fctx.Role, status, name) {
				return nil, fmt.Errorf("%w: field %s is restricted for role %s", ErrPermissionDenied, name, fctx.Role)
			}
		}
	}

	updated, err := store.SaveEdit(ctx, fctx.ClientID, uniqueID, fields, fctx.Username)
	if err != nil {
		return nil, err
	}

	slog.Info("valuation edit saved",
		"form_family", family,
		"unique_id", uniqueID,
		"updated_by", fctx.Username,
		"status", updated.RawStatus)

	s.publishTransition(ctx, fctx, current, updated, nil)
	return updated, nil
}

// SetDecision records an approve or reject decision along with the acting
// identity and optional feedback.
func (s *ValuationService) SetDecision(ctx context.Context, fctx models.FetchContext, family models.FormFamily, uniqueID string, decision models.Status, feedback *string) (*models.ValuationRecord, error) {
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidTransition)
	}

	store, ok := s.stores[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormFamily, family)
	}

	current, err := store.GetByUniqueID(ctx, fctx.ClientID, uniqueID)
	if err != nil {
		return nil, err
	}

	status, known := current.Status()
	if !known || !CanApprove(fctx.Role, status) {
		return nil, fmt.Errorf("%w: role %s cannot decide a %q record", ErrPermissionDenied, fctx.Role, current.RawStatus)
	}

	updated, err := store.SetStatus(ctx, fctx.ClientID, uniqueID, decision, fctx.Username, feedback)
	if err != nil {
		return nil, err
	}

	slog.Info("valuation decision recorded",
		"form_family", family,
		"unique_id", uniqueID,
		"decision", decision,
		"decided_by", fctx.Username)

	s.publishTransition(ctx, fctx, current, updated, feedback)
	return updated, nil
}

// RequestRework sends an approved record back for rework with optional
// comments. Rework is only reachable from approved.
func (s *ValuationService) RequestRework(ctx context.Context, fctx models.FetchContext, family models.FormFamily, uniqueID string, comments *string) (*models.ValuationRecord, error) {
	store, ok := s.stores[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormFamily, family)
	}

	current, err := store.GetByUniqueID(ctx, fctx.ClientID, uniqueID)
	if err != nil {
		return nil, err
	}

	if fctx.Role != models.RoleManager && fctx.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: role %s cannot request rework", ErrPermissionDenied, fctx.Role)
	}
	status, known := current.Status()
	if !known || status != models.StatusApproved {
		return nil, fmt.Errorf("%w: rework can only be requested from approved, not %q", ErrInvalidTransition, current.RawStatus)
	}

	updated, err := store.SetStatus(ctx, fctx.ClientID, uniqueID, models.StatusRework, fctx.Username, comments)
	if err != nil {
		return nil, err
	}

	slog.Info("valuation rework requested",
		"form_family", family,
		"unique_id", uniqueID,
		"requested_by", fctx.Username)

	s.publishTransition(ctx, fctx, current, updated, comments)
	return updated, nil
}

// publishTransition emits a status event. Publish failure is logged and
// never fails the mutation that already committed.
func (s *ValuationService) publishTransition(ctx context.Context, fctx models.FetchContext, before, after *models.ValuationRecord, feedback *string) {
	if s.publisher == nil {
		return
	}

	toStatus, ok := after.Status()
	if !ok {
		return
	}

	evt := event.StatusEvent{
		UniqueID:   after.UniqueID,
		FormFamily: after.FormFamily,
		ClientID:   fctx.ClientID,
		FromStatus: before.RawStatus,
		ToStatus:   toStatus,
		ActedBy:    fctx.Username,
		ActorRole:  fctx.Role,
		Feedback:   feedback,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishStatusEvent(ctx, evt); err != nil {
		slog.Warn("failed to publish status event",
			"unique_id", after.UniqueID,
			"to_status", toStatus,
			"error", err)
	}
}
