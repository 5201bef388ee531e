package services

import (
	"errors"

	"valuation-service/internal/models"
)

// Workflow sentinels, matched with errors.Is at the handler boundary.
var (
	ErrPermissionDenied  = errors.New("action not permitted for this role and status")
	ErrInvalidTransition = errors.New("status transition not allowed from current state")
)

// restrictedFields may only be edited by manager or admin, whatever the
// record's state. A submitter with edit permission edits everything else.
var restrictedFields = map[string]struct{}{
	"bank_name":     {},
	"city":          {},
	"client_name":   {},
	"mobile_number": {},
	"address":       {},
	"payment":       {},
	"collected_by":  {},
	"dsa":           {},
	"engineer_name": {},
}

// RestrictedFieldNames lists the manager/admin-only fields for the
// presentation layer.
func RestrictedFieldNames() []string {
	return []string{
		"bank_name", "city", "client_name", "mobile_number", "address",
		"payment", "collected_by", "dsa", "engineer_name",
	}
}

// CanEdit reports whether the role may save an edit while the record is in
// the given status. A submitter cannot edit while a manager or admin holds
// the record on-progress; this keeps the two from colliding mid-review.
func CanEdit(role models.Role, status models.Status) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return status == models.StatusPending || status == models.StatusRejected ||
			status == models.StatusOnProgress || status == models.StatusRework
	case models.RoleUser:
		return status == models.StatusPending || status == models.StatusRejected ||
			status == models.StatusRework
	}
	return false
}

// CanApprove reports whether the role may record an approve/reject decision
// while the record is in the given status.
func CanApprove(role models.Role, status models.Status) bool {
	if role != models.RoleManager && role != models.RoleAdmin {
		return false
	}
	return status == models.StatusPending || status == models.StatusOnProgress ||
		status == models.StatusRejected || status == models.StatusRework
}

// CanRequestRework reports whether the role may send an approved record back
// for rework. Rework is only reachable from approved.
func CanRequestRework(role models.Role, status models.Status) bool {
	if role != models.RoleManager && role != models.RoleAdmin {
		return false
	}
	return status == models.StatusApproved
}

// PermissionsFor assembles the presentation-facing permission view for one
// inspected record. A raw status that does not normalize grants nothing
// beyond the admin's unconditional edit.
func PermissionsFor(role models.Role, rawStatus string) models.RecordPermissions {
	status, known := models.NormalizeStatus(rawStatus)
	if !known {
		return models.RecordPermissions{
			CanEdit:          role == models.RoleAdmin,
			RestrictedFields: RestrictedFieldNames(),
		}
	}
	return models.RecordPermissions{
		CanEdit:          CanEdit(role, status),
		CanApprove:       CanApprove(role, status),
		CanRequestRework: CanRequestRework(role, status),
		RestrictedFields: RestrictedFieldNames(),
	}
}

// CanEditField is the per-field edit predicate: overall edit permission plus
// the manager/admin-only restriction on identity and contact fields.
func CanEditField(role models.Role, status models.Status, fieldName string) bool {
	if !CanEdit(role, status) {
		return false
	}
	if role != models.RoleUser {
		return true
	}
	_, restricted := restrictedFields[fieldName]
	return !restricted
}
