package models

import "strings"

type FormFamily string

const (
	FamilyShopForm    FormFamily = "shopForm"
	FamilyAltFlatForm FormFamily = "altFlatForm"
	FamilyAPFForm     FormFamily = "apfForm"
)

func ParseFormFamily(raw string) (FormFamily, bool) {
	switch FormFamily(raw) {
	case FamilyShopForm, FamilyAltFlatForm, FamilyAPFForm:
		return FormFamily(raw), true
	}
	return "", false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusOnProgress Status = "on-progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusRework     Status = "rework"
)

// AllStatuses lists the closed status enum in display order.
var AllStatuses = []Status{StatusPending, StatusOnProgress, StatusApproved, StatusRejected, StatusRework}

// NormalizeStatus maps a raw status value onto the closed enum. It trims
// surrounding whitespace and lowercases before matching; anything that is not
// a string or does not match exactly yields ok=false. It never panics.
func NormalizeStatus(raw any) (Status, bool) {
	s, isString := raw.(string)
	if !isString {
		return "", false
	}
	switch status := Status(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusPending, StatusOnProgress, StatusApproved, StatusRejected, StatusRework:
		return status, true
	}
	return "", false
}

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func ParseRole(raw string) (Role, bool) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleUser, RoleManager, RoleAdmin:
		return role, true
	}
	return "", false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type SortField string

const (
	SortByDuration     SortField = "duration"
	SortByCreatedAt    SortField = "createdAt"
	SortByDateTime     SortField = "dateTime"
	SortByClientName   SortField = "clientName"
	SortByCity         SortField = "city"
	SortByBankName     SortField = "bankName"
	SortByEngineerName SortField = "engineerName"
	SortByStatus       SortField = "status"
)
