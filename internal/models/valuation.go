package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// MERGED VALUATION VIEW
// ============================================================================

// ValuationRecord is the reconciled view of one valuation submission,
// regardless of the form family it originated from. RawStatus carries the
// source value untouched; consumers go through NormalizeStatus.
type ValuationRecord struct {
	UniqueID        string     `json:"unique_id"`
	FormFamily      FormFamily `json:"form_family"`
	RawStatus       string     `json:"status"`
	ClientID        string     `json:"client_id"`
	Username        string     `json:"username"`
	ClientName      string     `json:"client_name"`
	City            string     `json:"city"`
	BankName        string     `json:"bank_name"`
	EngineerName    string     `json:"engineer_name"`
	Address         string     `json:"address"`
	MobileNumber    string     `json:"mobile_number"`
	Payment         string     `json:"payment"`
	Notes           string     `json:"notes"`
	ManagerFeedback string     `json:"manager_feedback"`
	LastUpdatedBy   string     `json:"last_updated_by"`
	DateTime        string     `json:"date_time"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	LastUpdatedAt   *time.Time `json:"last_updated_at,omitempty"`
}

// Status returns the normalized status of the record.
func (r *ValuationRecord) Status() (Status, bool) {
	return NormalizeStatus(r.RawStatus)
}

// EffectiveTimestamp is the best-available last-modified instant, falling
// back through lastUpdatedAt, updatedAt and finally createdAt.
func (r *ValuationRecord) EffectiveTimestamp() time.Time {
	if r.LastUpdatedAt != nil {
		return *r.LastUpdatedAt
	}
	if r.UpdatedAt != nil {
		return *r.UpdatedAt
	}
	return r.CreatedAt
}

// ============================================================================
// PER-FAMILY STORAGE ROWS
// ============================================================================

// ShopValuation is a row of the shop_valuations table.
type ShopValuation struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UniqueID        string     `json:"unique_id" db:"unique_id"`
	ClientID        string     `json:"client_id" db:"client_id"`
	Username        string     `json:"username" db:"username"`
	Status          string     `json:"status" db:"status"`
	ClientName      string     `json:"client_name" db:"client_name"`
	City            string     `json:"city" db:"city"`
	BankName        string     `json:"bank_name" db:"bank_name"`
	EngineerName    string     `json:"engineer_name" db:"engineer_name"`
	Address         string     `json:"address" db:"address"`
	MobileNumber    string     `json:"mobile_number" db:"mobile_number"`
	Payment         string     `json:"payment" db:"payment"`
	Notes           string     `json:"notes" db:"notes"`
	ManagerFeedback string     `json:"manager_feedback" db:"manager_feedback"`
	CollectedBy     string     `json:"collected_by" db:"collected_by"`
	DSA             string     `json:"dsa" db:"dsa"`
	ShopArea        *float64   `json:"shop_area,omitempty" db:"shop_area"`
	FloorNumber     *int       `json:"floor_number,omitempty" db:"floor_number"`
	DateTime        string     `json:"date_time" db:"date_time"`
	LastUpdatedBy   string     `json:"last_updated_by" db:"last_updated_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	LastUpdatedAt   *time.Time `json:"last_updated_at,omitempty" db:"last_updated_at"`
}

func (v *ShopValuation) ToRecord() ValuationRecord {
	return ValuationRecord{
		UniqueID:        v.UniqueID,
		FormFamily:      FamilyShopForm,
		RawStatus:       v.Status,
		ClientID:        v.ClientID,
		Username:        v.Username,
		ClientName:      v.ClientName,
		City:            v.City,
		BankName:        v.BankName,
		EngineerName:    v.EngineerName,
		Address:         v.Address,
		MobileNumber:    v.MobileNumber,
		Payment:         v.Payment,
		Notes:           v.Notes,
		ManagerFeedback: v.ManagerFeedback,
		LastUpdatedBy:   v.LastUpdatedBy,
		DateTime:        v.DateTime,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		LastUpdatedAt:   v.LastUpdatedAt,
	}
}

// FlatValuation is a row of the flat_valuations table (the single-bank flat
// form variant).
type FlatValuation struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UniqueID        string     `json:"unique_id" db:"unique_id"`
	ClientID        string     `json:"client_id" db:"client_id"`
	Username        string     `json:"username" db:"username"`
	Status          string     `json:"status" db:"status"`
	ClientName      string     `json:"client_name" db:"client_name"`
	City            string     `json:"city" db:"city"`
	BankName        string     `json:"bank_name" db:"bank_name"`
	EngineerName    string     `json:"engineer_name" db:"engineer_name"`
	Address         string     `json:"address" db:"address"`
	MobileNumber    string     `json:"mobile_number" db:"mobile_number"`
	Payment         string     `json:"payment" db:"payment"`
	Notes           string     `json:"notes" db:"notes"`
	ManagerFeedback string     `json:"manager_feedback" db:"manager_feedback"`
	CollectedBy     string     `json:"collected_by" db:"collected_by"`
	DSA             string     `json:"dsa" db:"dsa"`
	FlatNumber      *string    `json:"flat_number,omitempty" db:"flat_number"`
	TowerName       *string    `json:"tower_name,omitempty" db:"tower_name"`
	CarpetArea      *float64   `json:"carpet_area,omitempty" db:"carpet_area"`
	DateTime        string     `json:"date_time" db:"date_time"`
	LastUpdatedBy   string     `json:"last_updated_by" db:"last_updated_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	LastUpdatedAt   *time.Time `json:"last_updated_at,omitempty" db:"last_updated_at"`
}

func (v *FlatValuation) ToRecord() ValuationRecord {
	return ValuationRecord{
		UniqueID:        v.UniqueID,
		FormFamily:      FamilyAltFlatForm,
		RawStatus:       v.Status,
		ClientID:        v.ClientID,
		Username:        v.Username,
		ClientName:      v.ClientName,
		City:            v.City,
		BankName:        v.BankName,
		EngineerName:    v.EngineerName,
		Address:         v.Address,
		MobileNumber:    v.MobileNumber,
		Payment:         v.Payment,
		Notes:           v.Notes,
		ManagerFeedback: v.ManagerFeedback,
		LastUpdatedBy:   v.LastUpdatedBy,
		DateTime:        v.DateTime,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		LastUpdatedAt:   v.LastUpdatedAt,
	}
}

// APFValuation is a row of the apf_valuations table (application-form variant).
type APFValuation struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UniqueID        string     `json:"unique_id" db:"unique_id"`
	ClientID        string     `json:"client_id" db:"client_id"`
	Username        string     `json:"username" db:"username"`
	Status          string     `json:"status" db:"status"`
	ClientName      string     `json:"client_name" db:"client_name"`
	City            string     `json:"city" db:"city"`
	BankName        string     `json:"bank_name" db:"bank_name"`
	EngineerName    string     `json:"engineer_name" db:"engineer_name"`
	Address         string     `json:"address" db:"address"`
	MobileNumber    string     `json:"mobile_number" db:"mobile_number"`
	Payment         string     `json:"payment" db:"payment"`
	Notes           string     `json:"notes" db:"notes"`
	ManagerFeedback string     `json:"manager_feedback" db:"manager_feedback"`
	CollectedBy     string     `json:"collected_by" db:"collected_by"`
	DSA             string     `json:"dsa" db:"dsa"`
	APFNumber       *string    `json:"apf_number,omitempty" db:"apf_number"`
	ProjectName     *string    `json:"project_name,omitempty" db:"project_name"`
	BuilderName     *string    `json:"builder_name,omitempty" db:"builder_name"`
	DateTime        string     `json:"date_time" db:"date_time"`
	LastUpdatedBy   string     `json:"last_updated_by" db:"last_updated_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	LastUpdatedAt   *time.Time `json:"last_updated_at,omitempty" db:"last_updated_at"`
}

func (v *APFValuation) ToRecord() ValuationRecord {
	return ValuationRecord{
		UniqueID:        v.UniqueID,
		FormFamily:      FamilyAPFForm,
		RawStatus:       v.Status,
		ClientID:        v.ClientID,
		Username:        v.Username,
		ClientName:      v.ClientName,
		City:            v.City,
		BankName:        v.BankName,
		EngineerName:    v.EngineerName,
		Address:         v.Address,
		MobileNumber:    v.MobileNumber,
		Payment:         v.Payment,
		Notes:           v.Notes,
		ManagerFeedback: v.ManagerFeedback,
		LastUpdatedBy:   v.LastUpdatedBy,
		DateTime:        v.DateTime,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		LastUpdatedAt:   v.LastUpdatedAt,
	}
}
