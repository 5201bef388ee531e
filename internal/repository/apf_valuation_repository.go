package repository

import (
	"context"
	"fmt"
	"time"

	"valuation-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// APFValuationRepository stores the application-form (APF) family.
type APFValuationRepository struct {
	db *sqlx.DB
}

func NewAPFValuationRepository(db *sqlx.DB) *APFValuationRepository {
	return &APFValuationRepository{db: db}
}

func (r *APFValuationRepository) Family() models.FormFamily {
	return models.FamilyAPFForm
}

func (r *APFValuationRepository) Create(ctx context.Context, valuation *models.APFValuation) error {
	if r.db == nil {
		return ErrDatabaseUnavailable
	}
	if valuation.ID == uuid.Nil {
		valuation.ID = uuid.New()
	}
	valuation.Status = string(models.StatusPending)
	valuation.CreatedAt = time.Now()

	query := `
		INSERT INTO apf_valuations (
			id, unique_id, client_id, username, status, client_name, city, bank_name,
			engineer_name, address, mobile_number, payment, notes, manager_feedback,
			collected_by, dsa, apf_number, project_name, builder_name, date_time,
			last_updated_by, created_at
		) VALUES (
			:id, :unique_id, :client_id, :username, :status, :client_name, :city, :bank_name,
			:engineer_name, :address, :mobile_number, :payment, :notes, :manager_feedback,
			:collected_by, :dsa, :apf_number, :project_name, :builder_name, :date_time,
			:last_updated_by, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, valuation); err != nil {
		return fmt.Errorf("failed to create apf valuation: %w", err)
	}
	return nil
}

func (r *APFValuationRepository) FetchRecords(ctx context.Context, fctx models.FetchContext) ([]models.ValuationRecord, error) {
	if r.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	var rows []models.APFValuation
	if fctx.Role == models.RoleUser {
		query := `SELECT * FROM apf_valuations WHERE client_id = $1 AND username = $2 ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &rows, query, fctx.ClientID, fctx.Username); err != nil {
			return nil, fmt.Errorf("failed to list apf valuations: %w", err)
		}
	} else {
		query := `SELECT * FROM apf_valuations WHERE client_id = $1 ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &rows, query, fctx.ClientID); err != nil {
			return nil, fmt.Errorf("failed to list apf valuations: %w", err)
		}
	}

	records := make([]models.ValuationRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].ToRecord())
	}
	return records, nil
}

func (r *APFValuationRepository) GetByUniqueID(ctx context.Context, clientID, uniqueID string) (*models.ValuationRecord, error) {
	if r.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	var row models.APFValuation
	query := `SELECT * FROM apf_valuations WHERE client_id = $1 AND unique_id = $2`
	if err := r.db.GetContext(ctx, &row, query, clientID, uniqueID); err != nil {
		return nil, fmt.Errorf("failed to get apf valuation: %w", err)
	}
	record := row.ToRecord()
	return &record, nil
}

func (r *APFValuationRepository) SaveEdit(ctx context.Context, clientID, uniqueID string, fields map[string]string, updatedBy string) (*models.ValuationRecord, error) {
	if r.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	now := time.Now()
	setClause, args := buildUpdateSet(fields, 1)
	next := len(args) + 1

	query := `UPDATE apf_valuations SET `
	if setClause != "" {
		query += setClause + ", "
	}
	query += fmt.Sprintf(
		"status = $%d, last_updated_by = $%d, last_updated_at = $%d, updated_at = $%d WHERE client_id = $%d AND unique_id = $%d RETURNING *",
		next, next+1, next+2, next+3, next+4, next+5)
	args = append(args, string(models.StatusOnProgress), updatedBy, now, now, clientID, uniqueID)

	var row models.APFValuation
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("failed to save apf valuation edit: %w", err)
	}
	record := row.ToRecord()
	return &record, nil
}

func (r *APFValuationRepository) SetStatus(ctx context.Context, clientID, uniqueID string, status models.Status, actedBy string, feedback *string) (*models.ValuationRecord, error) {
	if r.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	now := time.Now()

	var row models.APFValuation
	var err error
	if feedback != nil {
		query := `UPDATE apf_valuations SET status = $1, manager_feedback = $2, last_updated_by = $3, last_updated_at = $4, updated_at = $4
			WHERE client_id = $5 AND unique_id = $6 RETURNING *`
		err = r.db.GetContext(ctx, &row, query, string(status), *feedback, actedBy, now, clientID, uniqueID)
	} else {
		query := `UPDATE apf_valuations SET status = $1, last_updated_by = $2, last_updated_at = $3, updated_at = $3
			WHERE client_id = $4 AND unique_id = $5 RETURNING *`
		err = r.db.GetContext(ctx, &row, query, string(status), actedBy, now, clientID, uniqueID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set apf valuation status: %w", err)
	}
	record := row.ToRecord()
	return &record, nil
}
