package services

import (
	"context"
	"fmt"
	"log/slog"

	"valuation-service/internal/models"
	"valuation-service/internal/repository"

	"github.com/google/uuid"
)

// SubmissionService creates new valuation submissions. Every record starts
// life as pending, owned by the submitting user within the tenant.
type SubmissionService struct {
	shopRepo *repository.ShopValuationRepository
	flatRepo *repository.FlatValuationRepository
	apfRepo  *repository.APFValuationRepository
}

func NewSubmissionService(
	shopRepo *repository.ShopValuationRepository,
	flatRepo *repository.FlatValuationRepository,
	apfRepo *repository.APFValuationRepository,
) *SubmissionService {
	return &SubmissionService{
		shopRepo: shopRepo,
		flatRepo: flatRepo,
		apfRepo:  apfRepo,
	}
}

func (s *SubmissionService) CreateShop(ctx context.Context, fctx models.FetchContext, valuation *models.ShopValuation) error {
	stampSubmission(&valuation.UniqueID, &valuation.ClientID, &valuation.Username, &valuation.LastUpdatedBy, fctx)
	if err := s.shopRepo.Create(ctx, valuation); err != nil {
		return fmt.Errorf("failed to create shop submission: %w", err)
	}
	slog.Info("shop valuation submitted", "unique_id", valuation.UniqueID, "username", fctx.Username)
	return nil
}

func (s *SubmissionService) CreateFlat(ctx context.Context, fctx models.FetchContext, valuation *models.FlatValuation) error {
	stampSubmission(&valuation.UniqueID, &valuation.ClientID, &valuation.Username, &valuation.LastUpdatedBy, fctx)
	if err := s.flatRepo.Create(ctx, valuation); err != nil {
		return fmt.Errorf("failed to create flat submission: %w", err)
	}
	slog.Info("flat valuation submitted", "unique_id", valuation.UniqueID, "username", fctx.Username)
	return nil
}

func (s *SubmissionService) CreateAPF(ctx context.Context, fctx models.FetchContext, valuation *models.APFValuation) error {
	stampSubmission(&valuation.UniqueID, &valuation.ClientID, &valuation.Username, &valuation.LastUpdatedBy, fctx)
	if err := s.apfRepo.Create(ctx, valuation); err != nil {
		return fmt.Errorf("failed to create apf submission: %w", err)
	}
	slog.Info("apf valuation submitted", "unique_id", valuation.UniqueID, "username", fctx.Username)
	return nil
}

func stampSubmission(uniqueID, clientID, username, lastUpdatedBy *string, fctx models.FetchContext) {
	if *uniqueID == "" {
		*uniqueID = uuid.NewString()
	}
	*clientID = fctx.ClientID
	*username = fctx.Username
	*lastUpdatedBy = fctx.Username
}
