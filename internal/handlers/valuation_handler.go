package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"valuation-service/internal/models"
	"valuation-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type ValuationHandler struct {
	ValuationService  *services.ValuationService
	SubmissionService *services.SubmissionService
}

func NewValuationHandler(valuationService *services.ValuationService, submissionService *services.SubmissionService) *ValuationHandler {
	return &ValuationHandler{
		ValuationService:  valuationService,
		SubmissionService: submissionService,
	}
}

func (h *ValuationHandler) Register(app *fiber.App) {
	protectedGr := app.Group("valuation/protected/api/v1")

	recordsGr := protectedGr.Group("/records")
	recordsGr.Post("/shop", h.CreateShop)
	recordsGr.Post("/flat", h.CreateFlat)
	recordsGr.Post("/apf", h.CreateAPF)
	recordsGr.Put("/:family/:uniqueId", h.SaveEdit)
	recordsGr.Post("/:family/:uniqueId/decision", h.SetDecision)
	recordsGr.Post("/:family/:uniqueId/rework", h.RequestRework)
}

func (h *ValuationHandler) CreateShop(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	var valuation models.ShopValuation
	if err := c.Bind().Body(&valuation); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	if err := h.SubmissionService.CreateShop(c.Context(), fctx, &valuation); err != nil {
		slog.Error("failed to create shop valuation", "username", fctx.Username, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			models.CreateErrorResponse("INTERNAL_SERVER_ERROR", "Failed to create valuation"))
	}
	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(valuation))
}

func (h *ValuationHandler) CreateFlat(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	var valuation models.FlatValuation
	if err := c.Bind().Body(&valuation); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	if err := h.SubmissionService.CreateFlat(c.Context(), fctx, &valuation); err != nil {
		slog.Error("failed to create flat valuation", "username", fctx.Username, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			models.CreateErrorResponse("INTERNAL_SERVER_ERROR", "Failed to create valuation"))
	}
	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(valuation))
}

func (h *ValuationHandler) CreateAPF(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	var valuation models.APFValuation
	if err := c.Bind().Body(&valuation); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	if err := h.SubmissionService.CreateAPF(c.Context(), fctx, &valuation); err != nil {
		slog.Error("failed to create apf valuation", "username", fctx.Username, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			models.CreateErrorResponse("INTERNAL_SERVER_ERROR", "Failed to create valuation"))
	}
	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(valuation))
}

func (h *ValuationHandler) SaveEdit(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	family, ok := models.ParseFormFamily(c.Params("family"))
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Unknown form family"))
	}

	var payload models.EditPayload
	if err := c.Bind().Body(&payload); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	updated, err := h.ValuationService.SaveEdit(c.Context(), fctx, family, c.Params("uniqueId"), payload)
	if err != nil {
		return respondMutationError(c, err)
	}
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(updated))
}

func (h *ValuationHandler) SetDecision(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	family, ok := models.ParseFormFamily(c.Params("family"))
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Unknown form family"))
	}

	var payload models.DecisionPayload
	if err := c.Bind().Body(&payload); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	decision, ok := models.NormalizeStatus(payload.Status)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Decision must be approved or rejected"))
	}

	updated, err := h.ValuationService.SetDecision(c.Context(), fctx, family, c.Params("uniqueId"), decision, payload.Feedback)
	if err != nil {
		return respondMutationError(c, err)
	}
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(updated))
}

func (h *ValuationHandler) RequestRework(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	family, ok := models.ParseFormFamily(c.Params("family"))
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Unknown form family"))
	}

	var payload models.ReworkPayload
	if err := c.Bind().Body(&payload); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	updated, err := h.ValuationService.RequestRework(c.Context(), fctx, family, c.Params("uniqueId"), payload.Comments)
	if err != nil {
		return respondMutationError(c, err)
	}
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(updated))
}

// respondMutationError maps workflow errors onto the consolidated error
// envelope. Local state is never mutated on failure; the caller keeps
// showing the prior confirmed state.
func respondMutationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(http.StatusForbidden).JSON(
			models.CreateErrorResponse("PERMISSION_DENIED", err.Error()))
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(http.StatusConflict).JSON(
			models.CreateErrorResponse("INVALID_TRANSITION", err.Error()))
	case errors.Is(err, services.ErrUnknownFormFamily):
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", err.Error()))
	case errors.Is(err, sql.ErrNoRows):
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("NOT_FOUND", "Record not found"))
	default:
		slog.Error("valuation mutation failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			models.CreateErrorResponse("INTERNAL_SERVER_ERROR", "Failed to update record"))
	}
}
