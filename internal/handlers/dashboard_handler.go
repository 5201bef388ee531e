package handlers

import (
	"net/http"
	"strconv"

	"valuation-service/internal/models"
	"valuation-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type DashboardHandler struct {
	DashboardService *services.DashboardService
	ValuationService *services.ValuationService
	Tracker          *services.DurationTracker
}

func NewDashboardHandler(dashboardService *services.DashboardService, valuationService *services.ValuationService, tracker *services.DurationTracker) *DashboardHandler {
	return &DashboardHandler{
		DashboardService: dashboardService,
		ValuationService: valuationService,
		Tracker:          tracker,
	}
}

func (h *DashboardHandler) Register(app *fiber.App) {
	protectedGr := app.Group("valuation/protected/api/v1")

	dashboardGr := protectedGr.Group("/dashboard")
	dashboardGr.Get("/", h.GetDashboard)
	dashboardGr.Post("/refresh", h.RefreshDashboard)
	dashboardGr.Get("/permissions/:family/:uniqueId", h.GetPermissions)
}

// fetchContextFrom reads the acting identity from the gateway headers.
func fetchContextFrom(c fiber.Ctx) (models.FetchContext, bool) {
	username := c.Get("X-User-ID")
	clientID := c.Get("X-Client-ID")
	role, ok := models.ParseRole(c.Get("X-User-Role"))
	if username == "" || clientID == "" || !ok {
		return models.FetchContext{}, false
	}
	return models.FetchContext{Username: username, Role: role, ClientID: clientID}, true
}

func (h *DashboardHandler) GetDashboard(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	query, ok := dashboardQueryFrom(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("BAD_REQUEST", "Unknown status filter"))
	}

	// Serve a cached snapshot on a cold start; refresh when nothing at all
	// is known for this actor's scope yet.
	if len(h.DashboardService.ScopedSnapshot(fctx)) == 0 {
		if !h.DashboardService.RestoreFromCache(c.Context(), fctx) {
			h.DashboardService.Refresh(c.Context(), fctx)
		}
	}

	page := h.DashboardService.GetPage(fctx, query, h.Tracker.Durations())
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(page))
}

func (h *DashboardHandler) RefreshDashboard(c fiber.Ctx) error {
	fctx, ok := fetchContextFrom(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("UNAUTHORIZED", "User identity headers are required"))
	}

	count := h.DashboardService.Refresh(c.Context(), fctx)
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(fiber.Map{
		"records": count,
	}))
}

func (h *DashboardHandler) GetPermissions(c fiber.Ctx) error {
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

	record, err := h.ValuationService.GetRecord(c.Context(), fctx, family, c.Params("uniqueId"))
	if err != nil {
		return respondMutationError(c, err)
	}

	permissions := services.PermissionsFor(fctx.Role, record.RawStatus)
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(permissions))
}

// parseStatusFilter maps the raw status query value onto a filter. An absent
// value means no constraint; a value outside the closed enum is rejected
// rather than silently matching everything.
func parseStatusFilter(raw string) (*models.Status, bool) {
	if raw == "" {
		return nil, true
	}
	status, ok := models.NormalizeStatus(raw)
	if !ok {
		return nil, false
	}
	return &status, true
}

func dashboardQueryFrom(c fiber.Ctx) (models.DashboardQuery, bool) {
	var filters models.DashboardFilters
	status, ok := parseStatusFilter(c.Query("status"))
	if !ok {
		return models.DashboardQuery{}, false
	}
	filters.Status = status
	if city := c.Query("city"); city != "" {
		filters.City = &city
	}
	if bank := c.Query("bank_name"); bank != "" {
		filters.BankName = &bank
	}
	if engineer := c.Query("engineer_name"); engineer != "" {
		filters.EngineerName = &engineer
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	order := models.SortAsc
	if c.Query("sort_order") == string(models.SortDesc) {
		order = models.SortDesc
	}

	return models.DashboardQuery{
		Filters:    filters,
		SortField:  models.SortField(c.Query("sort_field")),
		SortOrder:  order,
		ToggleSort: models.SortField(c.Query("toggle_sort")),
		Page:       page,
	}, true
}
