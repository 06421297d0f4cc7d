package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/apperrors"
	portssvc "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/ports/services"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/dto"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// analyticsHandler handles HTTP requests for the financial-analysis
// dashboard projections.
type analyticsHandler struct {
	analyticsService portssvc.AnalyticsService
}

func newAnalyticsHandler(as portssvc.AnalyticsService) *analyticsHandler {
	return &analyticsHandler{analyticsService: as}
}

// registerAnalyticsRoutes registers the per-project analytics routes.
func registerAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsService) {
	h := newAnalyticsHandler(analyticsService)

	analyticsGroup := rg.Group("/projects/:project_id/analytics")
	{
		analyticsGroup.GET("/kpis", h.getKPIs)
		analyticsGroup.GET("/cashflow", h.getCashFlow)
		analyticsGroup.GET("/budget-vs-actual", h.getBudgetVsActual)
		analyticsGroup.GET("/variance", h.getVariance)
		analyticsGroup.GET("/waterfall", h.getWaterfall)
		analyticsGroup.POST("/scenario", h.postScenario)
	}
}

// bindRequest extracts the project id and filter query common to every
// analytics route; it writes the error response itself and reports success.
func (h *analyticsHandler) bindRequest(c *gin.Context) (string, dto.AnalyticsFilterQuery, bool) {
	var query dto.AnalyticsFilterQuery
	projectID := c.Param("project_id")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID required in path"})
		return "", query, false
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid analytics query",
			slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return "", query, false
	}
	return projectID, query, true
}

func (h *analyticsHandler) respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStaleLoad):
		logger.Info("Stale project load discarded")
		c.JSON(http.StatusConflict, gin.H{"error": "A newer project selection superseded this request"})
	default:
		logger.Error("Analytics request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
	}
}

// getKPIs godoc
// @Summary Get the KPI snapshot
// @Description Derives the earned-value KPI snapshot for one (project, filter) evaluation
// @Tags analytics
// @Produce json
// @Param project_id path string true "Project ID"
// @Param phases query string false "Comma-separated phase ids"
// @Param status query string false "Invoice status filter" Enums(all, draft, sent, paid, overdue, partial)
// @Param currency query string false "Display currency code"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.KPIResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /projects/{project_id}/analytics/kpis [get]
func (h *analyticsHandler) getKPIs(c *gin.Context) {
	projectID, query, ok := h.bindRequest(c)
	if !ok {
		return
	}
	report, err := h.analyticsService.KPIs(c.Request.Context(), projectID, query.ToAnalyticsQuery())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToKPIResponse(report))
}

// getCashFlow godoc
// @Summary Get the time-bucketed cash-flow series
// @Description Buckets filtered records by month (most recent 6) or quarter (most recent 4) with drill-down provenance
// @Tags analytics
// @Produce json
// @Param project_id path string true "Project ID"
// @Param view query string false "Bucketing granularity" Enums(monthly, quarterly) default(monthly)
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /projects/{project_id}/analytics/cashflow [get]
func (h *analyticsHandler) getCashFlow(c *gin.Context) {
	projectID, query, ok := h.bindRequest(c)
	if !ok {
		return
	}
	series, err := h.analyticsService.CashFlow(c.Request.Context(), projectID, query.ToAnalyticsQuery(), query.View)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(series))
}

// getBudgetVsActual godoc
// @Summary Get the per-phase budget vs actual comparison
// @Tags analytics
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {array} dto.BudgetActualRowResponse
// @Router /projects/{project_id}/analytics/budget-vs-actual [get]
func (h *analyticsHandler) getBudgetVsActual(c *gin.Context) {
	projectID, query, ok := h.bindRequest(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.BudgetVsActual(c.Request.Context(), projectID, query.ToAnalyticsQuery())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetActualResponse(rows))
}

// getVariance godoc
// @Summary Get the per-phase variance table
// @Tags analytics
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {array} dto.VarianceRowResponse
// @Router /projects/{project_id}/analytics/variance [get]
func (h *analyticsHandler) getVariance(c *gin.Context) {
	projectID, query, ok := h.bindRequest(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.Variance(c.Request.Context(), projectID, query.ToAnalyticsQuery())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVarianceResponse(rows))
}

// getWaterfall godoc
// @Summary Get the change-order waterfall
// @Description Bridges the baseline BAC through each change order to the hybrid EAC
// @Tags analytics
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {array} dto.WaterfallStepResponse
// @Router /projects/{project_id}/analytics/waterfall [get]
func (h *analyticsHandler) getWaterfall(c *gin.Context) {
	projectID, query, ok := h.bindRequest(c)
	if !ok {
		return
	}
	steps, err := h.analyticsService.Waterfall(c.Request.Context(), projectID, query.ToAnalyticsQuery())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWaterfallResponse(steps))
}

// postScenario godoc
// @Summary Run a what-if scenario
// @Description Applies parametric perturbations to the baseline KPI snapshot and returns both snapshots side by side
// @Tags analytics
// @Accept json
// @Produce json
// @Param project_id path string true "Project ID"
// @Param request body dto.ScenarioRequest true "Adjustment parameters"
// @Success 200 {object} dto.ScenarioResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /projects/{project_id}/analytics/scenario [post]
func (h *analyticsHandler) postScenario(c *gin.Context) {
	projectID, query, ok := h.bindRequest(c)
	if !ok {
		return
	}
	var req dto.ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid scenario request",
			slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scenario body: " + err.Error()})
		return
	}
	result, err := h.analyticsService.Scenario(c.Request.Context(), projectID, query.ToAnalyticsQuery(), req.ToAdjustments())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToScenarioResponse(result))
}
