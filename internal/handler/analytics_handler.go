package handler

import (
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	auth             *middleware.Auth
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, auth *middleware.Auth) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, auth: auth}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/api/analytics", h.auth.RequireRole(model.RoleAdmin, model.RoleSales, model.RoleStockman))
	{
		analytics.GET("", h.GetReport)
	}
}

// GetReport returns shipment analytics scoped to the caller's visibility
// @Summary      Shipment analytics
// @Description  Monthly shipment counts, per-customer frequency and product breakdown. Sales users see their own invoices only.
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.AnalyticsReport}
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	report, err := h.analyticsService.GetReport(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
