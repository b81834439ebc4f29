package handler

import (
	"errors"
	"net/http"

	"warehouse-backend/internal/imagegen"
	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler groups the settings, backup and image generation endpoints.
type AdminHandler struct {
	settingsService service.SettingsService
	backupService   service.BackupService
	imageService    imagegen.Service
	auth            *middleware.Auth
}

func NewAdminHandler(
	settingsService service.SettingsService,
	backupService service.BackupService,
	imageService imagegen.Service,
	auth *middleware.Auth,
) *AdminHandler {
	return &AdminHandler{
		settingsService: settingsService,
		backupService:   backupService,
		imageService:    imageService,
		auth:            auth,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := h.auth.RequireRole(model.RoleAdmin)

	settings := router.Group("/api/settings", adminOnly)
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
	}

	backup := router.Group("/api/backup", adminOnly)
	{
		backup.GET("/export", h.Export)
		backup.POST("/import", h.Import)
	}

	images := router.Group("/api/images", h.auth.RequireRole(model.RoleAdmin, model.RoleSales))
	{
		images.POST("/generate", h.GenerateImage)
	}
}

// GetSettings returns the runtime-editable application settings
// @Summary      Get settings
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.AppSettings}
// @Router       /api/settings [get]
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// UpdateSettings changes the upload URL or Telegram notification targets
// @Summary      Update settings
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateSettingsRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=model.AppSettings}
// @Router       /api/settings [put]
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// Export downloads a full data snapshot
// @Summary      Export backup
// @Tags         backup
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Backup}
// @Router       /api/backup/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	backup, err := h.backupService.Export(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=backup.json")
	c.JSON(http.StatusOK, backup)
}

// Import replaces all collections with the uploaded snapshot
// @Summary      Import backup
// @Tags         backup
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.Backup  true  "Snapshot"
// @Success      200      {object}  response.Response
// @Router       /api/backup/import [post]
func (h *AdminHandler) Import(c *gin.Context) {
	var backup service.Backup
	if err := c.ShouldBindJSON(&backup); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid backup payload: "+err.Error()))
		return
	}

	if err := h.backupService.Import(c.Request.Context(), actorFrom(c), &backup); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "backup imported"}))
}

// GenerateImage renders a product illustration from a prompt
// @Summary      Generate image
// @Tags         images
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      imagegen.GenerateRequest  true  "Prompt and size"
// @Success      200      {object}  response.Response{data=imagegen.GenerateResult}
// @Failure      422      {object}  response.Response  "Prompt blocked by safety filter"
// @Failure      429      {object}  response.Response  "Quota exceeded"
// @Router       /api/images/generate [post]
func (h *AdminHandler) GenerateImage(c *gin.Context) {
	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "Image generation is not configured"))
		return
	}

	var req imagegen.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.imageService.Generate(c.Request.Context(), req)
	if err != nil {
		writeImageGenError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func writeImageGenError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, imagegen.ErrSafetyBlocked):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, imagegen.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, imagegen.ErrInvalidCredential):
		status = http.StatusBadGateway
	case errors.Is(err, imagegen.ErrNetwork):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, response.Error(status, err.Error()))
}
