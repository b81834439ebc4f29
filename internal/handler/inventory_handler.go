package handler

import (
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/pagination"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
	auth             *middleware.Auth
}

func NewInventoryHandler(inventoryService service.InventoryService, auth *middleware.Auth) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, auth: auth}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := h.auth.RequireRole(model.RoleAdmin, model.RoleSales, model.RoleStockman)
	adminOnly := h.auth.RequireRole(model.RoleAdmin)

	products := router.Group("/api/products")
	{
		products.GET("", anyRole, h.ListProducts)
		products.GET("/:id", anyRole, h.GetProduct)
		products.GET("/:id/movements", anyRole, h.ListMovements)
		products.POST("", adminOnly, h.CreateProduct)
		products.PUT("/:id", adminOnly, h.UpdateProduct)
		products.DELETE("/:id", adminOnly, h.DeleteProduct)
	}

	categories := router.Group("/api/categories")
	{
		categories.GET("", anyRole, h.ListCategories)
		categories.POST("", adminOnly, h.CreateCategory)
		categories.PUT("/:id", adminOnly, h.UpdateCategory)
		categories.DELETE("/:id", adminOnly, h.DeleteCategory)
	}
}

// ListProducts returns a paginated product list
// @Summary      List products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Param        category  query     string  false  "Filter by category name"
// @Param        search    query     string  false  "Search by product name"
// @Success      200       {object}  response.Response{data=object}
// @Router       /api/products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	params := pagination.Parse(c)

	products, total, err := h.inventoryService.ListProducts(c.Request.Context(), service.ProductListFilter{
		Page:     params.Page,
		Limit:    params.Limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetProduct returns a single product
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// ListMovements returns the product's stock ledger, newest first
// @Summary      Product stock movements
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Product ID"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Items per page"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	params := pagination.Parse(c)

	movements, total, err := h.inventoryService.ListMovements(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// CreateProduct creates a product
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Product"
// @Success      201      {object}  response.Response{data=model.Product}
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct updates product metadata; stock is not editable here
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=model.Product}
// @Router       /api/products/{id} [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct removes a product
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "product deleted"}))
}

// ListCategories returns all categories
// @Summary      List categories
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Category}
// @Router       /api/categories [get]
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.inventoryService.ListCategories(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// CreateCategory creates a category
// @Summary      Create category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CategoryRequest  true  "Category"
// @Success      201      {object}  response.Response{data=model.Category}
// @Router       /api/categories [post]
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.inventoryService.CreateCategory(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// UpdateCategory renames a category
// @Summary      Update category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Category ID"
// @Param        payload  body      service.CategoryRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=model.Category}
// @Router       /api/categories/{id} [put]
func (h *InventoryHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.inventoryService.UpdateCategory(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeleteCategory removes a category
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Router       /api/categories/{id} [delete]
func (h *InventoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.inventoryService.DeleteCategory(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "category deleted"}))
}
