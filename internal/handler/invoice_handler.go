package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/pdf"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/pagination"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	draftService   service.DraftService
	invoiceService service.InvoiceService
	auth           *middleware.Auth
}

func NewInvoiceHandler(draftService service.DraftService, invoiceService service.InvoiceService, auth *middleware.Auth) *InvoiceHandler {
	return &InvoiceHandler{draftService: draftService, invoiceService: invoiceService, auth: auth}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := h.auth.RequireRole(model.RoleAdmin, model.RoleSales, model.RoleStockman)
	salesRoles := h.auth.RequireRole(model.RoleAdmin, model.RoleSales)

	drafts := router.Group("/api/drafts", salesRoles)
	{
		drafts.GET("", h.ListDrafts)
		drafts.POST("", h.StartDraft)
		drafts.GET("/:id", h.GetDraft)
		drafts.PUT("/:id", h.UpdateDraft)
		drafts.PUT("/:id/customer", h.SetCustomer)
		drafts.POST("/:id/items", h.AddItem)
		drafts.DELETE("/:id/items/:itemId", h.RemoveItem)
		drafts.POST("/:id/commit", h.Commit)
		drafts.DELETE("/:id", h.Discard)
	}

	invoices := router.Group("/api/invoices")
	{
		invoices.GET("", anyRole, h.ListInvoices)
		invoices.GET("/:id", anyRole, h.GetInvoice)
		invoices.GET("/:id/pdf", anyRole, h.DownloadPDF)
		invoices.POST("/:id/edit", salesRoles, h.StartEdit)
		invoices.POST("/:id/confirm", h.auth.RequireRole(model.RoleStockman), h.ConfirmShipment)
		invoices.PUT("/:id/accounting", h.auth.RequireRole(model.RoleAdmin), h.SetAccountingDone)
		invoices.DELETE("/:id", anyRole, h.DeleteInvoice)
	}
}

// --- Drafts ---

// ListDrafts returns the caller's open drafts (all drafts for admins)
// @Summary      List drafts
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.InvoiceDraft}
// @Router       /api/drafts [get]
func (h *InvoiceHandler) ListDrafts(c *gin.Context) {
	drafts, err := h.draftService.ListDrafts(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, drafts))
}

// StartDraft opens a new invoice draft
// @Summary      Start draft
// @Tags         drafts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StartDraftRequest  true  "Draft type"
// @Success      201      {object}  response.Response{data=model.InvoiceDraft}
// @Router       /api/drafts [post]
func (h *InvoiceHandler) StartDraft(c *gin.Context) {
	var req service.StartDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	draft, err := h.draftService.StartDraft(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, draft))
}

// GetDraft returns a draft with its items
// @Summary      Get draft
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  response.Response{data=model.InvoiceDraft}
// @Router       /api/drafts/{id} [get]
func (h *InvoiceHandler) GetDraft(c *gin.Context) {
	draft, err := h.draftService.GetDraft(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}

// UpdateDraft edits draft metadata (description, delivery override)
// @Summary      Update draft
// @Tags         drafts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Draft ID"
// @Param        payload  body      service.UpdateDraftRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=model.InvoiceDraft}
// @Router       /api/drafts/{id} [put]
func (h *InvoiceHandler) UpdateDraft(c *gin.Context) {
	var req service.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	draft, err := h.draftService.UpdateDraft(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}

// SetCustomer snapshots the selected customer onto the draft
// @Summary      Select draft customer
// @Tags         drafts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Draft ID"
// @Param        payload  body      service.SetCustomerRequest  true  "Customer"
// @Success      200      {object}  response.Response{data=model.InvoiceDraft}
// @Router       /api/drafts/{id}/customer [put]
func (h *InvoiceHandler) SetCustomer(c *gin.Context) {
	var req service.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	draft, err := h.draftService.SetCustomer(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}

// AddItem reserves stock for a line item and adds it to the draft
// @Summary      Add draft item
// @Tags         drafts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Draft ID"
// @Param        payload  body      service.AddItemRequest  true  "Item"
// @Success      200      {object}  response.Response{data=model.InvoiceDraft}
// @Failure      409      {object}  response.Response  "Insufficient stock"
// @Router       /api/drafts/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	draft, err := h.draftService.AddItem(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}

// RemoveItem releases the item's reservation and removes the line
// @Summary      Remove draft item
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true  "Draft ID"
// @Param        itemId  path      string  true  "Item ID"
// @Success      200     {object}  response.Response{data=model.InvoiceDraft}
// @Router       /api/drafts/{id}/items/{itemId} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	draft, err := h.draftService.RemoveItem(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}

// Commit finalizes the draft into a PENDING invoice or applies the edit
// @Summary      Commit draft
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      201  {object}  response.Response{data=model.Invoice}
// @Failure      400  {object}  response.Response  "Empty draft or no customer"
// @Router       /api/drafts/{id}/commit [post]
func (h *InvoiceHandler) Commit(c *gin.Context) {
	invoice, err := h.draftService.Commit(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// Discard abandons the draft and reverses its stock adjustments
// @Summary      Discard draft
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  response.Response
// @Router       /api/drafts/{id} [delete]
func (h *InvoiceHandler) Discard(c *gin.Context) {
	if err := h.draftService.Discard(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "draft discarded"}))
}

// --- Invoices ---

// ListInvoices returns invoices filtered by status and type
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "PENDING or SHIPPED"
// @Param        type    query     string  false  "INCOMING or OUTGOING"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), service.InvoiceListFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetInvoice returns one invoice with its items
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DownloadPDF streams the invoice as a delivery note PDF
// @Summary      Invoice PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  string  true  "Invoice ID"
// @Success      200
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	invoice, err := h.invoiceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	data, err := pdf.RenderDeliveryNote(invoice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to render PDF: "+err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.DisplayID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// StartEdit opens an edit session over a PENDING invoice
// @Summary      Start invoice edit
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      201  {object}  response.Response{data=model.InvoiceDraft}
// @Failure      409  {object}  response.Response  "Edit session already open"
// @Router       /api/invoices/{id}/edit [post]
func (h *InvoiceHandler) StartEdit(c *gin.Context) {
	draft, err := h.draftService.StartEdit(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, draft))
}

// ConfirmShipment flips a PENDING invoice to SHIPPED
// @Summary      Confirm shipment
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true   "Invoice ID"
// @Param        payload  body      service.ConfirmShipmentRequest  false  "Up to 3 image references"
// @Success      200      {object}  response.Response{data=model.Invoice}
// @Failure      409      {object}  response.Response  "Already shipped"
// @Router       /api/invoices/{id}/confirm [post]
func (h *InvoiceHandler) ConfirmShipment(c *gin.Context) {
	var req service.ConfirmShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.ConfirmShipment(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// SetAccountingDone toggles the accounting flag
// @Summary      Set accounting flag
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id    path      string  true  "Invoice ID"
// @Param        done  query     bool    true  "Flag value"
// @Success      200   {object}  response.Response{data=model.Invoice}
// @Router       /api/invoices/{id}/accounting [put]
func (h *InvoiceHandler) SetAccountingDone(c *gin.Context) {
	done, err := strconv.ParseBool(c.DefaultQuery("done", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid done flag"))
		return
	}

	invoice, err := h.invoiceService.SetAccountingDone(c.Request.Context(), actorFrom(c), c.Param("id"), done)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes an invoice; a PENDING invoice's reserved stock is
// returned, a SHIPPED one's is left as is
// @Summary      Delete invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response  "Edit session open"
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "invoice deleted"}))
}
