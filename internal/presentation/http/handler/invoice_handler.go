package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// InvoiceHandler handles invoice adjustments, finalization and printing
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	printerService *service.PrinterService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, printerService *service.PrinterService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		printerService: printerService,
	}
}

// ApplyDiscount appends a discount and returns the recomputed invoice
// @Summary Apply discount
// @Tags invoice
// @Accept json
// @Produce json
// @Param request body request.ApplyDiscountRequest true "Discount"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoice/apply-discount [post]
func (h *InvoiceHandler) ApplyDiscount(c *gin.Context) {
	var req request.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	inv, err := h.invoiceService.ApplyDiscount(c.Request.Context(), &service.DiscountInput{
		InvoiceID:   req.InvoiceID,
		Type:        req.Type,
		Currency:    req.Currency,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied successfully", inv)
}

// ApplyVAT sets the VAT rate
func (h *InvoiceHandler) ApplyVAT(c *gin.Context) {
	var req request.ApplyVATRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	inv, err := h.invoiceService.ApplyVAT(c.Request.Context(), req.InvoiceID, req.VATRate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "VAT applied successfully", inv)
}

// Reset clears discounts and VAT
func (h *InvoiceHandler) Reset(c *gin.Context) {
	var req request.InvoiceRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	inv, err := h.invoiceService.Reset(c.Request.Context(), req.InvoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice reset successfully", inv)
}

// Finalize locks the invoice. The body is optional.
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.FinalizeInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}

	status := enum.InvoiceStatusPaid
	if req.Status != nil {
		status = *req.Status
	}

	inv, err := h.invoiceService.Finalize(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice finalized successfully", inv)
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", inv)
}

// List returns invoices, newest number first
func (h *InvoiceHandler) List(c *gin.Context) {
	var req request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{Pagination: pageParams(req.Page, req.PerPage)}
	if req.Status != "" {
		status, err := enum.ParseInvoiceStatus(req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Status = &status
	}
	if req.CustomerType != "" {
		customerType, err := enum.ParseCustomerType(req.CustomerType)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.CustomerType = &customerType
	}
	if req.ReservationID != "" {
		reservationID, err := uuid.Parse(req.ReservationID)
		if err != nil {
			response.BadRequest(c, "Invalid reservation_id")
			return
		}
		params.ReservationID = &reservationID
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Invoices retrieved successfully",
		pagination.NewPaginatedResult[entity.Invoice](invoices, params.Pagination, total))
}

// Print sends the invoice receipt to the configured printer
func (h *InvoiceHandler) Print(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintInvoice(c.Request.Context(), id)
	if err != nil {
		// The receipt was built, only the printer failed
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
		"printer": h.printerService.GetStatus(),
	})
}

// PrinterStatus reports the printer backend and whether it is reachable
func (h *InvoiceHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}
