package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales_management/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales invoices.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
	hideErrors   bool
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger, hideErrors bool) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
		hideErrors:   hideErrors,
	}
}

type invoiceItemRequest struct {
	ProductID uint             `json:"ProductID" binding:"required"`
	Quantity  *decimal.Decimal `json:"Quantity" binding:"required"`
	Rate      *decimal.Decimal `json:"Rate" binding:"required"`
	Discount  *decimal.Decimal `json:"Discount" binding:"required"`
	Amount    *decimal.Decimal `json:"Amount" binding:"required"`
}

type createInvoiceRequest struct {
	CustomerID  uint                 `json:"CustomerId" binding:"required"`
	Address     string               `json:"Address"`
	TotalQty    *decimal.Decimal     `json:"TotalQty" binding:"required"`
	TotalAmount *decimal.Decimal     `json:"TotalAmount" binding:"required"`
	Items       []invoiceItemRequest `json:"Items" binding:"required,dive"`
}

func (r createInvoiceRequest) input() sales.CreateInvoiceInput {
	in := sales.CreateInvoiceInput{
		CustomerID:  r.CustomerID,
		Address:     r.Address,
		TotalQty:    *r.TotalQty,
		TotalAmount: *r.TotalAmount,
		Items:       make([]sales.LineItemInput, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		line := sales.LineItemInput{
			ProductID: it.ProductID,
			Quantity:  *it.Quantity,
			Rate:      *it.Rate,
			Discount:  *it.Discount,
			Amount:    *it.Amount,
		}
		in.Items = append(in.Items, line)
	}
	return in
}

// handleCreateInvoice handles the POST /api/sales-invoices endpoint.
func (h *salesHandler) handleCreateInvoice(ctx *gin.Context) {
	var req createInvoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request payload", "error": err.Error()})
		return
	}

	txnNo, err := h.salesService.CreateInvoice(ctx.Request.Context(), req.input())
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrEmptyInvoice),
			errors.Is(err, sales.ErrTotalsMismatch):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error creating sales invoice", "error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating sales invoice", "error": errorText(err, h.hideErrors)})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"txnNo":   txnNo,
		"message": "Sales invoice created successfully",
	})
}

// handleListInvoices handles GET /api/sales-invoices with optional limit/offset paging.
func (h *salesHandler) handleListInvoices(ctx *gin.Context) {
	opts, ok := listOptions(ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit and offset must be non-negative integers"})
		return
	}

	invoices, err := h.salesService.ListInvoices(ctx.Request.Context(), opts)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching sales invoices", "error": errorText(err, h.hideErrors)})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": invoices})
}

func (h *salesHandler) handleGetInvoice(ctx *gin.Context) {
	txnNo, ok := parseID(ctx, "txnNo")
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid transaction number"})
		return
	}

	invoice, err := h.salesService.GetInvoice(ctx.Request.Context(), txnNo)
	if err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Sales invoice not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errorText(err, h.hideErrors)})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
}

func listOptions(ctx *gin.Context) (sales.ListOptions, bool) {
	var opts sales.ListOptions
	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, false
		}
		opts.Limit = n
	}
	if v := ctx.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, false
		}
		opts.Offset = n
	}
	return opts, true
}
