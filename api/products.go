package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales_management/internal/lookups"
	"sales_management/internal/products"
)

type productHandler struct {
	products   *products.Service
	lookups    *lookups.Service
	logger     *zap.Logger
	hideErrors bool
}

func newProductHandler(svc *products.Service, lk *lookups.Service, logger *zap.Logger, hideErrors bool) *productHandler {
	return &productHandler{products: svc, lookups: lk, logger: logger, hideErrors: hideErrors}
}

type productRequest struct {
	Name         string          `json:"Name"`
	CategoryID   *uint           `json:"CategoryID"`
	BrandID      *uint           `json:"BrandID"`
	PurchaseRate decimal.Decimal `json:"PurchaseRate"`
	SalesRate    decimal.Decimal `json:"SalesRate"`
}

func (r productRequest) input() products.Input {
	return products.Input{
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		BrandID:      r.BrandID,
		PurchaseRate: r.PurchaseRate,
		SalesRate:    r.SalesRate,
	}
}

type productImageRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	ImagePath string `json:"imagePath" binding:"required"`
}

func (h *productHandler) handleList(c *gin.Context) {
	list, err := h.products.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorText(err, h.hideErrors)})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *productHandler) handleCreate(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	id, err := h.products.Create(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Product created successfully"})
}

func (h *productHandler) handleUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.products.Update(c.Request.Context(), id, req.input()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

func (h *productHandler) handleDelete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *productHandler) handleDropdowns(c *gin.Context) {
	data, err := h.lookups.ProductDropdowns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errorText(err, h.hideErrors)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// handleAddImage links an uploaded image path to a product.
func (h *productHandler) handleAddImage(c *gin.Context) {
	var req productImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId and imagePath are required"})
		return
	}

	id, err := h.products.AddImage(c.Request.Context(), req.ProductID, req.ImagePath)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
		case errors.Is(err, products.ErrImagePathRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errorText(err, h.hideErrors)})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

func (h *productHandler) handleListImages(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	images, err := h.products.Images(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorText(err, h.hideErrors)})
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *productHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, products.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, products.ErrNameRequired), errors.Is(err, products.ErrNegativeRate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorText(err, h.hideErrors)})
	}
}
