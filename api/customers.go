package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_management/internal/customers"
	"sales_management/internal/lookups"
)

type customerHandler struct {
	customers  *customers.Service
	lookups    *lookups.Service
	logger     *zap.Logger
	hideErrors bool
}

func newCustomerHandler(svc *customers.Service, lk *lookups.Service, logger *zap.Logger, hideErrors bool) *customerHandler {
	return &customerHandler{customers: svc, lookups: lk, logger: logger, hideErrors: hideErrors}
}

type customerRequest struct {
	Name       string `json:"Name"`
	Address    string `json:"Address"`
	AreaID     *uint  `json:"AreaID"`
	CategoryID *uint  `json:"CategoryID"`
}

func (r customerRequest) input() customers.Input {
	return customers.Input{Name: r.Name, Address: r.Address, AreaID: r.AreaID, CategoryID: r.CategoryID}
}

func (h *customerHandler) handleList(c *gin.Context) {
	list, err := h.customers.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorText(err, h.hideErrors)})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *customerHandler) handleCreate(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	id, err := h.customers.Create(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Customer created successfully"})
}

func (h *customerHandler) handleUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.customers.Update(c.Request.Context(), id, req.input()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

func (h *customerHandler) handleDelete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// handleDropdowns serves the areas and customer categories for the customer form.
func (h *customerHandler) handleDropdowns(c *gin.Context) {
	data, err := h.lookups.CustomerDropdowns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errorText(err, h.hideErrors)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (h *customerHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customers.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case errors.Is(err, customers.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorText(err, h.hideErrors)})
	}
}
