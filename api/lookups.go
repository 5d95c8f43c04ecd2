package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_management/internal/lookups"
)

// lookupHandler serves CRUD for one lookup table.
type lookupHandler struct {
	lookups    *lookups.Service
	kind       lookups.Kind
	label      string
	logger     *zap.Logger
	hideErrors bool
}

func newLookupHandler(svc *lookups.Service, kind lookups.Kind, label string, logger *zap.Logger, hideErrors bool) *lookupHandler {
	return &lookupHandler{lookups: svc, kind: kind, label: label, logger: logger, hideErrors: hideErrors}
}

type lookupRequest struct {
	Name string `json:"Name"`
}

func (h *lookupHandler) handleList(c *gin.Context) {
	entries, err := h.lookups.List(c.Request.Context(), h.kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorText(err, h.hideErrors)})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *lookupHandler) handleCreate(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	id, err := h.lookups.Create(c.Request.Context(), h.kind, req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": h.label + " created successfully"})
}

func (h *lookupHandler) handleUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.lookups.Update(c.Request.Context(), h.kind, id, req.Name); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.label + " updated successfully"})
}

func (h *lookupHandler) handleDelete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.lookups.Delete(c.Request.Context(), h.kind, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.label + " deleted successfully"})
}

func (h *lookupHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lookups.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
	case errors.Is(err, lookups.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorText(err, h.hideErrors)})
	}
}
