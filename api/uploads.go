package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_management/internal/uploads"
)

// multipartOverhead leaves room for boundaries and headers around the image part.
const multipartOverhead = 1 << 20

type uploadHandler struct {
	store  *uploads.Store
	logger *zap.Logger
}

func newUploadHandler(store *uploads.Store, logger *zap.Logger) *uploadHandler {
	return &uploadHandler{store: store, logger: logger}
}

// handleUpload stores the multipart "image" field and returns its public path.
func (h *uploadHandler) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.store.MaxBytes()+multipartOverhead)

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error uploading image"})
		return
	}
	defer src.Close()

	path, err := h.store.Save(file.Filename, file.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Only image files are allowed!"})
		case errors.Is(err, uploads.ErrFileTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File too large"})
		default:
			h.logger.Error("failed to store uploaded image", zap.String("file", file.Filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error uploading image"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"imagePath": path,
		"message":   "Image uploaded successfully",
	})
}
