package handler

import (
	"errors"
	"fmt"
	"net/http"

	"crowdsight/internal/middleware"
	"crowdsight/internal/service"
	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead leaves room for boundaries and headers around the file
const multipartOverhead = 64 << 10

// UploadHandler accepts report images
type UploadHandler struct {
	service  service.ImageService
	maxBytes int64
	logger   *logrus.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(s service.ImageService, maxBytes int64, logger *logrus.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = service.MaxFileSize
	}
	return &UploadHandler{service: s, maxBytes: maxBytes, logger: logger}
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if !id.IsAuthenticated() {
		utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, "Authentication required")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondInvalid(c, fmt.Sprintf("%s (max %d bytes)", service.ErrFileSizeExceeded.Error(), h.maxBytes))
			return
		}
		respondInvalid(c, "No image file provided in field 'image'")
		return
	}
	if fileHeader.Size > h.maxBytes {
		respondInvalid(c, fmt.Sprintf("%s (max %d bytes)", service.ErrFileSizeExceeded.Error(), h.maxBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	img, err := h.service.ToDataURL(id, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "Image uploaded successfully", img)
}

// RegisterUploadRoutes registers upload routes
func (h *UploadHandler) RegisterUploadRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/image", h.UploadImage)
}
