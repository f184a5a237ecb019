package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"outfit-studio/internal/models"
	"outfit-studio/internal/supabase"
)

// FileStore is the part of object storage the image handlers use.
type FileStore interface {
	GetPublicURL(storagePath string) string
	DeleteFile(storagePath string) error
}

type ImagesHandler struct {
	images ImageStore
	files  FileStore
	logger *zap.Logger
}

func NewImagesHandler(images ImageStore, files FileStore, logger *zap.Logger) *ImagesHandler {
	return &ImagesHandler{images: images, files: files, logger: logger}
}

// RecordImage godoc
// @Summary     Record a generated image
// @Tags        images
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.RecordImageRequest true "Image and outfit ids"
// @Success     201 {object} models.ImageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/images [post]
func (h *ImagesHandler) RecordImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.RecordImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	image := &models.GeneratedImage{
		ID:        uuid.New(),
		UserID:    userID,
		ImageID:   strings.TrimSpace(req.ImageID),
		OutfitID:  strings.TrimSpace(req.OutfitID),
		CreatedAt: time.Now(),
	}
	if req.StoragePath != "" {
		if !supabase.InFolder(req.StoragePath, supabase.GeneratedPath(userID, "")) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid storage path",
				Message: "storage path must be inside the user's generated folder",
			})
			return
		}
		image.StoragePath = req.StoragePath
		image.StorageURL = h.files.GetPublicURL(req.StoragePath)
	}

	if err := h.images.CreateGeneratedImage(c.Request.Context(), image); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to record image",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, imageResponse(*image))
}

// ListImages godoc
// @Summary     List the user's generated images
// @Tags        images
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ImagesResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/images [get]
func (h *ImagesHandler) ListImages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	images, err := h.images.ListGeneratedImages(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list images",
			Message: err.Error(),
		})
		return
	}

	response := models.ImagesResponse{Images: make([]models.ImageResponse, len(images))}
	for i, image := range images {
		response.Images[i] = imageResponse(image)
	}
	c.JSON(http.StatusOK, response)
}

// DeleteImage godoc
// @Summary     Delete a generated image
// @Description Removes the record and, when stored by this service, the image file.
// @Tags        images
// @Security    Bearer
// @Param       image_id path string true "Image ID"
// @Success     204
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/images/{image_id} [delete]
func (h *ImagesHandler) DeleteImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	image, err := h.images.DeleteGeneratedImage(c.Request.Context(), userID, c.Param("image_id"))
	if errors.Is(err, supabase.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "image not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete image",
			Message: err.Error(),
		})
		return
	}

	// The record is gone either way; a leftover file is only logged.
	switch {
	case image.StoragePath == "":
	case !supabase.InFolder(image.StoragePath, supabase.GeneratedPath(userID, "")):
		h.logger.Warn("refusing to delete file outside the user's folder",
			zap.String("path", image.StoragePath))
	default:
		if err := h.files.DeleteFile(image.StoragePath); err != nil {
			h.logger.Warn("failed to delete image file",
				zap.String("path", image.StoragePath),
				zap.Error(err))
		}
	}

	c.Status(http.StatusNoContent)
}

func imageResponse(image models.GeneratedImage) models.ImageResponse {
	return models.ImageResponse{
		ImageID:    image.ImageID,
		OutfitID:   image.OutfitID,
		StorageURL: image.StorageURL,
		CreatedAt:  image.CreatedAt,
	}
}
