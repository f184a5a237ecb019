package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"outfit-studio/internal/models"
	"outfit-studio/internal/services"
)

const maxPhotoSize = 10 << 20

type TryOnRunner interface {
	UploadPhoto(userID uuid.UUID, data []byte, mimeType string) (string, string, error)
	TryOn(ctx context.Context, input services.TryOnInput) (*services.TryOnResult, error)
}

type TryOnHandler struct {
	service TryOnRunner
	logger  *zap.Logger
}

func NewTryOnHandler(service TryOnRunner, logger *zap.Logger) *TryOnHandler {
	return &TryOnHandler{service: service, logger: logger}
}

// UploadPhoto godoc
// @Summary     Upload a person photo
// @Tags        tryon
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       photo formData file true "Photo of the person"
// @Success     201 {object} models.PhotoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/photos [post]
func (h *TryOnHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	data, mimeType, err := readPhoto(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid photo",
			Message: err.Error(),
		})
		return
	}
	if data == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no photo uploaded"})
		return
	}

	photoID, url, err := h.service.UploadPhoto(userID, data, mimeType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to store photo",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.PhotoResponse{PhotoID: photoID, URL: url})
}

// TryOn godoc
// @Summary     Render the user in an outfit
// @Description Composites the uploaded photo (or a previously uploaded photo_id) with the outfit's
// @Description preview through the image API, stores the result and records it for the user.
// @Tags        tryon
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       outfit_id formData string true  "Outfit id (or name)"
// @Param       photo     formData file   false "Photo of the person"
// @Param       photo_id  formData string false "Previously uploaded photo"
// @Success     201 {object} models.TryOnResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/tryon [post]
func (h *TryOnHandler) TryOn(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	outfitID := c.PostForm("outfit_id")
	if outfitID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "outfit_id is required"})
		return
	}

	data, mimeType, err := readPhoto(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid photo",
			Message: err.Error(),
		})
		return
	}

	result, err := h.service.TryOn(c.Request.Context(), services.TryOnInput{
		UserID:    userID,
		OutfitID:  outfitID,
		Photo:     data,
		PhotoMime: mimeType,
		PhotoID:   c.PostForm("photo_id"),
	})
	switch {
	case errors.Is(err, services.ErrUnknownOutfit):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "outfit not found"})
		return
	case errors.Is(err, services.ErrMissingPhoto):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, services.ErrForeignPhoto):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		h.logger.Error("try-on failed",
			zap.String("user_id", userID.String()),
			zap.String("outfit_id", outfitID),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to generate image",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.TryOnResponse{
		ImageID:   result.ImageID,
		OutfitID:  result.OutfitID,
		ImageURL:  result.ImageURL,
		PhotoID:   result.PhotoID,
		CreatedAt: result.CreatedAt,
	})
}

// readPhoto returns the "photo" form file, or nil data when none was sent.
func readPhoto(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse multipart form: %w", err)
	}
	if fileHeader.Size > maxPhotoSize {
		return nil, "", fmt.Errorf("photo exceeds %d bytes", maxPhotoSize)
	}
	return readFormFile(fileHeader)
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}
