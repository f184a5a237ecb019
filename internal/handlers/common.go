package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"outfit-studio/internal/middleware"
	"outfit-studio/internal/models"
)

// UserStore is the part of the database client the account handlers use.
type UserStore interface {
	CreateUser(ctx context.Context, email, name, gender, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// ImageStore persists generated image records.
type ImageStore interface {
	CreateGeneratedImage(ctx context.Context, image *models.GeneratedImage) error
	ListGeneratedImages(ctx context.Context, userID uuid.UUID) ([]models.GeneratedImage, error)
	DeleteGeneratedImage(ctx context.Context, userID uuid.UUID, imageID string) (*models.GeneratedImage, error)
}

// currentUser reads the authenticated user id, answering 401 when it is
// missing or malformed.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}
	return userID, true
}

func generatedRecords(images []models.GeneratedImage) []models.GeneratedRecord {
	records := make([]models.GeneratedRecord, len(images))
	for i, image := range images {
		records[i] = image.Record()
	}
	return records
}

func buildProfile(user *models.User, images []models.GeneratedImage) models.ProfileResponse {
	return models.ProfileResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Name:          user.Name,
		Gender:        user.Gender.String,
		CreatedImages: generatedRecords(images),
	}
}
