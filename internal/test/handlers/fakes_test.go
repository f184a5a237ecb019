package handlers_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"outfit-studio/internal/middleware"
	"outfit-studio/internal/models"
	"outfit-studio/internal/supabase"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*models.User)}
}

func (f *fakeUsers) CreateUser(ctx context.Context, email, name, gender, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[email]; exists {
		return nil, supabase.ErrEmailTaken
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Gender:       sql.NullString{String: gender, Valid: gender != ""},
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[email] = user
	return user, nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, supabase.ErrNotFound
}

func (f *fakeUsers) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, supabase.ErrNotFound
}

type fakeImages struct {
	mu     sync.Mutex
	images []models.GeneratedImage
	err    error
}

func (f *fakeImages) CreateGeneratedImage(ctx context.Context, image *models.GeneratedImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.images = append(f.images, *image)
	return nil
}

func (f *fakeImages) ListGeneratedImages(ctx context.Context, userID uuid.UUID) ([]models.GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.GeneratedImage
	for _, image := range f.images {
		if image.UserID == userID {
			out = append(out, image)
		}
	}
	return out, nil
}

func (f *fakeImages) DeleteGeneratedImage(ctx context.Context, userID uuid.UUID, imageID string) (*models.GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, image := range f.images {
		if image.UserID == userID && image.ImageID == imageID {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return &image, nil
		}
	}
	return nil, supabase.ErrNotFound
}

type fakeFiles struct {
	deleted []string
	err     error
}

func (f *fakeFiles) GetPublicURL(storagePath string) string {
	return "https://storage.test/" + storagePath
}

func (f *fakeFiles) DeleteFile(storagePath string) error {
	f.deleted = append(f.deleted, storagePath)
	return f.err
}

// asUser stands in for the auth middleware.
func asUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
		c.Next()
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
