package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"outfit-studio/internal/imagegen"
	"outfit-studio/internal/models"
	"outfit-studio/internal/supabase"
)

var (
	ErrUnknownOutfit = errors.New("outfit not found")
	ErrMissingPhoto  = errors.New("a photo or photo id is required")
	ErrForeignPhoto  = errors.New("photo does not belong to user")
)

const (
	maxEditAttempts = 3
	maxOutfitImage  = 20 << 20
)

type ObjectStore interface {
	UploadFile(storagePath, contentType string, data []byte) (string, error)
	DownloadFile(storagePath string) ([]byte, error)
	DeleteFile(storagePath string) error
}

type ImageEditor interface {
	Edit(ctx context.Context, req imagegen.EditRequest) ([]byte, error)
	RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error
}

type OutfitFinder interface {
	GetOutfit(ctx context.Context, key string) (*models.RemoteOutfit, error)
}

type GeneratedImageRecorder interface {
	CreateGeneratedImage(ctx context.Context, image *models.GeneratedImage) error
}

// TryOnService runs the composite workflow: store the user's photo, render
// the photo with the outfit, store the result and record it for the user.
type TryOnService struct {
	editor   ImageEditor
	store    ObjectStore
	outfits  OutfitFinder
	recorder GeneratedImageRecorder
	// httpClient fetches outfit previews stored as absolute URLs.
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTryOnService(
	editor ImageEditor,
	store ObjectStore,
	outfits OutfitFinder,
	recorder GeneratedImageRecorder,
	logger *zap.Logger,
) *TryOnService {
	return &TryOnService{
		editor:     editor,
		store:      store,
		outfits:    outfits,
		recorder:   recorder,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type TryOnInput struct {
	UserID    uuid.UUID
	OutfitID  string
	Photo     []byte
	PhotoMime string
	// PhotoID reuses a previously uploaded photo when Photo is empty.
	PhotoID string
}

type TryOnResult struct {
	ImageID   string
	OutfitID  string
	ImageURL  string
	PhotoID   string
	CreatedAt time.Time
}

// UploadPhoto stores a user photo and returns its storage path and URL.
func (s *TryOnService) UploadPhoto(userID uuid.UUID, data []byte, mimeType string) (string, string, error) {
	if len(data) == 0 {
		return "", "", ErrMissingPhoto
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	path := supabase.PhotoPath(userID, uuid.New().String()+extensionFor(mimeType))
	url, err := s.store.UploadFile(path, mimeType, data)
	if err != nil {
		return "", "", err
	}
	return path, url, nil
}

func (s *TryOnService) TryOn(ctx context.Context, input TryOnInput) (*TryOnResult, error) {
	outfit, err := s.outfits.GetOutfit(ctx, input.OutfitID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrUnknownOutfit
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up outfit: %w", err)
	}

	photo, photoMime, photoID, uploaded, err := s.resolvePhoto(input)
	if err != nil {
		return nil, err
	}
	done := false
	if uploaded {
		defer func() {
			if !done {
				s.discard(photoID, "failed to clean up uploaded photo")
			}
		}()
	}

	outfitImage, err := s.outfitImage(ctx, outfit.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load outfit image: %w", err)
	}

	var composite []byte
	err = s.editor.RetryWithBackoff(ctx, func() error {
		var err error
		composite, err = s.editor.Edit(ctx, imagegen.EditRequest{
			Person: imagegen.InputImage{Filename: "person" + extensionFor(photoMime), MimeType: photoMime, Data: photo},
			Outfit: imagegen.InputImage{Filename: "outfit.png", Data: outfitImage},
		})
		return err
	}, maxEditAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	imageID := uuid.New().String()
	storagePath := supabase.GeneratedPath(input.UserID, imageID+".png")
	imageURL, err := s.store.UploadFile(storagePath, "image/png", composite)
	if err != nil {
		return nil, err
	}

	record := &models.GeneratedImage{
		ID:          uuid.New(),
		UserID:      input.UserID,
		ImageID:     imageID,
		OutfitID:    outfit.Key(),
		StoragePath: storagePath,
		StorageURL:  imageURL,
		CreatedAt:   time.Now(),
	}
	if err := s.recorder.CreateGeneratedImage(ctx, record); err != nil {
		s.discard(storagePath, "failed to clean up unrecorded image")
		return nil, err
	}
	done = true

	s.logger.Info("generated try-on image",
		zap.String("user_id", input.UserID.String()),
		zap.String("outfit_id", record.OutfitID),
		zap.String("image_id", imageID))

	return &TryOnResult{
		ImageID:   imageID,
		OutfitID:  record.OutfitID,
		ImageURL:  imageURL,
		PhotoID:   photoID,
		CreatedAt: record.CreatedAt,
	}, nil
}

// resolvePhoto returns the person photo of input. uploaded is true when the
// photo was stored by this call.
func (s *TryOnService) resolvePhoto(input TryOnInput) (photo []byte, mimeType, photoID string, uploaded bool, err error) {
	if len(input.Photo) > 0 {
		photoID, _, err = s.UploadPhoto(input.UserID, input.Photo, input.PhotoMime)
		if err != nil {
			return nil, "", "", false, err
		}
		mimeType = input.PhotoMime
		if mimeType == "" {
			mimeType = http.DetectContentType(input.Photo)
		}
		return input.Photo, mimeType, photoID, true, nil
	}

	if input.PhotoID == "" {
		return nil, "", "", false, ErrMissingPhoto
	}
	if !supabase.InFolder(input.PhotoID, supabase.PhotoPath(input.UserID, "")) {
		return nil, "", "", false, ErrForeignPhoto
	}
	photo, err = s.store.DownloadFile(input.PhotoID)
	if err != nil {
		return nil, "", "", false, fmt.Errorf("failed to load photo: %w", err)
	}
	return photo, http.DetectContentType(photo), input.PhotoID, false, nil
}

// outfitImage loads an outfit preview. Absolute http(s) references are
// fetched directly, anything else is a path in the bucket.
func (s *TryOnService) outfitImage(ctx context.Context, file string) ([]byte, error) {
	if !strings.HasPrefix(file, "http://") && !strings.HasPrefix(file, "https://") {
		return s.store.DownloadFile(file)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", file, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxOutfitImage))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func (s *TryOnService) discard(storagePath, msg string) {
	if err := s.store.DeleteFile(storagePath); err != nil {
		s.logger.Warn(msg, zap.String("path", storagePath), zap.Error(err))
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
