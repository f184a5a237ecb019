package supabase

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	"outfit-studio/internal/catalog"
)

// ErrInvalidPath is returned for object paths that are absolute or contain
// empty, "." or ".." segments.
var ErrInvalidPath = errors.New("invalid object path")

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, apiKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", apiKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// PhotoPath is where a user's uploaded photos live.
func PhotoPath(userID uuid.UUID, filename string) string {
	return fmt.Sprintf("users/%s/photos/%s", userID.String(), filename)
}

// GeneratedPath is where a user's composite images live.
func GeneratedPath(userID uuid.UUID, filename string) string {
	return fmt.Sprintf("users/%s/generated/%s", userID.String(), filename)
}

// ValidateObjectPath rejects storage paths that could leave the folder they
// name: a leading "/", empty segments, "." and "..".
func ValidateObjectPath(storagePath string) error {
	if storagePath == "" || strings.HasPrefix(storagePath, "/") || strings.Contains(storagePath, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, storagePath)
	}
	for _, segment := range strings.Split(storagePath, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidPath, storagePath)
		}
	}
	return nil
}

// InFolder reports whether storagePath is a valid path naming an object
// below folder, e.g. PhotoPath(userID, "").
func InFolder(storagePath, folder string) bool {
	if ValidateObjectPath(storagePath) != nil {
		return false
	}
	return len(storagePath) > len(folder) && strings.HasPrefix(storagePath, folder)
}

// UploadFile stores data at storagePath and returns its public URL.
func (s *StorageClient) UploadFile(storagePath, contentType string, data []byte) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

// ResolveURL derives the display URL of a storage file id. Absolute http(s)
// URLs are returned unchanged. It satisfies catalog.ImageResolver.
func (s *StorageClient) ResolveURL(fileID string) (string, error) {
	return ResolvePublicURL(s.baseURL, s.bucket, fileID)
}

// ResolvePublicURL is the pure form of StorageClient.ResolveURL.
func ResolvePublicURL(baseURL, bucket, fileID string) (string, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return "", fmt.Errorf("empty file id: %w", catalog.ErrUnresolvable)
	}

	if strings.HasPrefix(fileID, "http://") || strings.HasPrefix(fileID, "https://") {
		u, err := url.Parse(fileID)
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("malformed image url %q: %w", fileID, catalog.ErrUnresolvable)
		}
		return fileID, nil
	}
	if strings.Contains(fileID, "://") {
		return "", fmt.Errorf("unsupported image scheme %q: %w", fileID, catalog.ErrUnresolvable)
	}

	path := strings.TrimPrefix(fileID, "/")
	if err := ValidateObjectPath(path); err != nil {
		return "", fmt.Errorf("invalid file id %q: %w", fileID, catalog.ErrUnresolvable)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		strings.TrimSuffix(baseURL, "/"), bucket, path), nil
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *StorageClient) DownloadFile(storagePath string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return data, nil
}
