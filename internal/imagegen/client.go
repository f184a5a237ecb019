package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// ErrNoImage is returned when the API answered without an image.
var ErrNoImage = errors.New("image api returned no image")

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	backoffs   []time.Duration
}

// InputImage is one image part of an edit request.
type InputImage struct {
	Filename string
	MimeType string
	Data     []byte
}

// EditRequest asks the API to render the person wearing the outfit.
type EditRequest struct {
	Person InputImage
	Outfit InputImage
	Prompt string
	Size   string // "1024x1536", "auto", ...
}

type editResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// SetBackoffs overrides the waits between retries.
func (c *Client) SetBackoffs(backoffs ...time.Duration) {
	c.backoffs = backoffs
}

// DefaultPrompt describes the try-on composite.
const DefaultPrompt = "Dress the person in the first image in the complete outfit shown in the second image. " +
	"Keep the person's face, body shape, pose and background unchanged. Photorealistic, full body."

// Edit sends both images to the image edit endpoint and returns the decoded
// result image.
func (c *Client) Edit(ctx context.Context, editReq EditRequest) ([]byte, error) {
	body, contentType, err := c.editBody(editReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to edit image: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result editResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("image api error: %s", result.Error.Message)
	}
	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return nil, ErrNoImage
	}

	image, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return image, nil
}

func (c *Client) editBody(editReq EditRequest) ([]byte, string, error) {
	if len(editReq.Person.Data) == 0 {
		return nil, "", fmt.Errorf("person image is required")
	}
	if len(editReq.Outfit.Data) == 0 {
		return nil, "", fmt.Errorf("outfit image is required")
	}
	prompt := editReq.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	size := editReq.Size
	if size == "" {
		size = "auto"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{"model": c.model, "prompt": prompt, "size": size, "n": "1"}
	for _, key := range []string{"model", "prompt", "size", "n"} {
		if err := w.WriteField(key, fields[key]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}
	for _, img := range []InputImage{editReq.Person, editReq.Outfit} {
		if err := writeImagePart(w, img); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeImagePart(w *multipart.Writer, img InputImage) error {
	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(img.Data)
	}
	filename := img.Filename
	if filename == "" {
		filename = "image"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image[]"; filename="%s"`, filename))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return fmt.Errorf("failed to write image part: %w", err)
	}
	return nil
}

// RetryWithBackoff executes fn up to maxRetries times, waiting between
// attempts. It stops early when ctx is done.
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || i >= len(c.backoffs) {
			continue
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(c.backoffs[i]):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
