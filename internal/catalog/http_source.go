package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outfit-studio/internal/models"
)

// HTTPSource reads the outfit collection from GET <backend>/getAllOutfits.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) FetchOutfits(ctx context.Context) ([]models.RemoteOutfit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/getAllOutfits", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch outfits: status %d, body: %s", resp.StatusCode, string(body))
	}

	var outfits []models.RemoteOutfit
	if err := json.Unmarshal(body, &outfits); err != nil {
		return nil, fmt.Errorf("failed to decode outfits: %w", err)
	}

	return outfits, nil
}
