package models

import "time"

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// ProfileResponse mirrors the profile document the client keeps in its
// session: the user's identity plus the images they have generated.
type ProfileResponse struct {
	ID            string            `json:"_id"`
	Email         string            `json:"email"`
	Name          string            `json:"name"`
	Gender        string            `json:"gender,omitempty"`
	CreatedImages []GeneratedRecord `json:"createdImages"`
}

type CatalogResponse struct {
	Cards          []Card `json:"cards"`
	Provenance     string `json:"provenance"`
	Empty          bool   `json:"empty"`
	Dropped        int    `json:"dropped"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

type FilterOptionsResponse struct {
	Occasions       []OccasionOption `json:"occasions"`
	Genders         []string         `json:"genders"`
	GeneratedStatus []string         `json:"generated_status"`
}

type OccasionOption struct {
	ID       string   `json:"id"`
	Synonyms []string `json:"synonyms"`
}

type ImageResponse struct {
	ImageID    string    `json:"image_id"`
	OutfitID   string    `json:"outfit_id"`
	StorageURL string    `json:"storage_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ImagesResponse struct {
	Images []ImageResponse `json:"images"`
}

type PhotoResponse struct {
	PhotoID string `json:"photo_id"`
	URL     string `json:"url"`
}

type TryOnResponse struct {
	ImageID   string    `json:"image_id"`
	OutfitID  string    `json:"outfit_id"`
	ImageURL  string    `json:"image_url"`
	PhotoID   string    `json:"photo_id"`
	CreatedAt time.Time `json:"created_at"`
}
