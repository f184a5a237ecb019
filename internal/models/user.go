package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Gender       sql.NullString
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GeneratedImage is the stored row behind a GeneratedRecord.
type GeneratedImage struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ImageID     string
	OutfitID    string
	StoragePath string
	StorageURL  string
	CreatedAt   time.Time
}

func (g GeneratedImage) Record() GeneratedRecord {
	return GeneratedRecord{
		ImageID:   g.ImageID,
		OutfitID:  g.OutfitID,
		CreatedAt: g.CreatedAt,
	}
}
