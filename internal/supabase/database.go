package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"outfit-studio/internal/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

const uniqueViolation = "23505"

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// DB exposes the connection pool, e.g. for the migrator.
func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) CreateUser(ctx context.Context, email, name, gender, passwordHash string) (*models.User, error) {
	var user models.User
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, gender, password_hash)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, email, name, gender, password_hash, created_at, updated_at
	`, uuid.New(), email, name, gender, passwordHash).Scan(
		&user.ID, &user.Email, &user.Name, &user.Gender,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (d *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.getUser(ctx, "email", email)
}

func (d *DatabaseClient) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return d.getUser(ctx, "id", userID)
}

func (d *DatabaseClient) getUser(ctx context.Context, column string, value interface{}) (*models.User, error) {
	var user models.User
	err := d.db.QueryRowContext(ctx, `
		SELECT id, email, name, gender, password_hash, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value).Scan(
		&user.ID, &user.Email, &user.Name, &user.Gender,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// FetchOutfits lists the whole outfit collection. It satisfies
// catalog.OutfitSource.
func (d *DatabaseClient) FetchOutfits(ctx context.Context) ([]models.RemoteOutfit, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, file, keywords, items
		FROM outfits
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}
	defer rows.Close()

	outfits := make([]models.RemoteOutfit, 0)
	for rows.Next() {
		outfit, err := scanOutfit(rows)
		if err != nil {
			return nil, err
		}
		outfits = append(outfits, *outfit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}

	return outfits, nil
}

// GetOutfit looks an outfit up by id, or by name for callers that still key
// outfits by display name.
func (d *DatabaseClient) GetOutfit(ctx context.Context, key string) (*models.RemoteOutfit, error) {
	query := `SELECT id, name, file, keywords, items FROM outfits WHERE name = $1 ORDER BY created_at ASC LIMIT 1`
	var arg interface{} = key
	if id, err := uuid.Parse(key); err == nil {
		query = `SELECT id, name, file, keywords, items FROM outfits WHERE id = $1`
		arg = id
	}

	outfit, err := scanOutfit(d.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return outfit, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOutfit(row rowScanner) (*models.RemoteOutfit, error) {
	var (
		outfit   models.RemoteOutfit
		id       uuid.UUID
		keywords pq.StringArray
		items    pq.StringArray
	)
	if err := row.Scan(&id, &outfit.Name, &outfit.File, &keywords, &items); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan outfit: %w", err)
	}
	outfit.ID = id.String()
	outfit.Keywords = []string(keywords)
	outfit.Items = []string(items)
	return &outfit, nil
}

func (d *DatabaseClient) CreateGeneratedImage(ctx context.Context, image *models.GeneratedImage) error {
	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO generated_images (id, user_id, image_id, outfit_id, storage_path, storage_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, image_id) DO UPDATE SET outfit_id = EXCLUDED.outfit_id
	`, image.ID, image.UserID, image.ImageID, image.OutfitID, image.StoragePath, image.StorageURL, image.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record generated image: %w", err)
	}
	return nil
}

func (d *DatabaseClient) ListGeneratedImages(ctx context.Context, userID uuid.UUID) ([]models.GeneratedImage, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, image_id, outfit_id, storage_path, storage_url, created_at
		FROM generated_images
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated images: %w", err)
	}
	defer rows.Close()

	images := make([]models.GeneratedImage, 0)
	for rows.Next() {
		var image models.GeneratedImage
		err := rows.Scan(
			&image.ID, &image.UserID, &image.ImageID, &image.OutfitID,
			&image.StoragePath, &image.StorageURL, &image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generated image: %w", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list generated images: %w", err)
	}

	return images, nil
}

// DeleteGeneratedImage removes a user's record and returns it so the caller
// can clean up the stored object.
func (d *DatabaseClient) DeleteGeneratedImage(ctx context.Context, userID uuid.UUID, imageID string) (*models.GeneratedImage, error) {
	var image models.GeneratedImage
	err := d.db.QueryRowContext(ctx, `
		DELETE FROM generated_images
		WHERE user_id = $1 AND image_id = $2
		RETURNING id, user_id, image_id, outfit_id, storage_path, storage_url, created_at
	`, userID, imageID).Scan(
		&image.ID, &image.UserID, &image.ImageID, &image.OutfitID,
		&image.StoragePath, &image.StorageURL, &image.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete generated image: %w", err)
	}

	return &image, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
