package conferences

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

// codeAlphabet excludes ambiguous characters (I, O, 0, 1) so the join code
// survives being read aloud from a slide.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Repository handles conference persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a conferences repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new conference with a generated join code.
func (r *Repository) Create(ctx context.Context, c *models.Conference) error {
	code, err := generateUniqueCode(8)
	if err != nil {
		return err
	}
	const query = `INSERT INTO conferences (unique_code, name, language, display_resolution, overlay_background, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, uuid, unique_code, is_active, created_at`
	return r.pool.QueryRow(ctx, query, code, c.Name, c.Language, c.DisplayResolution, c.OverlayBackground).
		Scan(&c.ID, &c.UUID, &c.UniqueCode, &c.IsActive, &c.CreatedAt)
}

// GetByID returns a conference by internal id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Conference, error) {
	const query = `SELECT id, uuid, unique_code, name, language, display_resolution, overlay_background, is_active, created_at
		FROM conferences WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByUUID returns a conference by its public UUID.
func (r *Repository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.Conference, error) {
	const query = `SELECT id, uuid, unique_code, name, language, display_resolution, overlay_background, is_active, created_at
		FROM conferences WHERE uuid = $1`
	return r.scanOne(ctx, query, id)
}

// GetByCode returns a conference by its short join code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Conference, error) {
	const query = `SELECT id, uuid, unique_code, name, language, display_resolution, overlay_background, is_active, created_at
		FROM conferences WHERE unique_code = $1`
	return r.scanOne(ctx, query, code)
}

// List returns all conferences, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Conference, error) {
	const query = `SELECT id, uuid, unique_code, name, language, display_resolution, overlay_background, is_active, created_at
		FROM conferences ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Conference
	for rows.Next() {
		var c models.Conference
		if err := rows.Scan(&c.ID, &c.UUID, &c.UniqueCode, &c.Name, &c.Language,
			&c.DisplayResolution, &c.OverlayBackground, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateSettings updates mutable conference settings.
func (r *Repository) UpdateSettings(ctx context.Context, id int64, name, language, resolution, background string, isActive bool) error {
	const query = `UPDATE conferences
		SET name = $2, language = $3, display_resolution = $4, overlay_background = $5, is_active = $6
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, name, language, resolution, background, isActive)
	return err
}

func (r *Repository) scanOne(ctx context.Context, query string, arg interface{}) (*models.Conference, error) {
	var c models.Conference
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&c.ID, &c.UUID, &c.UniqueCode, &c.Name, &c.Language,
			&c.DisplayResolution, &c.OverlayBackground, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func generateUniqueCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
