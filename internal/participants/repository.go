package participants

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

// Repository handles participant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a participants repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create registers a participant for a conference and returns their token.
func (r *Repository) Create(ctx context.Context, p *models.Participant) error {
	const query = `INSERT INTO participants (conference_id, name)
		VALUES ($1, $2)
		RETURNING id, token, created_at`
	return r.pool.QueryRow(ctx, query, p.ConferenceID, p.Name).
		Scan(&p.ID, &p.Token, &p.CreatedAt)
}

// GetByToken returns a participant by their token.
func (r *Repository) GetByToken(ctx context.Context, token uuid.UUID) (*models.Participant, error) {
	const query = `SELECT id, conference_id, token, name, created_at
		FROM participants WHERE token = $1`
	var p models.Participant
	err := r.pool.QueryRow(ctx, query, token).
		Scan(&p.ID, &p.ConferenceID, &p.Token, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountByConference returns the number of registered participants.
func (r *Repository) CountByConference(ctx context.Context, conferenceID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM participants WHERE conference_id = $1`
	var n int
	err := r.pool.QueryRow(ctx, query, conferenceID).Scan(&n)
	return n, err
}
