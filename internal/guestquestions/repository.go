package guestquestions

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/database"
)

// Repository handles guest question persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a guest questions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a participant-submitted question with status pending.
func (r *Repository) Create(ctx context.Context, g *models.GuestQuestion) error {
	const query = `INSERT INTO guest_questions (conference_id, participant_id, question_text, is_anonymous)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at`
	return r.pool.QueryRow(ctx, query, g.ConferenceID, g.ParticipantID, g.QuestionText, g.IsAnonymous).
		Scan(&g.ID, &g.Status, &g.CreatedAt)
}

// GetByID returns a guest question by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.GuestQuestion, error) {
	const query = `SELECT id, conference_id, participant_id, question_text, is_anonymous, status, created_at
		FROM guest_questions WHERE id = $1`
	var g models.GuestQuestion
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&g.ID, &g.ConferenceID, &g.ParticipantID, &g.QuestionText, &g.IsAnonymous, &g.Status, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByConference returns all guest questions: displayed first, then pending,
// approved and rejected, newest first within each group.
func (r *Repository) ListByConference(ctx context.Context, conferenceID int64) ([]models.GuestQuestion, error) {
	const query = `SELECT id, conference_id, participant_id, question_text, is_anonymous, status, created_at
		FROM guest_questions WHERE conference_id = $1
		ORDER BY CASE status
			WHEN 'displayed' THEN 0
			WHEN 'pending' THEN 1
			WHEN 'approved' THEN 2
			ELSE 3
		END, created_at DESC`
	rows, err := r.pool.Query(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GuestQuestion
	for rows.Next() {
		var g models.GuestQuestion
		if err := rows.Scan(&g.ID, &g.ConferenceID, &g.ParticipantID, &g.QuestionText,
			&g.IsAnonymous, &g.Status, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SetStatus moves a question to approved or rejected (plain moderation, no
// exclusivity involved).
func (r *Repository) SetStatus(ctx context.Context, conferenceID, id int64, status string) error {
	const query = `UPDATE guest_questions SET status = $3
		WHERE id = $1 AND conference_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, conferenceID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Display puts the question on screen. Any previously displayed question of
// the conference is demoted back to approved in the same transaction, so at
// most one is ever displayed.
func (r *Repository) Display(ctx context.Context, conferenceID, id int64) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const demote = `UPDATE guest_questions SET status = 'approved'
			WHERE conference_id = $1 AND status = 'displayed'`
		if _, err := tx.Exec(ctx, demote, conferenceID); err != nil {
			return err
		}
		const promote = `UPDATE guest_questions SET status = 'displayed'
			WHERE id = $1 AND conference_id = $2`
		tag, err := tx.Exec(ctx, promote, id, conferenceID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}
