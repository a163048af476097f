package questions

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/database"
)

// Repository handles question and answer persistence.
type Repository struct {
	db database.DB
}

// NewRepository creates a questions repository.
func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new question (inactive, results hidden).
func (r *Repository) Create(ctx context.Context, q *models.Question) error {
	const query = `INSERT INTO questions (conference_id, question_text, question_type, options, chart_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, show_results, created_at`
	return r.db.QueryRow(ctx, query, q.ConferenceID, q.QuestionText, q.QuestionType, q.Options, q.ChartType).
		Scan(&q.ID, &q.IsActive, &q.ShowResults, &q.CreatedAt)
}

// GetByID returns a question by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	const query = `SELECT id, conference_id, question_text, question_type, options, chart_type, is_active, show_results, created_at
		FROM questions WHERE id = $1`
	var q models.Question
	err := r.db.QueryRow(ctx, query, id).
		Scan(&q.ID, &q.ConferenceID, &q.QuestionText, &q.QuestionType, &q.Options,
			&q.ChartType, &q.IsActive, &q.ShowResults, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByConference returns all questions for a conference, newest first.
func (r *Repository) ListByConference(ctx context.Context, conferenceID int64) ([]models.Question, error) {
	const query = `SELECT id, conference_id, question_text, question_type, options, chart_type, is_active, show_results, created_at
		FROM questions WHERE conference_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ConferenceID, &q.QuestionText, &q.QuestionType, &q.Options,
			&q.ChartType, &q.IsActive, &q.ShowResults, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Activate makes the question the conference's single active one. Demoting
// the previous active question (and resetting its show_results) and promoting
// the new one happen in one transaction, so no snapshot can observe both or
// neither active.
func (r *Repository) Activate(ctx context.Context, conferenceID, questionID int64) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const demote = `UPDATE questions SET is_active = FALSE, show_results = FALSE
			WHERE conference_id = $1 AND is_active`
		if _, err := tx.Exec(ctx, demote, conferenceID); err != nil {
			return err
		}
		const promote = `UPDATE questions SET is_active = TRUE
			WHERE id = $1 AND conference_id = $2`
		tag, err := tx.Exec(ctx, promote, questionID, conferenceID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

// Deactivate clears the active flag and hides results.
func (r *Repository) Deactivate(ctx context.Context, conferenceID, questionID int64) error {
	const query = `UPDATE questions SET is_active = FALSE, show_results = FALSE
		WHERE id = $1 AND conference_id = $2`
	_, err := r.db.Exec(ctx, query, questionID, conferenceID)
	return err
}

// ToggleResults flips show_results for the question and returns the new value.
func (r *Repository) ToggleResults(ctx context.Context, questionID int64) (bool, error) {
	const query = `UPDATE questions SET show_results = NOT show_results
		WHERE id = $1 RETURNING show_results`
	var show bool
	err := r.db.QueryRow(ctx, query, questionID).Scan(&show)
	return show, err
}

// Delete removes a question and its answers (cascade).
func (r *Repository) Delete(ctx context.Context, questionID int64) error {
	const query = `DELETE FROM questions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, questionID)
	return err
}

// SubmitAnswer records a participant's answer. A second submission for the
// same (question, participant) pair is a silent no-op; the first answer is
// immutable. Returns whether the answer was stored.
func (r *Repository) SubmitAnswer(ctx context.Context, questionID, participantID int64, answerText string) (bool, error) {
	const query = `INSERT INTO answers (question_id, participant_id, answer_text)
		VALUES ($1, $2, $3)
		ON CONFLICT (question_id, participant_id) DO NOTHING`
	tag, err := r.db.Exec(ctx, query, questionID, participantID, answerText)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ResponseCount returns the number of answers for a question.
func (r *Repository) ResponseCount(ctx context.Context, questionID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM answers WHERE question_id = $1`
	var n int
	err := r.db.QueryRow(ctx, query, questionID).Scan(&n)
	return n, err
}
