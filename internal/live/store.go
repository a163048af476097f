package live

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

// Store is the read side of the live feed: everything a snapshot needs,
// nothing more. The SSE loops poll it every tick.
type Store interface {
	ConferenceByUUID(ctx context.Context, id uuid.UUID) (*models.Conference, error)
	ActiveQuestion(ctx context.Context, conferenceID int64) (*models.Question, error)
	ResponseCount(ctx context.Context, questionID int64) (int, error)
	ResponseDistribution(ctx context.Context, questionID int64) ([]OptionCount, error)
	AnswerTexts(ctx context.Context, questionID int64) ([]string, error)
	ParticipantCount(ctx context.Context, conferenceID int64) (int, error)
	DisplayedGuestQuestion(ctx context.Context, conferenceID int64) (*DisplayedQuestion, error)
	ActiveBlock(ctx context.Context, conferenceID int64) (*models.RunOfShowBlock, error)
}

// OptionCount is one bucket of the aggregated response distribution.
type OptionCount struct {
	Answer string `json:"answer_text"`
	Count  int    `json:"count"`
}

// DisplayedQuestion is the guest question currently on screen, with the
// submitter name already resolved (empty when anonymous).
type DisplayedQuestion struct {
	ID           int64  `json:"id"`
	QuestionText string `json:"question_text"`
	GuestName    string `json:"guest_name,omitempty"`
	IsAnonymous  bool   `json:"is_anonymous"`
}

// PGStore implements Store against Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres-backed live store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// ConferenceByUUID returns a conference by its public UUID.
func (s *PGStore) ConferenceByUUID(ctx context.Context, id uuid.UUID) (*models.Conference, error) {
	const query = `SELECT id, uuid, unique_code, name, language, display_resolution,
		overlay_background, is_active, created_at
		FROM conferences WHERE uuid = $1`
	var c models.Conference
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.UUID, &c.UniqueCode, &c.Name,
		&c.Language, &c.DisplayResolution, &c.OverlayBackground, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ActiveQuestion returns the conference's active question, or nil when none.
func (s *PGStore) ActiveQuestion(ctx context.Context, conferenceID int64) (*models.Question, error) {
	const query = `SELECT id, conference_id, question_text, question_type, options,
		chart_type, is_active, show_results, created_at
		FROM questions WHERE conference_id = $1 AND is_active = TRUE`
	var q models.Question
	err := s.pool.QueryRow(ctx, query, conferenceID).Scan(&q.ID, &q.ConferenceID,
		&q.QuestionText, &q.QuestionType, &q.Options, &q.ChartType, &q.IsActive,
		&q.ShowResults, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ResponseCount counts answers for a question.
func (s *PGStore) ResponseCount(ctx context.Context, questionID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM answers WHERE question_id = $1`
	var n int
	err := s.pool.QueryRow(ctx, query, questionID).Scan(&n)
	return n, err
}

// ResponseDistribution aggregates answers per option text, most popular first.
// Ties break by earliest answer so the ordering is stable between ticks.
func (s *PGStore) ResponseDistribution(ctx context.Context, questionID int64) ([]OptionCount, error) {
	const query = `SELECT answer_text, COUNT(*) AS cnt FROM answers
		WHERE question_id = $1
		GROUP BY answer_text
		ORDER BY cnt DESC, MIN(id) ASC`
	rows, err := s.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OptionCount
	for rows.Next() {
		var oc OptionCount
		if err := rows.Scan(&oc.Answer, &oc.Count); err != nil {
			return nil, err
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

// AnswerTexts returns raw answer texts in submission order, for wordclouds.
func (s *PGStore) AnswerTexts(ctx context.Context, questionID int64) ([]string, error) {
	const query = `SELECT answer_text FROM answers WHERE question_id = $1 ORDER BY id ASC`
	rows, err := s.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ParticipantCount counts joined participants for a conference.
func (s *PGStore) ParticipantCount(ctx context.Context, conferenceID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM participants WHERE conference_id = $1`
	var n int
	err := s.pool.QueryRow(ctx, query, conferenceID).Scan(&n)
	return n, err
}

// DisplayedGuestQuestion returns the guest question currently on screen, or
// nil when none. Anonymous submissions come back without a name.
func (s *PGStore) DisplayedGuestQuestion(ctx context.Context, conferenceID int64) (*DisplayedQuestion, error) {
	const query = `SELECT g.id, g.question_text, g.is_anonymous,
		CASE WHEN g.is_anonymous THEN '' ELSE p.name END
		FROM guest_questions g
		JOIN participants p ON p.id = g.participant_id
		WHERE g.conference_id = $1 AND g.status = 'displayed'
		ORDER BY g.id DESC LIMIT 1`
	var d DisplayedQuestion
	err := s.pool.QueryRow(ctx, query, conferenceID).Scan(&d.ID, &d.QuestionText, &d.IsAnonymous, &d.GuestName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ActiveBlock returns the conference's active run-of-show block, or nil.
func (s *PGStore) ActiveBlock(ctx context.Context, conferenceID int64) (*models.RunOfShowBlock, error) {
	const query = `SELECT id, conference_id, day_number, title, description, block_type, start_time,
		duration_minutes, location, responsible_person, tech_requirements, color_code,
		display_order, status, presenter_notes, venue_notes, actual_start_time, actual_end_time, created_at
		FROM run_of_show_blocks
		WHERE conference_id = $1 AND status = 'active'
		ORDER BY day_number ASC, display_order ASC LIMIT 1`
	var b models.RunOfShowBlock
	err := s.pool.QueryRow(ctx, query, conferenceID).Scan(&b.ID, &b.ConferenceID, &b.DayNumber,
		&b.Title, &b.Description, &b.BlockType, &b.StartTime, &b.DurationMinutes, &b.Location,
		&b.ResponsiblePerson, &b.TechRequirements, &b.ColorCode, &b.DisplayOrder, &b.Status,
		&b.PresenterNotes, &b.VenueNotes, &b.ActualStartTime, &b.ActualEndTime, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
