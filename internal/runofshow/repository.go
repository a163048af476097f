package runofshow

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/database"
)

const blockColumns = `id, conference_id, day_number, title, description, block_type, start_time,
	duration_minutes, location, responsible_person, tech_requirements, color_code,
	display_order, status, presenter_notes, venue_notes, actual_start_time, actual_end_time, created_at`

// UpdateFields is the mutable field set for a block. The end time is never
// accepted as input, only start time and duration. Nil fields are left as is.
type UpdateFields struct {
	Title             *string                  `json:"title"`
	Description       *string                  `json:"description"`
	BlockType         *string                  `json:"block_type"`
	StartTime         *string                  `json:"start_time"`
	DurationMinutes   *int                     `json:"duration_minutes"`
	DayNumber         *int                     `json:"day_number"`
	Location          *string                  `json:"location"`
	ResponsiblePerson *string                  `json:"responsible_person"`
	TechRequirements  *models.TechRequirements `json:"tech_requirements"`
	ColorCode         *string                  `json:"color_code"`
	PresenterNotes    *string                  `json:"presenter_notes"`
	VenueNotes        *string                  `json:"venue_notes"`
}

// Repository handles run-of-show block persistence.
type Repository struct {
	db database.DB
}

// NewRepository creates a run-of-show repository.
func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a block. A negative DisplayOrder places the block at the end
// of its day.
func (r *Repository) Create(ctx context.Context, b *models.RunOfShowBlock) error {
	const query = `INSERT INTO run_of_show_blocks
		(conference_id, day_number, title, description, block_type, start_time, duration_minutes,
		 location, responsible_person, tech_requirements, color_code, display_order, presenter_notes, venue_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			CASE WHEN $12 < 0 THEN (SELECT COALESCE(MAX(display_order) + 1, 0)
				FROM run_of_show_blocks WHERE conference_id = $1 AND day_number = $2)
			ELSE $12 END,
			$13, $14)
		RETURNING id, display_order, status, created_at`
	return r.db.QueryRow(ctx, query,
		b.ConferenceID, b.DayNumber, b.Title, b.Description, b.BlockType, b.StartTime, b.DurationMinutes,
		b.Location, b.ResponsiblePerson, b.TechRequirements, b.ColorCode, b.DisplayOrder,
		b.PresenterNotes, b.VenueNotes).
		Scan(&b.ID, &b.DisplayOrder, &b.Status, &b.CreatedAt)
}

// GetByID returns a block by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.RunOfShowBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM run_of_show_blocks WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	return scanBlock(row)
}

// ListByConference returns blocks for a conference, optionally limited to one
// day, in schedule order.
func (r *Repository) ListByConference(ctx context.Context, conferenceID int64, dayNumber int) ([]models.RunOfShowBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM run_of_show_blocks WHERE conference_id = $1`
	args := []interface{}{conferenceID}
	if dayNumber > 0 {
		query += ` AND day_number = $2`
		args = append(args, dayNumber)
	}
	query += ` ORDER BY day_number ASC, display_order ASC, start_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RunOfShowBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Update applies the whitelisted mutable fields to a block.
func (r *Repository) Update(ctx context.Context, id int64, f UpdateFields) error {
	sets := make([]string, 0, 12)
	args := []interface{}{id}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.Title != nil {
		add("title", *f.Title)
	}
	if f.Description != nil {
		add("description", *f.Description)
	}
	if f.BlockType != nil {
		add("block_type", *f.BlockType)
	}
	if f.StartTime != nil {
		add("start_time", *f.StartTime)
	}
	if f.DurationMinutes != nil {
		add("duration_minutes", *f.DurationMinutes)
	}
	if f.DayNumber != nil {
		add("day_number", *f.DayNumber)
	}
	if f.Location != nil {
		add("location", *f.Location)
	}
	if f.ResponsiblePerson != nil {
		add("responsible_person", *f.ResponsiblePerson)
	}
	if f.TechRequirements != nil {
		add("tech_requirements", *f.TechRequirements)
	}
	if f.ColorCode != nil {
		add("color_code", *f.ColorCode)
	}
	if f.PresenterNotes != nil {
		add("presenter_notes", *f.PresenterNotes)
	}
	if f.VenueNotes != nil {
		add("venue_notes", *f.VenueNotes)
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE run_of_show_blocks SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = $1"

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a block.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM run_of_show_blocks WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DayBlockIDs returns the block ids of one (conference, day) scope.
func (r *Repository) DayBlockIDs(ctx context.Context, conferenceID int64, dayNumber int) ([]int64, error) {
	const query = `SELECT id FROM run_of_show_blocks
		WHERE conference_id = $1 AND day_number = $2`
	rows, err := r.db.Query(ctx, query, conferenceID, dayNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Reorder rewrites ordering keys to match list position for exactly the
// (conference, day) scope. The whole rewrite is one transaction: a failure
// partway leaves the prior ordering intact.
func (r *Repository) Reorder(ctx context.Context, conferenceID int64, dayNumber int, orderedIDs []int64) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const query = `UPDATE run_of_show_blocks SET display_order = $1
			WHERE id = $2 AND conference_id = $3 AND day_number = $4`
		for idx, id := range orderedIDs {
			tag, err := tx.Exec(ctx, query, idx, id, conferenceID, dayNumber)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("block %d not in conference %d day %d", id, conferenceID, dayNumber)
			}
		}
		return nil
	})
}

// SetStatus transitions a block. pending->active stamps the actual start;
// active->completed/skipped stamps the actual end. Activation also demotes
// any other active block of the same (conference, day) to completed in the
// same transaction, keeping at most one block live per day.
func (r *Repository) SetStatus(ctx context.Context, id int64, status string) (*models.RunOfShowBlock, error) {
	var updated *models.RunOfShowBlock
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `SELECT ` + blockColumns + ` FROM run_of_show_blocks WHERE id = $1 FOR UPDATE`
		b, err := scanBlock(tx.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}

		if status == models.BlockStatusActive {
			const demote = `UPDATE run_of_show_blocks
				SET status = 'completed', actual_end_time = NOW()
				WHERE conference_id = $1 AND day_number = $2 AND status = 'active' AND id <> $3`
			if _, err := tx.Exec(ctx, demote, b.ConferenceID, b.DayNumber, b.ID); err != nil {
				return err
			}
		}

		var promote string
		switch status {
		case models.BlockStatusActive:
			promote = `UPDATE run_of_show_blocks SET status = $2, actual_start_time = NOW() WHERE id = $1`
		case models.BlockStatusCompleted, models.BlockStatusSkipped:
			promote = `UPDATE run_of_show_blocks SET status = $2, actual_end_time = NOW() WHERE id = $1`
		default:
			promote = `UPDATE run_of_show_blocks SET status = $2 WHERE id = $1`
		}
		if _, err := tx.Exec(ctx, promote, b.ID, status); err != nil {
			return err
		}

		refetch := `SELECT ` + blockColumns + ` FROM run_of_show_blocks WHERE id = $1`
		updated, err = scanBlock(tx.QueryRow(ctx, refetch, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DuplicateDay copies all blocks of one day to another day of the same
// conference, keeping order and timings.
func (r *Repository) DuplicateDay(ctx context.Context, conferenceID int64, fromDay, toDay int) (int, error) {
	const query = `INSERT INTO run_of_show_blocks
		(conference_id, day_number, title, description, block_type, start_time, duration_minutes,
		 location, responsible_person, tech_requirements, color_code, display_order, presenter_notes, venue_notes)
		SELECT conference_id, $3, title, description, block_type, start_time, duration_minutes,
		 location, responsible_person, tech_requirements, color_code, display_order, presenter_notes, venue_notes
		FROM run_of_show_blocks
		WHERE conference_id = $1 AND day_number = $2`
	tag, err := r.db.Exec(ctx, query, conferenceID, fromDay, toDay)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*models.RunOfShowBlock, error) {
	var b models.RunOfShowBlock
	err := row.Scan(&b.ID, &b.ConferenceID, &b.DayNumber, &b.Title, &b.Description, &b.BlockType,
		&b.StartTime, &b.DurationMinutes, &b.Location, &b.ResponsiblePerson, &b.TechRequirements,
		&b.ColorCode, &b.DisplayOrder, &b.Status, &b.PresenterNotes, &b.VenueNotes,
		&b.ActualStartTime, &b.ActualEndTime, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
