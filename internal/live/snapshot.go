package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/runofshow"
)

var (
	// ErrConferenceNotFound terminates a stream: the UUID resolves to nothing.
	ErrConferenceNotFound = errors.New("conference not found")
	// ErrConferenceInactive terminates a stream: the conference exists but is
	// switched off.
	ErrConferenceInactive = errors.New("conference not active")
)

// QuestionView is the active question as sent to viewers.
type QuestionView struct {
	ID           int64    `json:"id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	ChartType    string   `json:"chart_type"`
}

// BlockView is the active run-of-show block with its live countdown.
type BlockView struct {
	ID        int64                `json:"id"`
	Title     string               `json:"title"`
	BlockType string               `json:"block_type"`
	StartTime string               `json:"start_time"`
	EndTime   string               `json:"end_time"`
	ColorCode string               `json:"color_code"`
	Countdown *runofshow.Countdown `json:"countdown,omitempty"`
}

// ResponseData is the per-question result payload. Choice and rating
// questions carry the aggregated distribution; wordclouds carry the flat list
// of submitted texts. On the wire both appear under one responseData key.
type ResponseData struct {
	Distribution []OptionCount
	Texts        []string
}

func (r *ResponseData) MarshalJSON() ([]byte, error) {
	if r.Texts != nil {
		return json.Marshal(r.Texts)
	}
	if r.Distribution == nil {
		return json.Marshal([]OptionCount{})
	}
	return json.Marshal(r.Distribution)
}

// Len counts the entries viewers will render.
func (r *ResponseData) Len() int {
	if r == nil {
		return 0
	}
	if r.Texts != nil {
		return len(r.Texts)
	}
	return len(r.Distribution)
}

// Equal compares two result payloads entry by entry.
func (r *ResponseData) Equal(o *ResponseData) bool {
	if r == nil || o == nil {
		return r.Len() == 0 && o.Len() == 0
	}
	if len(r.Texts) != len(o.Texts) || len(r.Distribution) != len(o.Distribution) {
		return false
	}
	for i := range r.Texts {
		if r.Texts[i] != o.Texts[i] {
			return false
		}
	}
	for i := range r.Distribution {
		if r.Distribution[i] != o.Distribution[i] {
			return false
		}
	}
	return true
}

// Snapshot is one complete frame of viewer-facing state. The broadcast loop
// rebuilds it every tick and diffs it against the previous frame.
type Snapshot struct {
	ConferenceID           int64              `json:"conference_id"`
	Participants           int                `json:"participants"`
	Responses              int                `json:"responses"`
	HasActiveQuestion      bool               `json:"hasActiveQuestion"`
	ActiveQuestionID       *int64             `json:"activeQuestionId"`
	ShowResults            bool               `json:"showResults"`
	Question               *QuestionView      `json:"question,omitempty"`
	DisplayedGuestQuestion *DisplayedQuestion `json:"displayedGuestQuestion,omitempty"`
	ResponseData           *ResponseData      `json:"responseData,omitempty"`
	ResponseCount          int                `json:"responseCount"`
	ActiveBlock            *BlockView         `json:"activeBlock,omitempty"`
	Timestamp              int64              `json:"timestamp"`
}

// QuestionID returns the active question id, 0 when none.
func (s *Snapshot) QuestionID() int64 {
	if s.ActiveQuestionID == nil {
		return 0
	}
	return *s.ActiveQuestionID
}

// Builder assembles snapshots from the live store.
type Builder struct {
	store Store
	now   func() time.Time
}

// NewBuilder creates a snapshot builder.
func NewBuilder(store Store) *Builder {
	return &Builder{store: store, now: time.Now}
}

// Resolve maps a public UUID to a live conference. Missing and inactive
// conferences map to the two terminal stream errors.
func (b *Builder) Resolve(ctx context.Context, id uuid.UUID) (*models.Conference, error) {
	conf, err := b.store.ConferenceByUUID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConferenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve conference: %w", err)
	}
	if !conf.IsActive {
		return nil, ErrConferenceInactive
	}
	return conf, nil
}

// Build reads the full viewer state for one conference. Result data is only
// attached while the moderator has results toggled on, so flipping the toggle
// off also clears charts on the next frame.
func (b *Builder) Build(ctx context.Context, conferenceID int64) (*Snapshot, error) {
	now := b.now()
	snap := &Snapshot{ConferenceID: conferenceID, Timestamp: now.Unix()}

	participants, err := b.store.ParticipantCount(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("participant count: %w", err)
	}
	snap.Participants = participants

	q, err := b.store.ActiveQuestion(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("active question: %w", err)
	}
	if q != nil {
		snap.HasActiveQuestion = true
		snap.ActiveQuestionID = &q.ID
		snap.ShowResults = q.ShowResults
		snap.Question = &QuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			ChartType:    q.ChartType,
		}

		snap.Responses, err = b.store.ResponseCount(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("response count: %w", err)
		}

		if q.ShowResults {
			if q.QuestionType == models.QuestionTypeWordcloud {
				texts, err := b.store.AnswerTexts(ctx, q.ID)
				if err != nil {
					return nil, fmt.Errorf("answer texts: %w", err)
				}
				snap.ResponseData = &ResponseData{Texts: texts}
			} else {
				dist, err := b.store.ResponseDistribution(ctx, q.ID)
				if err != nil {
					return nil, fmt.Errorf("response distribution: %w", err)
				}
				snap.ResponseData = &ResponseData{Distribution: dist}
			}
			snap.ResponseCount = snap.ResponseData.Len()
		}
	}

	gq, err := b.store.DisplayedGuestQuestion(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("displayed guest question: %w", err)
	}
	snap.DisplayedGuestQuestion = gq

	block, err := b.store.ActiveBlock(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("active block: %w", err)
	}
	if block != nil {
		end, _ := runofshow.EndTime(block.StartTime, block.DurationMinutes)
		snap.ActiveBlock = &BlockView{
			ID:        block.ID,
			Title:     block.Title,
			BlockType: block.BlockType,
			StartTime: block.StartTime,
			EndTime:   end,
			ColorCode: block.ColorCode,
			Countdown: runofshow.BlockCountdown(block, now),
		}
	}
	return snap, nil
}
