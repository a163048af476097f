package models

import "time"

// Run-of-show block statuses.
const (
	BlockStatusPending   = "pending"
	BlockStatusActive    = "active"
	BlockStatusCompleted = "completed"
	BlockStatusSkipped   = "skipped"
)

// Block types.
const (
	BlockTypePresentation = "presentation"
	BlockTypeBreak        = "break"
	BlockTypeVideo        = "video"
	BlockTypeAudio        = "audio"
	BlockTypeOther        = "other"
)

// TechRequirements is the fixed set of stage-technical needs for a block.
type TechRequirements struct {
	Microphone          bool `json:"microphone"`
	Presentation        bool `json:"presentation"`
	Video               bool `json:"video"`
	Lighting            bool `json:"lighting"`
	AudienceInteraction bool `json:"audience_interaction"`
}

// RunOfShowBlock is one scheduled segment of a conference day. The end time is
// always derived as start + duration and never stored.
type RunOfShowBlock struct {
	ID                int64            `json:"id"`
	ConferenceID      int64            `json:"conference_id"`
	DayNumber         int              `json:"day_number"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	BlockType         string           `json:"block_type"`
	StartTime         string           `json:"start_time"` // "HH:MM", 24h
	DurationMinutes   int              `json:"duration_minutes"`
	Location          string           `json:"location"`
	ResponsiblePerson string           `json:"responsible_person"`
	TechRequirements  TechRequirements `json:"tech_requirements"`
	ColorCode         string           `json:"color_code"`
	DisplayOrder      int              `json:"display_order"`
	Status            string           `json:"status"`
	PresenterNotes    string           `json:"presenter_notes"`
	VenueNotes        string           `json:"venue_notes"`
	ActualStartTime   *time.Time       `json:"actual_start_time,omitempty"`
	ActualEndTime     *time.Time       `json:"actual_end_time,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
