package models

import "time"

// Guest question moderation statuses.
const (
	GuestStatusPending   = "pending"
	GuestStatusApproved  = "approved"
	GuestStatusDisplayed = "displayed"
	GuestStatusRejected  = "rejected"
)

// GuestQuestion is an audience-submitted question subject to moderation. At
// most one per conference has status displayed.
type GuestQuestion struct {
	ID            int64     `json:"id"`
	ConferenceID  int64     `json:"conference_id"`
	ParticipantID int64     `json:"participant_id"`
	QuestionText  string    `json:"question_text"`
	IsAnonymous   bool      `json:"is_anonymous"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
