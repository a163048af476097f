package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is an audience member of a conference. The token identifies the
// participant on answer and guest-question submissions.
type Participant struct {
	ID           int64     `json:"id"`
	ConferenceID int64     `json:"conference_id"`
	Token        uuid.UUID `json:"token"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}
