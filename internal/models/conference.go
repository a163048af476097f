package models

import (
	"time"

	"github.com/google/uuid"
)

// Conference is the top-level event owning questions, guest questions and a
// run-of-show schedule. Viewers address it by public UUID, participants by
// the short join code.
type Conference struct {
	ID                int64     `json:"id"`
	UUID              uuid.UUID `json:"uuid"`
	UniqueCode        string    `json:"unique_code"`
	Name              string    `json:"name"`
	Language          string    `json:"language"`
	DisplayResolution string    `json:"display_resolution"`
	OverlayBackground string    `json:"overlay_background"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}
