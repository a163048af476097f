package models

import "time"

// Question types.
const (
	QuestionTypeSingleChoice = "single_choice"
	QuestionTypeMultiChoice  = "multi_choice"
	QuestionTypeRating       = "rating"
	QuestionTypeWordcloud    = "wordcloud"
)

// Question is an organizer-posed poll. At most one question per conference is
// active at a time; activating one deactivates the rest.
type Question struct {
	ID           int64     `json:"id"`
	ConferenceID int64     `json:"conference_id"`
	QuestionText string    `json:"question_text"`
	QuestionType string    `json:"question_type"`
	Options      []string  `json:"options"`
	ChartType    string    `json:"chart_type"`
	IsActive     bool      `json:"is_active"`
	ShowResults  bool      `json:"show_results"`
	CreatedAt    time.Time `json:"created_at"`
}

// Answer is a participant's single response to a question. Immutable once
// created; a second submission for the same (question, participant) is a no-op.
type Answer struct {
	ID            int64     `json:"id"`
	QuestionID    int64     `json:"question_id"`
	ParticipantID int64     `json:"participant_id"`
	AnswerText    string    `json:"answer_text"`
	CreatedAt     time.Time `json:"created_at"`
}
