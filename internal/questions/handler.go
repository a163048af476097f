package questions

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/participants"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/realtime"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/response"
)

// CreateRequest is the body for POST /conferences/:id/questions.
type CreateRequest struct {
	QuestionText string   `json:"question_text" binding:"required"`
	QuestionType string   `json:"question_type" binding:"required,oneof=single_choice multi_choice rating wordcloud"`
	Options      []string `json:"options"`
	ChartType    string   `json:"chart_type"`
}

// AnswerRequest is the body for POST /questions/:id/answers.
type AnswerRequest struct {
	ParticipantToken string `json:"participant_token" binding:"required"`
	AnswerText       string `json:"answer_text" binding:"required"`
}

// Handler handles question HTTP endpoints.
type Handler struct {
	repo            *Repository
	participantRepo *participants.Repository
	hub             *realtime.Hub
}

// NewHandler creates a questions handler.
func NewHandler(repo *Repository, participantRepo *participants.Repository, hub *realtime.Hub) *Handler {
	return &Handler{repo: repo, participantRepo: participantRepo, hub: hub}
}

// Create handles POST /conferences/:id/questions.
func (h *Handler) Create(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	q := &models.Question{
		ConferenceID: conferenceID,
		QuestionText: req.QuestionText,
		QuestionType: req.QuestionType,
		Options:      req.Options,
		ChartType:    defaultChart(req.ChartType),
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	if err := h.repo.Create(c.Request.Context(), q); err != nil {
		response.Internal(c, "failed to create question")
		return
	}
	response.Created(c, q)
}

// questionWithCount decorates a question with its answer tally for the
// moderation panel list.
type questionWithCount struct {
	models.Question
	ResponseCount int `json:"response_count"`
}

// ListByConference handles GET /conferences/:id/questions.
func (h *Handler) ListByConference(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	ctx := c.Request.Context()
	list, err := h.repo.ListByConference(ctx, conferenceID)
	if err != nil {
		response.Internal(c, "failed to list questions")
		return
	}
	out := make([]questionWithCount, 0, len(list))
	for _, q := range list {
		n, err := h.repo.ResponseCount(ctx, q.ID)
		if err != nil {
			response.Internal(c, "failed to count responses")
			return
		}
		out = append(out, questionWithCount{Question: q, ResponseCount: n})
	}
	response.OK(c, out)
}

// Activate handles POST /questions/:id/activate.
func (h *Handler) Activate(c *gin.Context) {
	q, ok := h.questionFromPath(c)
	if !ok {
		return
	}
	if err := h.repo.Activate(c.Request.Context(), q.ConferenceID, q.ID); err != nil {
		response.Internal(c, "failed to activate question")
		return
	}
	h.hub.Notify(q.ConferenceID, realtime.EventQuestionStateChanged, gin.H{"question_id": q.ID, "is_active": true})
	response.OK(c, gin.H{"id": q.ID, "is_active": true})
}

// Deactivate handles POST /questions/:id/deactivate.
func (h *Handler) Deactivate(c *gin.Context) {
	q, ok := h.questionFromPath(c)
	if !ok {
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), q.ConferenceID, q.ID); err != nil {
		response.Internal(c, "failed to deactivate question")
		return
	}
	h.hub.Notify(q.ConferenceID, realtime.EventQuestionStateChanged, gin.H{"question_id": q.ID, "is_active": false})
	response.OK(c, gin.H{"id": q.ID, "is_active": false})
}

// ToggleResults handles POST /questions/:id/toggle-results.
func (h *Handler) ToggleResults(c *gin.Context) {
	q, ok := h.questionFromPath(c)
	if !ok {
		return
	}
	show, err := h.repo.ToggleResults(c.Request.Context(), q.ID)
	if err != nil {
		response.Internal(c, "failed to toggle results")
		return
	}
	h.hub.Notify(q.ConferenceID, realtime.EventQuestionStateChanged, gin.H{"question_id": q.ID, "show_results": show})
	response.OK(c, gin.H{"id": q.ID, "show_results": show})
}

// Delete handles DELETE /questions/:id.
func (h *Handler) Delete(c *gin.Context) {
	q, ok := h.questionFromPath(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), q.ID); err != nil {
		response.Internal(c, "failed to delete question")
		return
	}
	h.hub.Notify(q.ConferenceID, realtime.EventQuestionStateChanged, gin.H{"question_id": q.ID, "deleted": true})
	response.NoContent(c)
}

// SubmitAnswer handles POST /questions/:id/answers (participant).
func (h *Handler) SubmitAnswer(c *gin.Context) {
	q, ok := h.questionFromPath(c)
	if !ok {
		return
	}
	if !q.IsActive {
		response.BadRequest(c, "question is not active")
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	token, err := uuid.Parse(req.ParticipantToken)
	if err != nil {
		response.BadRequest(c, "invalid participant token")
		return
	}
	p, err := h.participantRepo.GetByToken(c.Request.Context(), token)
	if err != nil || p.ConferenceID != q.ConferenceID {
		response.NotFound(c, "participant not found")
		return
	}
	stored, err := h.repo.SubmitAnswer(c.Request.Context(), q.ID, p.ID, req.AnswerText)
	if err != nil {
		response.Internal(c, "failed to record answer")
		return
	}
	if stored {
		h.hub.Notify(q.ConferenceID, realtime.EventQuestionStateChanged, gin.H{"question_id": q.ID, "answered": true})
	}
	response.OK(c, gin.H{"question_id": q.ID, "stored": stored})
}

func (h *Handler) questionFromPath(c *gin.Context) (*models.Question, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return nil, false
	}
	q, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "question not found")
		return nil, false
	}
	return q, true
}

func defaultChart(v string) string {
	if v == "" {
		return "bar"
	}
	return v
}
