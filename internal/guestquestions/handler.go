package guestquestions

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/participants"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/realtime"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/response"
)

// SubmitRequest is the body for POST /conferences/:id/guest-questions.
type SubmitRequest struct {
	ParticipantToken string `json:"participant_token" binding:"required"`
	QuestionText     string `json:"question_text" binding:"required"`
	IsAnonymous      bool   `json:"is_anonymous"`
}

// ModerateRequest is the body for PATCH /guest-questions/:id.
// remove takes a displayed question off screen (back to approved).
type ModerateRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject display remove"`
}

// Handler handles guest question HTTP endpoints.
type Handler struct {
	repo            *Repository
	participantRepo *participants.Repository
	hub             *realtime.Hub
}

// NewHandler creates a guest questions handler.
func NewHandler(repo *Repository, participantRepo *participants.Repository, hub *realtime.Hub) *Handler {
	return &Handler{repo: repo, participantRepo: participantRepo, hub: hub}
}

// Submit handles POST /conferences/:id/guest-questions (participant).
func (h *Handler) Submit(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	var req SubmitRequest
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
	if err != nil || p.ConferenceID != conferenceID {
		response.NotFound(c, "participant not found")
		return
	}
	g := &models.GuestQuestion{
		ConferenceID:  conferenceID,
		ParticipantID: p.ID,
		QuestionText:  req.QuestionText,
		IsAnonymous:   req.IsAnonymous,
	}
	if err := h.repo.Create(c.Request.Context(), g); err != nil {
		response.Internal(c, "failed to submit question")
		return
	}
	h.hub.Notify(conferenceID, realtime.EventGuestQuestionSubmitted, gin.H{"guest_question_id": g.ID})
	response.Created(c, g)
}

// ListByConference handles GET /conferences/:id/guest-questions (moderation panel).
func (h *Handler) ListByConference(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	list, err := h.repo.ListByConference(c.Request.Context(), conferenceID)
	if err != nil {
		response.Internal(c, "failed to list guest questions")
		return
	}
	response.OK(c, list)
}

// Moderate handles PATCH /guest-questions/:id.
func (h *Handler) Moderate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid guest question id")
		return
	}
	g, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "guest question not found")
		return
	}

	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: action must be approve, reject, display or remove")
		return
	}

	ctx := c.Request.Context()
	var status string
	switch req.Action {
	case "approve", "remove":
		status = models.GuestStatusApproved
		err = h.repo.SetStatus(ctx, g.ConferenceID, g.ID, status)
	case "reject":
		status = models.GuestStatusRejected
		err = h.repo.SetStatus(ctx, g.ConferenceID, g.ID, status)
	case "display":
		status = models.GuestStatusDisplayed
		err = h.repo.Display(ctx, g.ConferenceID, g.ID)
	}
	if err != nil {
		response.Internal(c, "failed to moderate question")
		return
	}

	h.hub.Notify(g.ConferenceID, realtime.EventGuestQuestionModerated,
		gin.H{"guest_question_id": g.ID, "status": status})
	response.OK(c, gin.H{"id": g.ID, "status": status})
}
