package participants

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/conferences"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/response"
)

// RegisterRequest is the body for POST /join. Participants join with the
// short code shown on the overlay.
type RegisterRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// Handler handles participant HTTP endpoints.
type Handler struct {
	repo     *Repository
	confRepo *conferences.Repository
}

// NewHandler creates a participants handler.
func NewHandler(repo *Repository, confRepo *conferences.Repository) *Handler {
	return &Handler{repo: repo, confRepo: confRepo}
}

// Count handles GET /conferences/:id/participants/count.
func (h *Handler) Count(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	n, err := h.repo.CountByConference(c.Request.Context(), conferenceID)
	if err != nil {
		response.Internal(c, "failed to count participants")
		return
	}
	response.OK(c, gin.H{"conference_id": conferenceID, "count": n})
}

// Register handles POST /join.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	conf, err := h.confRepo.GetByCode(c.Request.Context(), req.Code)
	if err != nil || !conf.IsActive {
		response.NotFound(c, "conference not found")
		return
	}
	p := &models.Participant{ConferenceID: conf.ID, Name: req.Name}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to register participant")
		return
	}
	response.Created(c, gin.H{
		"participant": p,
		"conference": gin.H{
			"id":       conf.ID,
			"uuid":     conf.UUID,
			"name":     conf.Name,
			"language": conf.Language,
		},
	})
}
