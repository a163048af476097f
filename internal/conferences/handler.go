package conferences

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/realtime"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/response"
)

// CreateRequest is the body for POST /conferences.
type CreateRequest struct {
	Name              string `json:"name" binding:"required"`
	Language          string `json:"language"`
	DisplayResolution string `json:"display_resolution"`
	OverlayBackground string `json:"overlay_background"`
}

// UpdateRequest is the body for PATCH /conferences/:id. Omitted fields keep
// their current value.
type UpdateRequest struct {
	Name              *string `json:"name"`
	Language          *string `json:"language"`
	DisplayResolution *string `json:"display_resolution"`
	OverlayBackground *string `json:"overlay_background"`
	IsActive          *bool   `json:"is_active"`
}

// Handler handles conference HTTP endpoints.
type Handler struct {
	repo *Repository
	hub  *realtime.Hub
}

// NewHandler creates a conferences handler.
func NewHandler(repo *Repository, hub *realtime.Hub) *Handler {
	return &Handler{repo: repo, hub: hub}
}

// Create handles POST /conferences.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	conf := &models.Conference{
		Name:              req.Name,
		Language:          defaultStr(req.Language, "no"),
		DisplayResolution: defaultStr(req.DisplayResolution, "1920x1080"),
		OverlayBackground: defaultStr(req.OverlayBackground, "transparent"),
	}
	if err := h.repo.Create(c.Request.Context(), conf); err != nil {
		response.Internal(c, "failed to create conference")
		return
	}
	response.Created(c, conf)
}

// List handles GET /conferences.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list conferences")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /conferences/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	conf, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "conference not found")
		return
	}
	response.OK(c, conf)
}

// GetByUUID handles GET /conferences/by-uuid/:uuid (public). Overlays fetch
// display settings here before opening the live stream.
func (h *Handler) GetByUUID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		response.BadRequest(c, "invalid conference uuid")
		return
	}
	conf, err := h.repo.GetByUUID(c.Request.Context(), id)
	if err != nil || !conf.IsActive {
		response.NotFound(c, "conference not found")
		return
	}
	response.OK(c, gin.H{
		"uuid":               conf.UUID,
		"name":               conf.Name,
		"language":           conf.Language,
		"display_resolution": conf.DisplayResolution,
		"overlay_background": conf.OverlayBackground,
	})
}

// Update handles PATCH /conferences/:id (settings edit).
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	conf, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "conference not found")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Name != nil {
		conf.Name = *req.Name
	}
	if req.Language != nil {
		conf.Language = *req.Language
	}
	if req.DisplayResolution != nil {
		conf.DisplayResolution = *req.DisplayResolution
	}
	if req.OverlayBackground != nil {
		conf.OverlayBackground = *req.OverlayBackground
	}
	if req.IsActive != nil {
		conf.IsActive = *req.IsActive
	}
	if err := h.repo.UpdateSettings(c.Request.Context(), conf.ID, conf.Name, conf.Language,
		conf.DisplayResolution, conf.OverlayBackground, conf.IsActive); err != nil {
		response.Internal(c, "failed to update conference")
		return
	}

	// Wakes broadcast loops so a deactivation terminates streams promptly.
	h.hub.Notify(conf.ID, realtime.EventQuestionStateChanged, gin.H{"conference_id": conf.ID})
	response.OK(c, conf)
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
