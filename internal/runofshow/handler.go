package runofshow

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/realtime"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/response"
)

// StatusNotifier is invoked fire-and-forget when a block goes active or
// completed, so the responsible person can be notified out of band.
type StatusNotifier interface {
	BlockStatusChanged(block *models.RunOfShowBlock)
}

// CreateRequest is the body for POST /conferences/:id/blocks.
type CreateRequest struct {
	DayNumber         int                     `json:"day_number"`
	Title             string                  `json:"title" binding:"required"`
	Description       string                  `json:"description"`
	BlockType         string                  `json:"block_type" binding:"omitempty,oneof=presentation break video audio other"`
	StartTime         string                  `json:"start_time" binding:"required"`
	DurationMinutes   int                     `json:"duration_minutes" binding:"required,min=1"`
	Location          string                  `json:"location"`
	ResponsiblePerson string                  `json:"responsible_person"`
	TechRequirements  models.TechRequirements `json:"tech_requirements"`
	ColorCode         string                  `json:"color_code"`
	DisplayOrder      *int                    `json:"display_order"`
	PresenterNotes    string                  `json:"presenter_notes"`
	VenueNotes        string                  `json:"venue_notes"`
}

// ReorderRequest is the body for POST /conferences/:id/blocks/reorder.
// BlockIDs defines the new order; it must be a permutation of the day's ids.
type ReorderRequest struct {
	DayNumber int     `json:"day_number" binding:"required,min=1"`
	BlockIDs  []int64 `json:"block_ids" binding:"required"`
}

// StatusRequest is the body for PATCH /blocks/:id/status.
type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending active completed skipped"`
}

// DuplicateRequest is the body for POST /conferences/:id/blocks/duplicate.
type DuplicateRequest struct {
	FromDay int `json:"from_day" binding:"required,min=1"`
	ToDay   int `json:"to_day" binding:"required,min=1"`
}

// Handler handles run-of-show HTTP endpoints.
type Handler struct {
	repo     *Repository
	hub      *realtime.Hub
	notifier StatusNotifier
}

// NewHandler creates a run-of-show handler.
func NewHandler(repo *Repository, hub *realtime.Hub, notifier StatusNotifier) *Handler {
	return &Handler{repo: repo, hub: hub, notifier: notifier}
}

// Create handles POST /conferences/:id/blocks.
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
	if _, err := ParseClock(req.StartTime); err != nil {
		response.BadRequest(c, "invalid start_time, expected HH:MM")
		return
	}

	blockType := req.BlockType
	if blockType == "" {
		blockType = models.BlockTypePresentation
	}
	colorCode := req.ColorCode
	if colorCode == "" {
		colorCode = TypeColor(blockType)
	}
	dayNumber := req.DayNumber
	if dayNumber == 0 {
		dayNumber = 1
	}
	displayOrder := -1 // end of day
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	}

	b := &models.RunOfShowBlock{
		ConferenceID:      conferenceID,
		DayNumber:         dayNumber,
		Title:             req.Title,
		Description:       req.Description,
		BlockType:         blockType,
		StartTime:         req.StartTime,
		DurationMinutes:   req.DurationMinutes,
		Location:          req.Location,
		ResponsiblePerson: req.ResponsiblePerson,
		TechRequirements:  req.TechRequirements,
		ColorCode:         colorCode,
		DisplayOrder:      displayOrder,
		PresenterNotes:    req.PresenterNotes,
		VenueNotes:        req.VenueNotes,
	}
	if err := h.repo.Create(c.Request.Context(), b); err != nil {
		response.Internal(c, "failed to create block")
		return
	}
	response.Created(c, b)
}

// List handles GET /conferences/:id/blocks?day=N.
func (h *Handler) List(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	day, _ := strconv.Atoi(c.Query("day"))
	blocks, err := h.repo.ListByConference(c.Request.Context(), conferenceID, day)
	if err != nil {
		response.Internal(c, "failed to list blocks")
		return
	}
	response.OK(c, blockViews(blocks))
}

// Update handles PATCH /blocks/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid block id")
		return
	}
	var fields UpdateFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if fields.StartTime != nil {
		if _, err := ParseClock(*fields.StartTime); err != nil {
			response.BadRequest(c, "invalid start_time, expected HH:MM")
			return
		}
	}
	if fields.DurationMinutes != nil && *fields.DurationMinutes < 1 {
		response.BadRequest(c, "duration_minutes must be positive")
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, fields); err != nil {
		response.NotFound(c, "block not found")
		return
	}
	b, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load block")
		return
	}
	response.OK(c, blockView(*b))
}

// Delete handles DELETE /blocks/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid block id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.NotFound(c, "block not found")
		return
	}
	response.NoContent(c)
}

// Reorder handles POST /conferences/:id/blocks/reorder.
func (h *Handler) Reorder(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.DayBlockIDs(ctx, conferenceID, req.DayNumber)
	if err != nil {
		response.Internal(c, "failed to load blocks")
		return
	}
	if err := ValidateReorder(existing, req.BlockIDs); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.repo.Reorder(ctx, conferenceID, req.DayNumber, req.BlockIDs); err != nil {
		response.Internal(c, "failed to reorder blocks")
		return
	}
	response.OK(c, gin.H{"day_number": req.DayNumber, "block_ids": req.BlockIDs})
}

// SetStatus handles PATCH /blocks/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid block id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: status must be pending, active, completed or skipped")
		return
	}
	b, err := h.repo.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.NotFound(c, "block not found")
		return
	}

	if h.notifier != nil && (b.Status == models.BlockStatusActive || b.Status == models.BlockStatusCompleted) {
		h.notifier.BlockStatusChanged(b)
	}
	h.hub.Notify(b.ConferenceID, realtime.EventBlockStatusChanged,
		gin.H{"block_id": b.ID, "status": b.Status})
	response.OK(c, blockView(*b))
}

// Conflicts handles GET /conferences/:id/blocks/conflicts?day=&start=&duration=&exclude=.
func (h *Handler) Conflicts(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	day, _ := strconv.Atoi(c.Query("day"))
	if day < 1 {
		response.BadRequest(c, "day required")
		return
	}
	duration, _ := strconv.Atoi(c.Query("duration"))
	if duration < 1 {
		response.BadRequest(c, "duration required")
		return
	}
	exclude, _ := strconv.ParseInt(c.Query("exclude"), 10, 64)

	blocks, err := h.repo.ListByConference(c.Request.Context(), conferenceID, day)
	if err != nil {
		response.Internal(c, "failed to load blocks")
		return
	}
	conflicts, err := Conflicts(blocks, c.Query("start"), duration, exclude)
	if err != nil {
		response.BadRequest(c, "invalid start, expected HH:MM")
		return
	}
	response.OK(c, gin.H{"conflicts": blockViews(conflicts), "count": len(conflicts)})
}

// DayDuration handles GET /conferences/:id/blocks/duration?day=N.
func (h *Handler) DayDuration(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	day, _ := strconv.Atoi(c.Query("day"))
	blocks, err := h.repo.ListByConference(c.Request.Context(), conferenceID, day)
	if err != nil {
		response.Internal(c, "failed to load blocks")
		return
	}
	total, formatted := DayDuration(blocks)
	response.OK(c, gin.H{"total_minutes": total, "formatted": formatted})
}

// Upcoming handles GET /conferences/:id/blocks/upcoming?limit=N: the active
// block first, then pending blocks in schedule order.
func (h *Handler) Upcoming(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = 3
	}
	blocks, err := h.repo.ListByConference(c.Request.Context(), conferenceID, 0)
	if err != nil {
		response.Internal(c, "failed to load blocks")
		return
	}

	upcoming := make([]models.RunOfShowBlock, 0, limit)
	for _, b := range blocks {
		if b.Status == models.BlockStatusActive {
			upcoming = append(upcoming, b)
		}
	}
	for _, b := range blocks {
		if b.Status == models.BlockStatusPending {
			upcoming = append(upcoming, b)
		}
	}
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	response.OK(c, blockViews(upcoming))
}

// Export handles GET /conferences/:id/blocks/export (CSV download).
func (h *Handler) Export(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	blocks, err := h.repo.ListByConference(c.Request.Context(), conferenceID, 0)
	if err != nil {
		response.Internal(c, "failed to load blocks")
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="runofshow.csv"`)
	c.Status(http.StatusOK)
	if err := WriteCSV(c.Writer, blocks); err != nil {
		// headers are gone already; nothing better to do than drop the stream
		_ = c.Error(err)
	}
}

// Duplicate handles POST /conferences/:id/blocks/duplicate.
func (h *Handler) Duplicate(c *gin.Context) {
	conferenceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}
	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.FromDay == req.ToDay {
		response.BadRequest(c, "from_day and to_day must differ")
		return
	}
	n, err := h.repo.DuplicateDay(c.Request.Context(), conferenceID, req.FromDay, req.ToDay)
	if err != nil {
		response.Internal(c, "failed to duplicate day")
		return
	}
	response.OK(c, gin.H{"copied": n, "to_day": req.ToDay})
}

// blockView decorates a block with its derived end time and, when active, the
// live countdown.
type view struct {
	models.RunOfShowBlock
	EndTime   string     `json:"end_time"`
	TypeLabel string     `json:"type_label"`
	Countdown *Countdown `json:"countdown,omitempty"`
}

func blockView(b models.RunOfShowBlock) view {
	end, _ := EndTime(b.StartTime, b.DurationMinutes)
	return view{
		RunOfShowBlock: b,
		EndTime:        end,
		TypeLabel:      TypeLabel(b.BlockType),
		Countdown:      BlockCountdown(&b, time.Now()),
	}
}

func blockViews(blocks []models.RunOfShowBlock) []view {
	out := make([]view, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockView(b))
	}
	return out
}
