package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/http/validation"
	"github.com/chesterOps/meetro/internal/modules/donations"
	"github.com/chesterOps/meetro/internal/modules/events"
	"github.com/chesterOps/meetro/internal/shared/apperr"
)

const maxCoverImageSize = 5 << 20 // 5 MB

type EventHandler struct {
	Logger    *slog.Logger
	Events    *events.Service
	Repo      *events.Repo
	Donations *donations.Repo
}

func NewEventHandler(logger *slog.Logger, svc *events.Service, repo *events.Repo, donationsRepo *donations.Repo) *EventHandler {
	return &EventHandler{Logger: logger, Events: svc, Repo: repo, Donations: donationsRepo}
}

type createEventInput struct {
	Title         string     `json:"title" binding:"required,min=3,max=255"`
	Description   string     `json:"description" binding:"max=5000"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	IsPrivate     bool       `json:"is_private"`
	ChipInEnabled bool       `json:"chip_in_enabled"`
	ChipInTarget  float64    `json:"chip_in_target" binding:"gte=0"`
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("authentication required"))
		return
	}

	var in createEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid event data.", errs))
		return
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		middleware.Fail(c, apperr.InvalidErr("Invalid event data.", map[string]string{
			"ends_at": "End time must be after start time.",
		}))
		return
	}
	if in.ChipInEnabled && !in.IsPrivate {
		middleware.Fail(c, apperr.InvalidErr("Invalid event data.", map[string]string{
			"chip_in_enabled": "Only private events can collect chip-ins.",
		}))
		return
	}

	ev, err := h.Events.Create(c.Request.Context(), events.CreateInput{
		HostID:        u.ID,
		Title:         in.Title,
		Description:   in.Description,
		StartsAt:      in.StartsAt,
		EndsAt:        in.EndsAt,
		IsPrivate:     in.IsPrivate,
		ChipInEnabled: in.ChipInEnabled,
		ChipInTarget:  in.ChipInTarget,
	})
	if err != nil {
		failMapped(c, err)
		return
	}

	c.JSON(http.StatusCreated, eventView(ev))
}

// GET /api/events/:slug
func (h *EventHandler) GetBySlug(c *gin.Context) {
	ev, err := h.Repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		failMapped(c, err)
		return
	}
	c.JSON(http.StatusOK, eventView(ev))
}

// GET /api/me/events
func (h *EventHandler) ListMine(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("authentication required"))
		return
	}

	list, err := h.Repo.ListByHost(c.Request.Context(), u.ID)
	if err != nil {
		failMapped(c, err)
		return
	}

	out := make([]gin.H, 0, len(list))
	for _, ev := range list {
		out = append(out, eventView(ev))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/events/:slug/chipins (host only)
func (h *EventHandler) ListChipIns(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("authentication required"))
		return
	}

	ev, err := h.Repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		failMapped(c, err)
		return
	}
	if ev.HostID != u.ID {
		middleware.Fail(c, apperr.ForbiddenErr("Only the host can view chip-ins."))
		return
	}

	list, err := h.Donations.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		failMapped(c, err)
		return
	}

	out := make([]gin.H, 0, len(list))
	var total float64
	for _, d := range list {
		if d.Status == donations.StatusCompleted {
			total += d.Amount
		}
		out = append(out, gin.H{
			"reference":  d.PaymentReference,
			"amount":     d.Amount,
			"fee":        d.Fee,
			"currency":   d.Currency,
			"status":     d.Status,
			"created_at": d.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "total_completed": total})
}

// POST /api/events/:slug/cover-image (host only, multipart)
func (h *EventHandler) UploadCoverImage(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("authentication required"))
		return
	}

	ev, err := h.Repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		failMapped(c, err)
		return
	}
	if ev.HostID != u.ID {
		middleware.Fail(c, apperr.ForbiddenErr("Only the host can change the cover image."))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("An image file is required.", nil))
		return
	}
	if fileHeader.Size > maxCoverImageSize {
		middleware.Fail(c, apperr.InvalidErr("Image must be 5MB or smaller.", nil))
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		middleware.Fail(c, apperr.InvalidErr("Image must be JPEG, PNG or WebP.", nil))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	url, err := h.Events.UploadCoverImage(c.Request.Context(), ev.ID, f, fileHeader.Filename, contentType, fileHeader.Size)
	if err != nil {
		failMapped(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cover_image": url})
}

func eventView(ev events.Event) gin.H {
	out := gin.H{
		"id":              ev.ID,
		"title":           ev.Title,
		"slug":            ev.Slug,
		"description":     ev.Description,
		"cover_image":     ev.CoverImage,
		"starts_at":       ev.StartsAt,
		"ends_at":         ev.EndsAt,
		"is_private":      ev.IsPrivate,
		"chip_in_enabled": ev.ChipInEnabled,
		"chip_in_target":  ev.ChipInTarget,
		"created_at":      ev.CreatedAt,
	}
	if ev.Host != nil {
		out["host"] = gin.H{"id": ev.Host.ID, "name": ev.Host.Name}
	}
	return out
}
