package dreamlogs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oneiro-app/oneiro/pkg/oneiro/apperr"
	"github.com/oneiro-app/oneiro/pkg/oneiro/auth"
	"github.com/oneiro-app/oneiro/pkg/oneiro/models"
	"github.com/oneiro-app/oneiro/pkg/oneiro/respond"
	"github.com/oneiro-app/oneiro/pkg/oneiro/revalidate"
	"github.com/oneiro-app/oneiro/pkg/oneiro/tags"
)

// Handler handles dream log requests
type Handler struct {
	db     *gorm.DB
	notify revalidate.Func
}

// NewHandler creates a new dream logs handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, notify: revalidate.Log}
}

// CreateDreamLogRequest represents the request to create a dream log
type CreateDreamLogRequest struct {
	Description string   `json:"description" binding:"required"`
	DreamDate   string   `json:"dream_date" binding:"required"`
	IsNap       *BoolIsh `json:"is_nap"`
	TagNames    []string `json:"tag_names"`
}

// UpdateDreamLogRequest represents the request to update a dream log.
// Omitted fields stay untouched; a present tag_names (even []) replaces the
// whole tag set.
type UpdateDreamLogRequest struct {
	Description *string   `json:"description"`
	DreamDate   *string   `json:"dream_date"`
	IsNap       *BoolIsh  `json:"is_nap"`
	TagNames    *[]string `json:"tag_names"`
}

// DreamLogResponse represents a dream log in API responses
type DreamLogResponse struct {
	ID          uint               `json:"id"`
	Description string             `json:"description"`
	DreamDate   string             `json:"dream_date"`
	IsNap       bool               `json:"is_nap"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	Tags        []tags.TagResponse `json:"tags"`
}

func toResponse(entry models.DreamLog) DreamLogResponse {
	tagResponses := make([]tags.TagResponse, len(entry.Tags))
	for i, t := range entry.Tags {
		tagResponses[i] = tags.ToResponse(t)
	}
	return DreamLogResponse{
		ID:          entry.ID,
		Description: entry.Description,
		DreamDate:   entry.DreamDate.UTC().Format(time.RFC3339),
		IsNap:       entry.IsNap,
		CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   entry.UpdatedAt.UTC().Format(time.RFC3339),
		Tags:        tagResponses,
	}
}

// List returns the user's dream logs newest-first
// @Summary List dream logs
// @Description Get all dream logs of the authenticated user, newest first
// @Tags dream-logs
// @Produce json
// @Param q query string false "Substring filter on description"
// @Param tag query string false "Filter by tag name"
// @Param is_nap query bool false "Filter by nap flag"
// @Success 200 {object} respond.Result{data=[]DreamLogResponse}
// @Security BearerAuth
// @Router /logs [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	filters := Filters{
		Query: c.Query("q"),
		Tag:   c.Query("tag"),
	}
	if isNap := c.Query("is_nap"); isNap != "" {
		v := isNap == "true"
		filters.IsNap = &v
	}

	entries, err := ListByUser(h.db, userID, filters)
	if err != nil {
		respond.Fail(c, err, "failed to fetch dream logs")
		return
	}

	responses := make([]DreamLogResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toResponse(entry)
	}

	respond.OK(c, http.StatusOK, responses)
}

// Get returns a single dream log
// @Summary Get a dream log
// @Description Get one of the authenticated user's dream logs by id
// @Tags dream-logs
// @Produce json
// @Param id path int true "Dream log ID"
// @Success 200 {object} respond.Result{data=DreamLogResponse}
// @Failure 404 {object} respond.Result "Dream log not found"
// @Security BearerAuth
// @Router /logs/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respond.Fail(c, apperr.Validation("invalid dream log identifier"), "invalid request")
		return
	}

	entry, err := GetByID(h.db, userID, uint(id))
	if err != nil {
		respond.Fail(c, err, "failed to fetch dream log")
		return
	}

	respond.OK(c, http.StatusOK, toResponse(*entry))
}

// Create creates a new dream log
// @Summary Create a dream log
// @Description Record a new dream entry, resolving tag names to tags owned by the user
// @Tags dream-logs
// @Accept json
// @Produce json
// @Param request body CreateDreamLogRequest true "Dream log details"
// @Success 201 {object} respond.Result{data=DreamLogResponse}
// @Failure 400 {object} respond.Result "Validation error"
// @Security BearerAuth
// @Router /logs [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateDreamLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("description and dream_date are required"), "invalid request")
		return
	}

	dreamDate, err := parseDreamDate(req.DreamDate)
	if err != nil {
		respond.Fail(c, apperr.Validation("invalid dream date"), "invalid request")
		return
	}

	isNap := false
	if req.IsNap != nil {
		isNap = bool(*req.IsNap)
	}

	entry, err := Create(h.db, userID, req.Description, dreamDate, isNap, req.TagNames)
	if err != nil {
		respond.Fail(c, err, "failed to create dream log")
		return
	}

	h.notify("/logs")
	if len(req.TagNames) > 0 {
		h.notify("/tags")
	}
	respond.OK(c, http.StatusCreated, toResponse(*entry))
}

// Update applies a partial update to a dream log
// @Summary Update a dream log
// @Description Change supplied fields of a dream entry; a supplied tag_names replaces the whole tag set
// @Tags dream-logs
// @Accept json
// @Produce json
// @Param id path int true "Dream log ID"
// @Param request body UpdateDreamLogRequest true "Fields to change"
// @Success 200 {object} respond.Result{data=DreamLogResponse}
// @Failure 400 {object} respond.Result "Validation error"
// @Failure 404 {object} respond.Result "Dream log not found"
// @Security BearerAuth
// @Router /logs/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respond.Fail(c, apperr.Validation("invalid dream log identifier"), "invalid request")
		return
	}

	var req UpdateDreamLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("malformed update payload"), "invalid request")
		return
	}

	patch := Patch{
		Description: req.Description,
		TagNames:    req.TagNames,
	}
	if req.DreamDate != nil {
		dreamDate, err := parseDreamDate(*req.DreamDate)
		if err != nil {
			respond.Fail(c, apperr.Validation("invalid dream date"), "invalid request")
			return
		}
		patch.DreamDate = &dreamDate
	}
	if req.IsNap != nil {
		isNap := bool(*req.IsNap)
		patch.IsNap = &isNap
	}

	entry, err := Update(h.db, userID, uint(id), patch)
	if err != nil {
		respond.Fail(c, err, "failed to update dream log")
		return
	}

	h.notify("/logs")
	if req.TagNames != nil {
		h.notify("/tags")
	}
	respond.OK(c, http.StatusOK, toResponse(*entry))
}

// Delete removes a dream log
// @Summary Delete a dream log
// @Description Delete one of the authenticated user's dream entries; its tags survive
// @Tags dream-logs
// @Produce json
// @Param id path int true "Dream log ID"
// @Success 200 {object} respond.Result
// @Failure 404 {object} respond.Result "Dream log not found"
// @Security BearerAuth
// @Router /logs/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respond.Fail(c, apperr.Validation("invalid dream log identifier"), "invalid request")
		return
	}

	if err := Delete(h.db, userID, uint(id)); err != nil {
		respond.Fail(c, err, "failed to delete dream log")
		return
	}

	h.notify("/logs")
	h.notify("/tags")
	respond.OK(c, http.StatusOK, nil)
}

// RegisterRoutes registers dream log routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/logs", h.List)
	rg.POST("/logs", h.Create)
	rg.GET("/logs/:id", h.Get)
	rg.PUT("/logs/:id", h.Update)
	rg.DELETE("/logs/:id", h.Delete)
}
