package tags

import (
	"errors"
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
)

// Handler handles tag-related requests
type Handler struct {
	db     *gorm.DB
	notify revalidate.Func
}

// NewHandler creates a new tags handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, notify: revalidate.Log}
}

// CreateTagRequest represents the request to create a tag
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameTagRequest represents the request to rename a tag
type RenameTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	DreamCount int    `json:"dream_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ToResponse converts a tag model to its API shape
func ToResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: tag.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns the user's tags ordered by name, each with the number of live
// dream logs it is attached to
// @Summary List tags
// @Description Get all tags owned by the authenticated user with usage counts
// @Tags tags
// @Produce json
// @Success 200 {object} respond.Result{data=[]TagResponse}
// @Security BearerAuth
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	type tagWithCount struct {
		ID         uint
		Name       string
		DreamCount int
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	var results []tagWithCount
	err := h.db.Table("tags").
		Select("tags.id, tags.name, tags.created_at, tags.updated_at, COUNT(DISTINCT dream_logs.id) AS dream_count").
		Joins("LEFT JOIN dream_log_tags ON dream_log_tags.tag_id = tags.id").
		Joins("LEFT JOIN dream_logs ON dream_logs.id = dream_log_tags.dream_log_id AND dream_logs.deleted_at IS NULL").
		Where("tags.user_id = ?", userID).
		Group("tags.id").
		Order("tags.name ASC").
		Find(&results).Error
	if err != nil {
		respond.Fail(c, err, "failed to fetch tags")
		return
	}

	tags := make([]TagResponse, len(results))
	for i, r := range results {
		tags[i] = TagResponse{
			ID:         r.ID,
			Name:       r.Name,
			DreamCount: r.DreamCount,
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:  r.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}

	respond.OK(c, http.StatusOK, tags)
}

// Create creates a new tag
// @Summary Create a tag
// @Description Create a new tag for the authenticated user
// @Tags tags
// @Accept json
// @Produce json
// @Param request body CreateTagRequest true "Tag details"
// @Success 201 {object} respond.Result{data=TagResponse}
// @Failure 400 {object} respond.Result "Validation error"
// @Failure 409 {object} respond.Result "Tag name already exists"
// @Security BearerAuth
// @Router /tags [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("tag name is required"), "invalid request")
		return
	}

	names := NormalizeNames([]string{req.Name})
	if len(names) == 0 {
		respond.Fail(c, apperr.Validation("tag name is required"), "invalid request")
		return
	}

	tag := models.Tag{UserID: userID, Name: names[0]}
	if err := h.db.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respond.Fail(c, apperr.WithMessage(apperr.ErrDuplicateName, "tag name already exists"), "tag name already exists")
			return
		}
		respond.Fail(c, err, "failed to create tag")
		return
	}

	h.notify("/tags")
	respond.OK(c, http.StatusCreated, ToResponse(tag))
}

// Rename changes a tag's name
// @Summary Rename a tag
// @Description Rename one of the authenticated user's tags
// @Tags tags
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param request body RenameTagRequest true "New name"
// @Success 200 {object} respond.Result{data=TagResponse}
// @Failure 400 {object} respond.Result "Validation error"
// @Failure 404 {object} respond.Result "Tag not found"
// @Failure 409 {object} respond.Result "Tag name already exists"
// @Security BearerAuth
// @Router /tags/{id} [put]
func (h *Handler) Rename(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	tagID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respond.Fail(c, apperr.Validation("invalid tag identifier"), "invalid request")
		return
	}

	var req RenameTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("tag name is required"), "invalid request")
		return
	}

	tag, err := Rename(h.db, userID, uint(tagID), req.Name)
	if err != nil {
		respond.Fail(c, err, "failed to rename tag")
		return
	}

	h.notify("/tags")
	respond.OK(c, http.StatusOK, ToResponse(*tag))
}

// Delete removes an unreferenced tag
// @Summary Delete a tag
// @Description Delete a tag that is not attached to any dream log
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} respond.Result
// @Failure 404 {object} respond.Result "Tag not found"
// @Failure 409 {object} respond.Result "Tag still attached to dream logs"
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	tagID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respond.Fail(c, apperr.Validation("invalid tag identifier"), "invalid request")
		return
	}

	if err := DeleteIfUnreferenced(h.db, userID, uint(tagID)); err != nil {
		respond.Fail(c, err, "failed to delete tag")
		return
	}

	h.notify("/tags")
	respond.OK(c, http.StatusOK, nil)
}

// RegisterRoutes registers tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.POST("/tags", h.Create)
	rg.PUT("/tags/:id", h.Rename)
	rg.DELETE("/tags/:id", h.Delete)
}
