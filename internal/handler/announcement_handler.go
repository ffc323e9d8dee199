package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-website-api/internal/models"
	"github.com/noah-isme/school-website-api/internal/service"
	"github.com/noah-isme/school-website-api/pkg/response"
)

type announcementService interface {
	ListVisible(ctx context.Context) ([]models.AnnouncementView, error)
	ListRecent(ctx context.Context, days, limit int) ([]models.AnnouncementView, error)
	ListFeatured(ctx context.Context) ([]models.AnnouncementView, error)
	ListByCategory(ctx context.Context, category string) ([]models.AnnouncementView, error)
	Get(ctx context.Context, id string) (*models.AnnouncementView, error)
	Create(ctx context.Context, req service.CreateAnnouncementRequest) (*models.AnnouncementView, error)
	Update(ctx context.Context, id string, req service.UpdateAnnouncementRequest) (*models.AnnouncementView, error)
	SoftDelete(ctx context.Context, id string) (*models.AnnouncementView, error)
	ReplaceImage(ctx context.Context, id string, data []byte) (*models.AnnouncementView, error)
}

// AnnouncementHandler exposes announcement endpoints.
type AnnouncementHandler struct {
	announcements announcementService
	maxUploadSize int64
}

// NewAnnouncementHandler constructs AnnouncementHandler.
func NewAnnouncementHandler(announcements announcementService, maxUploadSize int64) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements, maxUploadSize: maxUploadSize}
}

// List godoc
// @Summary List visible announcements, newest first
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	h.respondList(c, func(ctx context.Context) ([]models.AnnouncementView, error) {
		return h.announcements.ListVisible(ctx)
	})
}

// Recent godoc
// @Summary List announcements created in the trailing window
// @Tags Announcements
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Param limit query int false "Maximum number of items"
// @Success 200 {object} response.Envelope
// @Router /announcements/recent [get]
func (h *AnnouncementHandler) Recent(c *gin.Context) {
	days := queryInt(c, "days")
	limit := queryInt(c, "limit")
	h.respondList(c, func(ctx context.Context) ([]models.AnnouncementView, error) {
		return h.announcements.ListRecent(ctx, days, limit)
	})
}

// Featured godoc
// @Summary List featured announcements
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /announcements/featured [get]
func (h *AnnouncementHandler) Featured(c *gin.Context) {
	h.respondList(c, func(ctx context.Context) ([]models.AnnouncementView, error) {
		return h.announcements.ListFeatured(ctx)
	})
}

// ByCategory godoc
// @Summary List announcements in a category
// @Tags Announcements
// @Produce json
// @Param category path string true "event, academic, sports, general or holiday"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /announcements/category/{category} [get]
func (h *AnnouncementHandler) ByCategory(c *gin.Context) {
	category := c.Param("category")
	h.respondList(c, func(ctx context.Context) ([]models.AnnouncementView, error) {
		return h.announcements.ListByCategory(ctx, category)
	})
}

// Get godoc
// @Summary Get announcement
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	item, err := h.announcements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Publish announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	item, err := h.announcements.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Partially update announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param payload body service.UpdateAnnouncementRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id} [patch]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req service.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	item, err := h.announcements.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Soft delete announcement
// @Tags Announcements
// @Param id path string true "Announcement ID"
// @Success 204
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if _, err := h.announcements.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadImage godoc
// @Summary Replace announcement image
// @Tags Announcements
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Announcement ID"
// @Param image formData file true "jpg, jpeg or png image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /announcements/{id}/upload-image [post]
func (h *AnnouncementHandler) UploadImage(c *gin.Context) {
	data, err := readUpload(c, "image", h.maxUploadSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.announcements.ReplaceImage(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

func (h *AnnouncementHandler) respondList(c *gin.Context, load func(context.Context) ([]models.AnnouncementView, error)) {
	items, err := load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items)
}

// queryInt reads a positive integer query parameter; anything else yields 0.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
