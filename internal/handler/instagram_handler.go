package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-website-api/internal/models"
	"github.com/noah-isme/school-website-api/pkg/response"
)

type instagramService interface {
	GetFeed(ctx context.Context, limit int) ([]models.InstagramPost, error)
	GetAccount(ctx context.Context) (*models.InstagramAccount, error)
}

// InstagramHandler proxies the school's Instagram presence.
type InstagramHandler struct {
	instagram instagramService
}

// NewInstagramHandler constructs InstagramHandler.
func NewInstagramHandler(instagram instagramService) *InstagramHandler {
	return &InstagramHandler{instagram: instagram}
}

// Feed godoc
// @Summary Recent Instagram posts
// @Tags Instagram
// @Produce json
// @Param limit query int false "Number of posts (default 6)"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /instagram/feed [get]
func (h *InstagramHandler) Feed(c *gin.Context) {
	posts, err := h.instagram.GetFeed(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, posts)
}

// Account godoc
// @Summary Instagram account profile
// @Tags Instagram
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /instagram/account [get]
func (h *InstagramHandler) Account(c *gin.Context) {
	account, err := h.instagram.GetAccount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account)
}
