package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/services"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type LinkHandler struct {
	BaseHandler
	linkService services.LinkService
}

func NewLinkHandler(linkService services.LinkService, logger utils.Logger) *LinkHandler {
	return &LinkHandler{
		BaseHandler: NewBaseHandler(logger),
		linkService: linkService,
	}
}

// CreateLink generates a shareable link
// @Summary Generate link
// @Description Builds a simple or quiz link from two names and an optional quiz
// @Tags links
// @Accept json
// @Produce json
// @Param link body link.Request true "Names and quiz"
// @Success 201 {object} link.Link
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req link.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithBindError(c, err)
		return
	}

	h.LogRequest(c, "Generating link", "questions", len(req.Quiz))

	l, err := h.linkService.Generate(c.Request.Context(), &req, clientKey(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, l)
}

// ResolveLink tells a front-end which screen an opened link shows
// @Summary Resolve link
// @Tags links
// @Produce json
// @Param data query string false "Quiz link token"
// @Param from query string false "Sender name"
// @Param to query string false "Recipient name"
// @Success 200 {object} services.ResolveResponse
// @Router /links/resolve [get]
func (h *LinkHandler) ResolveLink(c *gin.Context) {
	resp, err := h.linkService.Resolve(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
