package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

// PressReleaseHandler serves the imported press release links.
type PressReleaseHandler struct {
	service services.PressReleaseService
}

// NewPressReleaseHandler creates a new PressReleaseHandler instance.
func NewPressReleaseHandler(service services.PressReleaseService) *PressReleaseHandler {
	return &PressReleaseHandler{service: service}
}

// List handles GET /api/v1/press-releases.
func (h *PressReleaseHandler) List(c *gin.Context) {
	links, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(links))
}

// Latest handles GET /api/v1/press-releases/latest.
func (h *PressReleaseHandler) Latest(c *gin.Context) {
	link, err := h.service.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
