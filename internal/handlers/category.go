package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCategories serves the static asset taxonomy.
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.assets.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}
