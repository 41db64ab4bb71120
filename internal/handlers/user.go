package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteUser removes an account. The user's activity log entries survive with
// user_id nulled; only the live reference is severed.
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), actor, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
