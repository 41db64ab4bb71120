package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/classification"
)

func (h *Handler) GetThresholds(c *gin.Context) {
	th, err := h.ledger.Thresholds(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, th)
}

type updateThresholdsRequest struct {
	High   int `json:"high_threshold" validate:"required"`
	Medium int `json:"medium_threshold" validate:"required"`
}

// UpdateThresholds replaces the classification thresholds. Stored assessments
// keep their frozen tier; only future evaluations change.
func (h *Handler) UpdateThresholds(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req updateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		h.respondError(c, validationFrom(err))
		return
	}

	th := classification.Thresholds{High: req.High, Medium: req.Medium}
	if err := h.ledger.UpdateThresholds(c.Request.Context(), th, actor.ID); err != nil {
		h.respondError(c, err)
		return
	}

	uid := actor.ID
	h.audit.Record(c.Request.Context(), activitylog.Entry{
		UserID:    &uid,
		Username:  actor.Username,
		Activity:  fmt.Sprintf("Mengubah ambang klasifikasi menjadi tinggi=%d, sedang=%d", th.High, th.Medium),
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	})

	c.JSON(http.StatusOK, th)
}
