package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

type assessmentResponse struct {
	ID         uint        `json:"id"`
	AssetID    uint        `json:"asset_id"`
	AssessorID uint        `json:"assessor_id"`
	Assessor   string      `json:"assessor,omitempty"`
	Scores     gin.H       `json:"scores"`
	TotalScore int         `json:"total_score"`
	Tier       models.Tier `json:"tier"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func toAssessmentResponse(a models.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:         a.ID,
		AssetID:    a.AssetID,
		AssessorID: a.AssessorID,
		Assessor:   a.Assessor.Username,
		Scores: gin.H{
			"confidentiality": a.Confidentiality,
			"integrity":       a.Integrity,
			"availability":    a.Availability,
			"authenticity":    a.Authenticity,
			"non_repudiation": a.NonRepudiation,
		},
		TotalScore: a.TotalScore,
		Tier:       a.Tier,
		Note:       a.Note,
		CreatedAt:  a.CreatedAt,
	}
}

// AssessmentHistory returns the asset's full ledger, newest first.
func (h *Handler) AssessmentHistory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	history, err := h.ledger.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]assessmentResponse, 0, len(history))
	for _, rec := range history {
		out = append(out, toAssessmentResponse(rec))
	}
	c.JSON(http.StatusOK, gin.H{"assessments": out})
}

type reassessRequest struct {
	Scores scoresRequest `json:"scores" validate:"required"`
	Note   string        `json:"note"`
}

// Reassess appends a new scoring event to the asset's ledger.
func (h *Handler) Reassess(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req reassessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		h.respondError(c, validationFrom(err))
		return
	}

	rec, err := h.assets.Reassess(c.Request.Context(), actor, id, req.Scores.toScores(), req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAssessmentResponse(*rec))
}
