package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/classification"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/service"
)

type scoresRequest struct {
	Confidentiality int `json:"confidentiality" validate:"required"`
	Integrity       int `json:"integrity" validate:"required"`
	Availability    int `json:"availability" validate:"required"`
	Authenticity    int `json:"authenticity" validate:"required"`
	NonRepudiation  int `json:"non_repudiation" validate:"required"`
}

func (r scoresRequest) toScores() classification.Scores {
	return classification.Scores{
		Confidentiality: r.Confidentiality,
		Integrity:       r.Integrity,
		Availability:    r.Availability,
		Authenticity:    r.Authenticity,
		NonRepudiation:  r.NonRepudiation,
	}
}

type createAssetRequest struct {
	CategoryID uint            `json:"category_id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Location   string          `json:"location"`
	Owner      string          `json:"owner"`
	Status     string          `json:"status" validate:"omitempty,oneof=aktif nonaktif dihapuskan"`
	Detail     json.RawMessage `json:"detail"`
	Scores     scoresRequest   `json:"scores" validate:"required"`
	Note       string          `json:"note"`
}

type updateAssetRequest struct {
	Name     *string         `json:"name"`
	Location *string         `json:"location"`
	Owner    *string         `json:"owner"`
	Status   *string         `json:"status" validate:"omitempty,oneof=aktif nonaktif dihapuskan"`
	Detail   json.RawMessage `json:"detail"`
	Scores   *scoresRequest  `json:"scores"`
	Note     string          `json:"note"`
}

type assetResponse struct {
	ID         uint               `json:"id"`
	Code       string             `json:"code"`
	CategoryID uint               `json:"category_id"`
	Category   string             `json:"category,omitempty"`
	Name       string             `json:"name"`
	Location   string             `json:"location"`
	Owner      string             `json:"owner"`
	Status     models.AssetStatus `json:"status"`
	Tier       models.Tier        `json:"tier"`
	TotalScore *int               `json:"total_score"`
	Detail     json.RawMessage    `json:"detail,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func toAssetResponse(a models.Asset) assetResponse {
	return assetResponse{
		ID:         a.ID,
		Code:       a.Code,
		CategoryID: a.CategoryID,
		Category:   a.Category.Name,
		Name:       a.Name,
		Location:   a.Location,
		Owner:      a.Owner,
		Status:     a.Status,
		Tier:       a.DisplayTier(),
		TotalScore: a.CurrentTotalScore,
		Detail:     json.RawMessage(a.Detail),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (h *Handler) ListAssets(c *gin.Context) {
	var f service.AssetFilter
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_id must be numeric"})
			return
		}
		cid := uint(id)
		f.CategoryID = &cid
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AssetStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		f.Status = &status
	}
	f.Search = c.Query("q")

	assets, err := h.assets.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"assets": out})
}

func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	asset, err := h.assets.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(*asset))
}

func (h *Handler) CreateAsset(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		h.respondError(c, validationFrom(err))
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), actor, service.CreateAssetInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Location:   req.Location,
		Owner:      req.Owner,
		Status:     models.AssetStatus(req.Status),
		Detail:     req.Detail,
		Scores:     req.Scores.toScores(),
		Note:       req.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAssetResponse(*asset))
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		h.respondError(c, validationFrom(err))
		return
	}

	in := service.UpdateAssetInput{
		Name:     req.Name,
		Location: req.Location,
		Owner:    req.Owner,
		Detail:   req.Detail,
		Note:     req.Note,
	}
	if req.Status != nil {
		status := models.AssetStatus(*req.Status)
		in.Status = &status
	}
	if req.Scores != nil {
		scores := req.Scores.toScores()
		in.Scores = &scores
	}

	asset, err := h.assets.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(*asset))
}

func paramID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
