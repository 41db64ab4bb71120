// Package handlers binds the asset, assessment, activity-log and threshold
// services to a thin JSON surface. Handlers validate and translate; all
// domain rules live in the services they call.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/ledger"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/middleware"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/service"
)

var validate = validator.New()

type Handler struct {
	assets *service.AssetService
	users  *service.UserService
	ledger *ledger.Ledger
	audit  *activitylog.Recorder
	log    zerolog.Logger
}

func New(assets *service.AssetService, users *service.UserService, ledg *ledger.Ledger, audit *activitylog.Recorder, log zerolog.Logger) *Handler {
	return &Handler{assets: assets, users: users, ledger: ledg, audit: audit, log: log}
}

// currentActor builds the acting identity from the session user injected by
// the middleware.
func (h *Handler) currentActor(c *gin.Context) (service.Actor, bool) {
	val, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		return service.Actor{}, false
	}
	user, ok := val.(models.User)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}, true
}

func (h *Handler) requireActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := h.currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
	return actor, ok
}

// respondError maps the error taxonomy onto HTTP statuses. Validation
// failures carry field detail and are never logged as server faults;
// dependency failures are logged and surfaced generically.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	var nf *apperr.NotFoundError
	var ce *apperr.ConflictError
	var de *apperr.DependencyError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": ve.Fields})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Error(), "retryable": true})
	case errors.As(err, &de):
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("dependency failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// validationFrom converts validator tag failures into the shared taxonomy so
// clients see one error shape.
func validationFrom(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("body", "malformed request body")
	}
	ve := &apperr.ValidationError{}
	for _, fe := range verrs {
		ve.Add(fe.Field(), "failed rule: "+fe.Tag())
	}
	return ve
}
