package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/database"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		h.respondError(c, validationFrom(err))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	if err := sess.Save(); err != nil {
		h.log.Error().Err(err).Msg("failed to save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	uid := user.ID
	h.audit.Record(c.Request.Context(), activitylog.Entry{
		UserID:    &uid,
		Username:  user.Username,
		Activity:  "Masuk ke sistem",
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if actor, ok := h.currentActor(c); ok {
		uid := actor.ID
		h.audit.Record(c.Request.Context(), activitylog.Entry{
			UserID:    &uid,
			Username:  actor.Username,
			Activity:  "Keluar dari sistem",
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
		})
	}

	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
