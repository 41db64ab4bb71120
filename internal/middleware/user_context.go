package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/database"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

const CurrentUserKey = "CurrentUser"

// InjectUser resolves the session's user row once per request so handlers can
// build the acting identity without re-querying.
func InjectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uidRaw := sess.Get("user_id"); uidRaw != nil {
			if uid, ok := uidRaw.(uint); ok && uid > 0 {
				var user models.User
				if err := database.DB.First(&user, uid).Error; err == nil {
					c.Set(CurrentUserKey, user)
				}
			}
		}

		c.Next()
	}
}
