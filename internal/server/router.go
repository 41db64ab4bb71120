package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/assetcode"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/config"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/handlers"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/ledger"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/middleware"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/service"
)

type Server struct {
	engine *gin.Engine
	audit  *activitylog.Recorder
	cfg    *config.Config
	log    zerolog.Logger
}

func New(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *Server {
	audit := activitylog.New(db, log)
	ledg := ledger.New(db)
	store := service.NewStore(db)
	codes := assetcode.New(db)

	assets := service.NewAssetService(store, codes, ledg, audit, log)
	users := service.NewUserService(store, audit, log)
	h := handlers.New(assets, users, ledg, audit, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(log))

	sessStore := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("pakat_session", sessStore))
	r.Use(middleware.InjectUser())

	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())

	// ASET
	api.GET("/assets", h.ListAssets)
	api.GET("/assets/:id", h.GetAsset)
	api.POST("/assets",
		middleware.RequireRole(models.RoleAdmin, models.RoleManajerAset),
		h.CreateAsset,
	)
	api.PUT("/assets/:id",
		middleware.RequireRole(models.RoleAdmin, models.RoleManajerAset),
		h.UpdateAsset,
	)

	// PENILAIAN
	api.GET("/assets/:id/assessments", h.AssessmentHistory)
	api.POST("/assets/:id/assessments",
		middleware.RequireRole(models.RoleAdmin, models.RoleManajerAset),
		h.Reassess,
	)

	// REFERENSI
	api.GET("/categories", h.ListCategories)

	// AMBANG KLASIFIKASI
	api.GET("/thresholds", h.GetThresholds)
	api.PUT("/thresholds",
		middleware.RequireRole(models.RoleAdmin),
		h.UpdateThresholds,
	)

	// LOG AKTIVITAS
	api.GET("/activity-logs",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		h.ListActivityLogs,
	)

	// PENGGUNA
	api.DELETE("/users/:id",
		middleware.RequireRole(models.RoleAdmin),
		h.DeleteUser,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return &Server{engine: r, audit: audit, cfg: cfg, log: log}
}

// Run serves until ctx is cancelled, then shuts the listener down and drains
// the activity-log retry queue so no audit record is lost on exit.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.ServerPort),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.audit.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("server shutdown failed")
	}

	s.audit.Close()
	return nil
}
