package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"paperpaints/admin"
	"paperpaints/common"
	"paperpaints/config"
	"paperpaints/content"
	"paperpaints/metrics"
	"paperpaints/site"
	"paperpaints/storage"
	"paperpaints/submissions"
	"paperpaints/uploads"
)

func newRouter(cfg *config.Config, db *gorm.DB, media storage.Storage, notifier submissions.Notifier) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), common.RequestID(), common.AccessLog(), metrics.Middleware())

	if origins := cfg.Origins(); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id", "If-None-Match"},
			ExposeHeaders:    []string{"ETag", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	maxUpload := cfg.Storage.MaxUploadMB << 20
	api := router.Group("/api")

	site.NewSiteModule(db).RegisterRoutes(api)

	auth := admin.NewAdminModule(db, admin.Options{
		Mode:         cfg.Auth.Mode,
		Secret:       cfg.Auth.Secret(),
		CookieSecure: cfg.Server.CookieSecure,
		LoginLimit:   cfg.RateLimit.LoginPerMinute,
	})
	auth.RegisterRoutes(api)

	content.NewContentModule(db, auth.RequireAuth).RegisterRoutes(api)

	submissions.NewSubmissionsModule(db, auth.RequireAuth, media, notifier, submissions.Options{
		SubmitLimit:    cfg.RateLimit.SubmitPerMinute,
		MaxResumeBytes: maxUpload,
	}).RegisterRoutes(api)

	uploads.NewUploadsModule(media, auth.RequireAuth, maxUpload).RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if fs, ok := media.(*storage.StorageFS); ok && strings.HasPrefix(fs.PublicURL, "/") {
		router.Static(strings.TrimRight(fs.PublicURL, "/"), fs.Root)
	}

	return router
}
