// Package site serves the liveness and readiness probes.
package site

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"paperpaints/common"
	"paperpaints/logs"
)

const pingTimeout = 2 * time.Second

type SiteModule struct {
	db *gorm.DB
}

func NewSiteModule(db *gorm.DB) *SiteModule {
	return &SiteModule{db: db}
}

func (s *SiteModule) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", s.health)
	router.GET("/ready", s.ready)
}

func (s *SiteModule) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ready fails while the database cannot be reached.
func (s *SiteModule) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logs.Logger.WithField("reqid", common.RequestIDFrom(c)).WithError(err).Warn("readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
