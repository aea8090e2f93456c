package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"paperpaints/admin"
	"paperpaints/common"
	"paperpaints/config"
	"paperpaints/database"
	"paperpaints/email"
	"paperpaints/logs"
	"paperpaints/session"
	"paperpaints/storage"
	"paperpaints/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	if err := logs.Init(logs.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		logs.Logger.WithError(err).Fatal("Failed to set up logging")
	}
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := common.ConnectDb(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logs.Logger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		logs.Logger.WithError(err).Fatal("Failed to run migrations")
	}

	if !session.SecretUsable(cfg.Auth.Secret()) {
		logs.Logger.WithField("mode", cfg.Auth.Mode).Warn("no usable session secret, logins will be refused")
	}
	if cfg.Auth.Mode == config.AuthModeClaims {
		if _, err := admin.Bootstrap(ctx, store.NewAdmins(db), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logs.Logger.WithError(err).Fatal("Failed to bootstrap admin")
		}
	}

	media, err := storage.New(ctx, cfg)
	if err != nil {
		logs.Logger.WithError(err).Fatal("Failed to open media storage")
	}

	mailer := email.NewEmailService(email.Options{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Notify:   cfg.SMTP.Notify,
	})
	if !mailer.Enabled() {
		logs.Logger.Info("submission notices disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, db, media, mailer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logs.Logger.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"db":      cfg.Database.Driver,
			"auth":    cfg.Auth.Mode,
			"storage": cfg.Storage.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logs.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logs.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}
