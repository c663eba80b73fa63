package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashwinyue/agri-assist/internal/config"
	"github.com/ashwinyue/agri-assist/internal/handler"
	"github.com/ashwinyue/agri-assist/internal/router"
	"github.com/ashwinyue/agri-assist/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)

	service.SetupCallbacks(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := service.NewServices(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to init services")
	}
	defer func() {
		if err := services.Close(); err != nil {
			logrus.WithError(err).Warn("failed to release resources")
		}
	}()

	// 模型不可用时直接退出
	if err := services.WarmUp(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to load plant disease model")
	}

	go services.Sessions.RunSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTTL)

	handlers := handler.NewHandlers(services)
	r := router.SetupRouter(handlers)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
	}

	logrus.Info("server exited")
}
