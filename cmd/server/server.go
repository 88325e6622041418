package server

import (
	"club-management-system/config"
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/global/middleware"
	internalOtel "club-management-system/internal/global/otel"
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/global/redis"
	"club-management-system/internal/global/rolecache"
	"club-management-system/internal/global/sentry"
	"club-management-system/internal/global/workflow"
	"club-management-system/internal/module"
	"club-management-system/tools"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	}

	database.Init()
	redis.Init()
	rolecache.Init()
	middleware.SetRoleResolver(rolecache.Default)
	pictureBed.Init()
	workflow.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		tools.PanicOnErr(internalOtel.Init(context.Background()))
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	cfg := config.Get()
	gin.SetMode(string(cfg.Mode))
	r := gin.New()

	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	switch cfg.Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.New("HTTP")))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())

	if cfg.OTel.Enable {
		r.Use(middleware.Trace(cfg.OTel.ServiceName))
	}

	if cfg.Storage.Driver != config.StorageS3 {
		r.Static(cfg.Storage.BaseURL, cfg.Storage.Home)
	}
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + cfg.Prefix))
	}

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tools.PanicOnErr(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	if err := internalOtel.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown TracerProvider", "error", err)
	}
	sentry.Flush(2 * time.Second)
}
