package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/fitmate/api"
	"github.com/raushankrgupta/fitmate/config"
	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/logger"
	"github.com/raushankrgupta/fitmate/recommender"
	"github.com/raushankrgupta/fitmate/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is not set")
	}

	appLog, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()
	logger.SetDefault(appLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := utils.OpenServices(ctx, cfg, appLog)
	if err != nil {
		appLog.Errorf(ctx, "Failed to open services: %v", err)
		os.Exit(1)
	}
	defer svc.Close(context.Background())

	predictor := fitting.NewPredictor(svc.Artifacts, appLog)
	predictor.Load(ctx)

	var images *utils.ImageBucket
	if svc.S3 != nil {
		images = utils.NewImageBucket(svc.S3, cfg.AWSBucketName)
	}

	handler := api.NewHandler(api.Options{
		Store:       svc.Store,
		Predictor:   predictor,
		Recommender: recommender.New(svc.Store, appLog),
		Images:      images,
		Logger:      appLog,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.Errorf(shutdownCtx, "Server shutdown failed: %v", err)
		}
	}()

	appLog.Infof(ctx, "Server starting on port %s...", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Errorf(ctx, "Server failed to start: %v", err)
		os.Exit(1)
	}
	appLog.Infof(context.Background(), "Server stopped")
}
