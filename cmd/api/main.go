package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/youngthe/gemini-demo/internal/api"
	"github.com/youngthe/gemini-demo/internal/config"
	"github.com/youngthe/gemini-demo/internal/logger"
	"github.com/youngthe/gemini-demo/internal/repository"
	"github.com/youngthe/gemini-demo/internal/service"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(nil)
	logger.SetDefaultLogger(appLogger)

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	newsRepo := repository.NewNewsRepository(db)

	gen := service.NewGenerationService(&service.GenerationConfig{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	})

	today := service.NewTodayService(gen, appLogger, &service.TodayConfig{
		Interval: cfg.Refresh.Interval,
	})
	chat := service.NewChatService(gen)
	motor := service.NewMotorService(gen)
	kakao := service.NewKakaoService(&service.KakaoConfig{
		RESTAPIKey:  cfg.Kakao.RESTAPIKey,
		RedirectURI: cfg.Kakao.RedirectURI,
		AuthBaseURL: cfg.Kakao.AuthBaseURL,
		APIBaseURL:  cfg.Kakao.APIBaseURL,
	})

	// Run the first refresh before accepting traffic so the cache is in a
	// known state, then keep refreshing on the configured interval.
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	today.Start(refreshCtx, cfg.Refresh.StartTimeout)

	router := api.SetupRouter(today, chat, motor, kakao, newsRepo, cfg, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	stopRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
