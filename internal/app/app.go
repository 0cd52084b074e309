package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mayank200604/HVA/internal/api"
	"github.com/mayank200604/HVA/internal/config"
	"github.com/mayank200604/HVA/internal/provider"
	"github.com/mayank200604/HVA/internal/repository"
	"github.com/mayank200604/HVA/internal/service"
)

// maxRetryAttempts bounds the exponential-backoff retry per provider call.
const maxRetryAttempts = 3

// Run wires the whole application together and blocks serving HTTP.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	imageStore, err := repository.NewImageStore(cfg.ImageDir)
	if err != nil {
		slog.Error("Failed to initialize image store", "error", err)
		return 1
	}
	slog.Info("Image store ready", "dir", imageStore.Dir())

	registry := provider.NewRegistry(
		provider.NewGroq(cfg.GroqAPIURL, cfg.GroqAPIKey, cfg.GroqModel),
		provider.NewGemini(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel),
		provider.NewHFImage(cfg.HFAPIURL, cfg.HFAPIKey, cfg.HFModel),
	)
	retrier := provider.NewRetrier(maxRetryAttempts)

	chatService := service.NewChatService(registry, retrier, cfg.HistoryMaxTurns)
	imageService := service.NewImageService(registry, retrier, imageStore)

	chatHandler := api.NewChatHandler(chatService)
	imageHandler := api.NewImageHandler(imageService, imageStore)
	router := api.NewRouter(chatHandler, imageHandler)

	// Out-of-band sweep of aged generated images. Deletion errors are
	// swallowed inside Sweep; the loop only stops with the process.
	go func() {
		ticker := time.NewTicker(cfg.ImageSweepTick)
		defer ticker.Stop()
		for range ticker.C {
			imageStore.Sweep(cfg.ImageMaxAge)
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
