package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/shunonion-sudo/health-habits/internal/api"
	"github.com/shunonion-sudo/health-habits/internal/bot"
	"github.com/shunonion-sudo/health-habits/internal/config"
	"github.com/shunonion-sudo/health-habits/internal/llm"
	"github.com/shunonion-sudo/health-habits/internal/messaging"
	"github.com/shunonion-sudo/health-habits/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zapLogger.Sync()

	location := mustLoadLocation(cfg.Timezone, zapLogger)

	logStore, err := openStore(&cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("store init failed", zap.Error(err))
	}

	completer := llm.NewRetrying(llm.NewHTTPClient(llm.HTTPConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	}))

	messenger := messaging.NewClient(messaging.ClientConfig{
		AccessToken: cfg.ChannelAccessToken,
	})

	dispatcher := bot.NewDispatcher(completer, logStore, messenger, bot.SheetNames{
		Meal:       cfg.Store.MealSheet,
		Exercise:   cfg.Store.ExerciseSheet,
		Meditation: cfg.Store.MeditationSheet,
		Journal:    cfg.Store.JournalSheet,
	}, location, zapLogger)

	handler := api.NewHandler(cfg.ChannelSecret, dispatcher, messenger, cfg.ReminderRecipientID, zapLogger)

	app := fiber.New(fiber.Config{
		AppName:               "healthbot",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zapLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("healthbot listening",
		zap.String("port", cfg.Port),
		zap.String("tz", location.String()),
		zap.Bool("sheets_backend", cfg.Store.UseSheets()))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}

func openStore(cfg *config.Config, zapLogger *zap.Logger) (store.Store, error) {
	if cfg.Store.UseSheets() {
		return store.NewSheetsClient(store.SheetsConfig{
			SpreadsheetID:       cfg.Store.SpreadsheetID,
			ServiceAccountEmail: cfg.Store.ServiceAccountEmail,
			PrivateKeyPEM:       []byte(cfg.Store.PrivateKeyPEM),
		}, zapLogger)
	}
	return store.OpenSQLite(cfg.Store.SQLitePath, zapLogger)
}

func mustLoadLocation(name string, zapLogger *zap.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		zapLogger.Warn("invalid timezone, falling back to UTC", zap.String("tz", name))
		return time.UTC
	}
	return location
}
