package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mailgun-mock/internal/config"
	"mailgun-mock/internal/extract"
	"mailgun-mock/internal/handler"
	"mailgun-mock/internal/logger"
	appmiddleware "mailgun-mock/internal/middleware"
	"mailgun-mock/internal/model"
	"mailgun-mock/internal/render"
	"mailgun-mock/internal/repository/memory"
	"mailgun-mock/internal/router"
	"mailgun-mock/internal/service"
	"mailgun-mock/internal/sse"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mailgun-mock",
		Short:         "Capture Mailgun API calls and browse them instead of sending email",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}
			return run(cfg)
		},
	}
	config.RegisterFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// Validate has already checked both of these
	level, _ := logger.ParseLevel(cfg.LogLevel)
	loc, _ := cfg.Location()

	appLogger := logger.New(level)

	messageRepo := memory.NewInMemoryMessageRepository()
	extractor := extract.NewExtractor(model.NewIDGenerator(time.Now))

	sseManager := sse.NewSSEManager(appLogger)
	defer sseManager.Close()

	messageService := service.NewMessageService(messageRepo, extractor, sseManager, appLogger)

	renderer, err := render.NewRenderer(loc)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(appmiddleware.RequestLogger(appLogger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.MaxBodySize))

	messageHandler := handler.NewMessageHandler(messageService, cfg.MessagesSuffix, e.Logger)
	eventHandler := handler.NewEventHandler(messageService, sseManager, e.Logger)

	router.SetupRoutes(e, messageHandler, eventHandler)

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	appLogger.Infof("Mailgun Mock API running on port %s (%s)", cfg.Port, cfg.Env)
	appLogger.Infof("View emails at: %s/", baseURL)
	appLogger.Infof("Mailgun endpoint: %s%s", baseURL, cfg.MessagesSuffix)
	appLogger.Infof("Clear all emails: %s/clear", baseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server:", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down")
	// SSE streams only end when their subscriptions close
	sseManager.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
