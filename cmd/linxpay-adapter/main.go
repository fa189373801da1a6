package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Checker-Finance/linxpay/internal/api"
	"github.com/Checker-Finance/linxpay/pkg/config"
	"github.com/Checker-Finance/linxpay/pkg/linxpay"
	"github.com/Checker-Finance/linxpay/pkg/logger"
	"github.com/Checker-Finance/linxpay/pkg/secrets"
	"github.com/Checker-Finance/linxpay/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [linxpay-adapter]...")

	// --- Credentials: environment, or AWS Secrets Manager per client ---
	stopCleaner := make(chan struct{})
	creds := cfg.Credentials()
	if cfg.SecretsClient != "" {
		awsProvider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}

		credsCache := secrets.NewCache[linxpay.Credentials](cfg.CacheTTL)
		go credsCache.StartCleaner(cfg.CleanupFreq, stopCleaner)

		resolver := secrets.NewCredentialsResolver(logg.Desugar(), cfg.Env, awsProvider, credsCache)
		creds, err = resolver.Resolve(ctx, cfg.SecretsClient)
		if err != nil {
			logg.Fatalw("failed to resolve linxpay credentials", "client", cfg.SecretsClient, "error", err)
		}
	}

	// --- LinxPay client ---
	client, err := linxpay.New(creds, cfg.ClientOptions(logg.Desugar())...)
	if err != nil {
		logg.Fatalw("invalid linxpay configuration", "error", err)
	}

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	handler := api.NewLinxPayHandler(logg.Desugar(), client)
	api.RegisterRoutes(app, handler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[linxpay-adapter] running",
		"env", cfg.Env,
		"base_uri", creds.BaseURI,
		"client_id", creds.ClientID,
		"client_secret", utils.MaskSecret(creds.ClientSecret))

	<-ctx.Done()
	logg.Info("shutting down [linxpay-adapter]...")

	close(stopCleaner)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
}
