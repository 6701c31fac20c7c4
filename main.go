package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARN: Error loading .env file, using environment variables from system if set.")
	}

	logger, err := newLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zap.L().Info("shutting down server")
		logger.Sync() //nolint:errcheck
		os.Exit(0)
	}()

	app, err := NewApp()
	if err != nil {
		zap.L().Fatal("failed to initialize application", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	zap.L().Info("API server starting", zap.String("addr", addr))
	if err := app.Start(addr); err != nil {
		zap.L().Fatal("failed to start server", zap.Error(err))
	}
}

// newLogger builds a production zap logger at the level named by
// LOG_LEVEL; DEBUG switches to the development config.
func newLogger(level string) (*zap.Logger, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zap.NewDevelopment()
	case "WARN", "WARNING":
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		return cfg.Build()
	default:
		return zap.NewProduction()
	}
}
