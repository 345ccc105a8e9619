package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"AutoBlog/internal/app"
	"AutoBlog/internal/config"
	"AutoBlog/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger, closer, err := logging.New(logging.Options{Level: cfg.Logging.Level, LogsDir: cfg.System.LogsDir})
	defer closer.Close()
	if err != nil {
		logger.Warn("daily log file unavailable", "error", err)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application stopped", "error", err)
		return 1
	}
	defer application.Close()

	result := application.Run(ctx)
	fmt.Println(renderResult(result))
	if !result.Success {
		return 1
	}
	return 0
}
