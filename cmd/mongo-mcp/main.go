package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mongo-mcp/mcp/internal/cli"
	"github.com/mongo-mcp/mcp/internal/config"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/logger"
	"github.com/mongo-mcp/mcp/internal/server"
)

// Version is overridden at build time with -ldflags "-X main.Version=..."
var Version = "development"

func main() {
	cli.HandleArgs(Version)

	overrides, err := cli.ParseConfigFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, config.ErrMissingConfig) {
			fmt.Fprint(os.Stderr, config.MissingConfigGuidance)
		}
		os.Exit(1)
	}

	// stdout carries protocol frames, so every log line goes to stderr
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(log.Logger)

	if err := run(cfg, log); err != nil {
		log.Error("MongoDB MCP Server stopped with an error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Service) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewMongoService(cfg.MongoURL, cfg.DBName, cfg.ConnectTimeout, log)
	if err != nil {
		return fmt.Errorf("failed to create database service: %w", err)
	}
	if err := dbService.Connect(ctx); err != nil {
		return err
	}

	mcpServer := server.NewMongoMCPServer(Version, cfg, dbService, log)
	serveErr := mcpServer.Start(ctx)

	log.Info("Shutting down MongoDB MCP Server", "timeout", cfg.ShutdownTimeout)
	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	closeErr := dbService.Close(closeCtx)

	return errors.Join(serveErr, closeErr)
}
