package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mongo-mcp/mcp/internal/config"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/logger"
)

const (
	serverName            = "mongo-mcp"
	mcpEndpointPath       = "/mcp"
	healthEndpointPath    = "/healthz"
	httpReadHeaderTimeout = 10 * time.Second
)

const instructions = "This MCP server gives tool access to a single MongoDB database. " +
	"Use list_collections to discover collections, query and count to read documents, aggregate to run pipelines" +
	" and insert, update or delete to change data. Filters, updates and pipelines are JSON strings."

// MongoMCPServer represents the MCP server instance
type MongoMCPServer struct {
	MCPServer *server.MCPServer
	config    *config.Config
	dbService database.Service
	log       *logger.Service
	version   string
}

// NewMongoMCPServer creates a new MCP server instance.
// The config parameter is expected to be already validated and dbService already connected.
func NewMongoMCPServer(version string, cfg *config.Config, dbService database.Service, log *logger.Service) *MongoMCPServer {
	s := &MongoMCPServer{
		config:    cfg,
		dbService: dbService,
		log:       log,
		version:   version,
	}

	hooks := &server.Hooks{}
	hooks.AddAfterSetLevel(s.onAfterSetLevelHook)

	s.MCPServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithToolHandlerMiddleware(s.toolCallLogging),
		server.WithInstructions(instructions),
	)

	return s
}

// Start registers the tools and serves the configured transport until ctx is cancelled.
// A cancelled context is a normal shutdown and returns nil.
func (s *MongoMCPServer) Start(ctx context.Context) error {
	s.log.Info("Starting MongoDB MCP Server", "transport", s.config.TransportMode, "version", s.version)

	if err := s.RegisterTools(); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	switch s.config.TransportMode {
	case config.TransportModeHTTP:
		return s.startHTTP(ctx)
	case config.TransportModeStdio, "":
		return s.startStdio(ctx)
	default:
		return fmt.Errorf("unsupported transport mode: %s", s.config.TransportMode)
	}
}

func (s *MongoMCPServer) startStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.MCPServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelError))

	s.log.Info("Started MongoDB MCP Server. Now listening for input...")
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	return nil
}

func (s *MongoMCPServer) startHTTP(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.HTTPHost, s.config.HTTPPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: httpReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Started MongoDB MCP HTTP Server", "url", "http://"+addr+mcpEndpointPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http transport failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Stopping MongoDB MCP HTTP Server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http transport shutdown failed: %w", err)
	}
	return nil
}

func (s *MongoMCPServer) shutdownTimeout() time.Duration {
	if s.config.ShutdownTimeout > 0 {
		return s.config.ShutdownTimeout
	}
	return config.DefaultShutdownTimeout
}
