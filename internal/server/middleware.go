package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type healthResponse struct {
	Status string `json:"status"`
}

// toolCallLogging tags every tools/call with a correlation id and logs its outcome at debug.
func (s *MongoMCPServer) toolCallLogging(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		start := time.Now()
		s.log.Debug("Tool call started", "call_id", callID, "tool", request.Params.Name)

		result, err := next(ctx, request)

		attrs := []any{
			"call_id", callID,
			"tool", request.Params.Name,
			"duration", time.Since(start),
		}
		switch {
		case err != nil:
			s.log.Debug("Tool call failed", append(attrs, "error", err)...)
		case result != nil && result.IsError:
			s.log.Debug("Tool call returned an error result", attrs...)
		default:
			s.log.Debug("Tool call finished", attrs...)
		}
		return result, err
	}
}

// Handler returns the HTTP handler serving the MCP endpoint and the health check.
func (s *MongoMCPServer) Handler() http.Handler {
	streamable := server.NewStreamableHTTPServer(
		s.MCPServer,
		server.WithEndpointPath(mcpEndpointPath),
		server.WithStateLess(true),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware)

	r.Get(healthEndpointPath, s.handleHealth)
	r.Handle(mcpEndpointPath, streamable)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Not Found: This server only handles requests to "+mcpEndpointPath, http.StatusNotFound)
	})

	return r
}

// handleHealth reports 200 while the store is ready and 503 otherwise.
func (s *MongoMCPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status, code := "ok", http.StatusOK
	if s.dbService == nil || !s.dbService.Ready() {
		status, code = "not connected", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: status}); err != nil {
		slog.Warn("Failed to write health response", "error", err)
	}
}

// loggingMiddleware logs HTTP requests for debugging
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("HTTP Request",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"url", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"content_length", r.ContentLength,
		)
		next.ServeHTTP(w, r)
	})
}
