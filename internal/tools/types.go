package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
)

// NotConnectedMessage is returned as plain text by every tool while the store is not ready.
const NotConnectedMessage = "Database not connected"

// ToolDependencies contains all dependencies needed by tools
type ToolDependencies struct {
	DBService database.Service
	ReadOnly  bool // Rejects writes that read tools could otherwise issue, such as $out
}

// NotConnected reports whether the store cannot serve a call. It is a soft condition:
// the caller returns NotConnectedResult, which is not flagged as an error.
func (d *ToolDependencies) NotConnected() bool {
	return d == nil || d.DBService == nil || !d.DBService.Ready()
}

// NotConnectedResult is the response for calls made while the store is not ready.
func NotConnectedResult() *mcp.CallToolResult {
	return mcp.NewToolResultText(NotConnectedMessage)
}

// ErrorResult converts a failure into the single text block "Error <action>: <message>".
// Operations rejected because the connection closed mid-call map to NotConnectedResult.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	if errors.Is(err, database.ErrNotConnected) {
		return NotConnectedResult()
	}
	slog.Error("tool call failed", "action", action, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("Error %s: %s", action, err.Error()))
}

// InvalidArguments wraps a binding or missing-argument failure.
func InvalidArguments(err error) error {
	return fmt.Errorf("invalid arguments: %w", err)
}
