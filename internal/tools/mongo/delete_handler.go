package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/tools"
)

const deleteAction = "deleting documents"

func DeleteHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDelete(ctx, request, deps)
	}
}

func handleDelete(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.NotConnected() {
		return tools.NotConnectedResult(), nil
	}

	var args DeleteInput
	if err := bindCollectionArgs(request, &args); err != nil {
		return tools.ErrorResult(deleteAction, err), nil
	}
	if err := requiredString(args.Filter, "filter"); err != nil {
		return tools.ErrorResult(deleteAction, err), nil
	}

	filter, err := database.ParseDocument(args.Filter)
	if err != nil {
		return tools.ErrorResult(deleteAction, err), nil
	}

	slog.Debug("deleting documents", "collection", args.Collection)

	deleted, err := deps.DBService.DeleteMany(ctx, args.Collection, filter)
	if err != nil {
		return tools.ErrorResult(deleteAction, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted %d document(s)", deleted)), nil
}
