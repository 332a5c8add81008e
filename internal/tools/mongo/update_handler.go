package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/tools"
)

const updateAction = "updating documents"

func UpdateHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdate(ctx, request, deps)
	}
}

func handleUpdate(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.NotConnected() {
		return tools.NotConnectedResult(), nil
	}

	var args UpdateInput
	if err := bindCollectionArgs(request, &args); err != nil {
		return tools.ErrorResult(updateAction, err), nil
	}
	if err := requiredString(args.Filter, "filter"); err != nil {
		return tools.ErrorResult(updateAction, err), nil
	}
	if err := requiredString(args.Update, "update"); err != nil {
		return tools.ErrorResult(updateAction, err), nil
	}

	filter, err := database.ParseDocument(args.Filter)
	if err != nil {
		return tools.ErrorResult(updateAction, err), nil
	}
	update, err := database.ParseDocument(args.Update)
	if err != nil {
		return tools.ErrorResult(updateAction, err), nil
	}

	slog.Debug("updating documents", "collection", args.Collection)

	summary, err := deps.DBService.UpdateMany(ctx, args.Collection, filter, update)
	if err != nil {
		return tools.ErrorResult(updateAction, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Matched %d, modified %d document(s)", summary.MatchedCount, summary.ModifiedCount)), nil
}
