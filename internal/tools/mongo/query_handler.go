package mongo

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/tools"
)

const queryAction = "executing query"

func QueryHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQuery(ctx, request, deps)
	}
}

func handleQuery(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.NotConnected() {
		return tools.NotConnectedResult(), nil
	}

	var args QueryInput
	if err := bindCollectionArgs(request, &args); err != nil {
		return tools.ErrorResult(queryAction, err), nil
	}
	if err := requiredString(args.Query, "query"); err != nil {
		return tools.ErrorResult(queryAction, err), nil
	}

	limit := DefaultQueryLimit
	if args.Limit != nil && *args.Limit > 0 {
		limit = *args.Limit
	}

	filter, err := database.ParseDocument(args.Query)
	if err != nil {
		return tools.ErrorResult(queryAction, err), nil
	}

	slog.Debug("executing find", "collection", args.Collection, "limit", limit)

	documents, err := deps.DBService.Find(ctx, args.Collection, filter, limit)
	if err != nil {
		return tools.ErrorResult(queryAction, err), nil
	}

	response, err := deps.DBService.DocumentsToJSON(documents)
	if err != nil {
		return tools.ErrorResult(queryAction, err), nil
	}

	return mcp.NewToolResultText(response), nil
}
