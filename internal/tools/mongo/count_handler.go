package mongo

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/tools"
)

const countAction = "counting documents"

func CountHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCount(ctx, request, deps)
	}
}

func handleCount(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.NotConnected() {
		return tools.NotConnectedResult(), nil
	}

	var args CountInput
	if err := bindCollectionArgs(request, &args); err != nil {
		return tools.ErrorResult(countAction, err), nil
	}

	rawFilter := args.Filter
	if rawFilter == "" {
		rawFilter = "{}"
	}
	filter, err := database.ParseDocument(rawFilter)
	if err != nil {
		return tools.ErrorResult(countAction, err), nil
	}

	count, err := deps.DBService.CountDocuments(ctx, args.Collection, filter)
	if err != nil {
		return tools.ErrorResult(countAction, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Count: %d", count)), nil
}
