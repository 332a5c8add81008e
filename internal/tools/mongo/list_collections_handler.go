package mongo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/tools"
)

const listCollectionsAction = "listing collections"

func ListCollectionsHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListCollections(ctx, deps)
	}
}

func handleListCollections(ctx context.Context, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.NotConnected() {
		return tools.NotConnectedResult(), nil
	}

	names, err := deps.DBService.ListCollectionNames(ctx)
	if err != nil {
		return tools.ErrorResult(listCollectionsAction, err), nil
	}
	if names == nil {
		names = []string{}
	}

	response, err := json.Marshal(names)
	if err != nil {
		return tools.ErrorResult(listCollectionsAction, fmt.Errorf("failed to format collection names: %w", err)), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}
