package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/tools"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const insertAction = "inserting document"

func InsertHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleInsert(ctx, request, deps)
	}
}

func handleInsert(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.NotConnected() {
		return tools.NotConnectedResult(), nil
	}

	var args InsertInput
	if err := bindCollectionArgs(request, &args); err != nil {
		return tools.ErrorResult(insertAction, err), nil
	}

	document, err := documentArgument(args.Document)
	if err != nil {
		return tools.ErrorResult(insertAction, err), nil
	}

	slog.Debug("inserting document", "collection", args.Collection)

	id, err := deps.DBService.InsertOne(ctx, args.Collection, document)
	if err != nil {
		return tools.ErrorResult(insertAction, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Document inserted with ID: %s", database.FormatID(id))), nil
}

// documentArgument accepts a JSON string or a structured object.
func documentArgument(value any) (bson.D, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, tools.InvalidArguments(errors.New("document is required and cannot be empty"))
		}
		return database.ParseDocument(v)
	case map[string]any:
		return database.ParseStructuredDocument(v)
	case nil:
		return nil, tools.InvalidArguments(errors.New("document is required"))
	default:
		return nil, tools.InvalidArguments(fmt.Errorf("document must be a JSON string or an object, got %T", value))
	}
}
