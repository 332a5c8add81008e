package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/tools"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const aggregateAction = "running aggregation"

// writeStages are pipeline stages that write their output to a collection.
var writeStages = map[string]bool{
	"$out":   true,
	"$merge": true,
}

func AggregateHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAggregate(ctx, request, deps)
	}
}

func handleAggregate(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.NotConnected() {
		return tools.NotConnectedResult(), nil
	}

	var args AggregateInput
	if err := bindCollectionArgs(request, &args); err != nil {
		return tools.ErrorResult(aggregateAction, err), nil
	}
	if err := requiredString(args.Pipeline, "pipeline"); err != nil {
		return tools.ErrorResult(aggregateAction, err), nil
	}

	pipeline, err := database.ParsePipeline(args.Pipeline)
	if err != nil {
		return tools.ErrorResult(aggregateAction, err), nil
	}

	if deps.ReadOnly {
		if err := checkReadOnlyPipeline(pipeline); err != nil {
			return tools.ErrorResult(aggregateAction, err), nil
		}
	}

	slog.Debug("running aggregation", "collection", args.Collection, "stages", len(pipeline))

	documents, err := deps.DBService.Aggregate(ctx, args.Collection, pipeline)
	if err != nil {
		return tools.ErrorResult(aggregateAction, err), nil
	}

	response, err := deps.DBService.DocumentsToJSON(documents)
	if err != nil {
		return tools.ErrorResult(aggregateAction, err), nil
	}

	return mcp.NewToolResultText(response), nil
}

// checkReadOnlyPipeline rejects pipelines containing a stage that writes to a collection.
func checkReadOnlyPipeline(pipeline []bson.D) error {
	for i, stage := range pipeline {
		for _, elem := range stage {
			if writeStages[elem.Key] {
				return fmt.Errorf("pipeline stage %d: %s is not allowed in read-only mode", i, elem.Key)
			}
		}
	}
	return nil
}
