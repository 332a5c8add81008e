package mongo

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type AggregateInput struct {
	Collection string `json:"collection" jsonschema:"description=Name of the collection to aggregate"`
	Pipeline   string `json:"pipeline" jsonschema:"default=[],description=Aggregation pipeline encoded as a JSON array of stage documents"`
}

func (i *AggregateInput) collectionName() string { return i.Collection }

func AggregateSpec() mcp.Tool {
	return mcp.NewTool("aggregate",
		mcp.WithDescription(`aggregate runs an aggregation pipeline against a collection. The pipeline is a JSON string holding an array of stages, e.g. [{"$match":{"status":"open"}},{"$group":{"_id":"$item","total":{"$sum":"$qty"}}}]. Every result is returned as a JSON array; add a $limit stage to bound large outputs.`),
		mcp.WithInputSchema[AggregateInput](),
		mcp.WithTitleAnnotation("Aggregate Documents"),
		// $out and $merge stages can write, but the tool is intended for reads.
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
