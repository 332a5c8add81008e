package mongo

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type CountInput struct {
	Collection string `json:"collection" jsonschema:"description=Name of the collection to count"`
	Filter     string `json:"filter,omitempty" jsonschema:"default={},description=Filter document encoded as a JSON string"`
}

func (i *CountInput) collectionName() string { return i.Collection }

func CountSpec() mcp.Tool {
	return mcp.NewTool("count",
		mcp.WithDescription(`count returns the number of documents in a collection matching an optional filter given as a JSON string, e.g. {"status":"open"}. Without a filter every document is counted.`),
		mcp.WithInputSchema[CountInput](),
		mcp.WithTitleAnnotation("Count Documents"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
