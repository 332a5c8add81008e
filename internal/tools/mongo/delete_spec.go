package mongo

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type DeleteInput struct {
	Collection string `json:"collection" jsonschema:"description=Name of the collection to delete from"`
	Filter     string `json:"filter" jsonschema:"description=Filter document encoded as a JSON string"`
}

func (i *DeleteInput) collectionName() string { return i.Collection }

func DeleteSpec() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription(`delete removes every document matching the filter, a JSON string such as {"status":"cancelled"}. An empty filter {} removes all documents of the collection. Returns the number of deleted documents.`),
		mcp.WithInputSchema[DeleteInput](),
		mcp.WithTitleAnnotation("Delete Documents"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
