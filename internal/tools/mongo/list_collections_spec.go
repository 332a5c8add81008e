package mongo

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func ListCollectionsSpec() mcp.Tool {
	return mcp.NewTool("list_collections",
		mcp.WithDescription("list_collections returns the names of all collections in the configured database as a JSON array."),
		mcp.WithTitleAnnotation("List Collections"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
