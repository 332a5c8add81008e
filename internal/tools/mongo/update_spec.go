package mongo

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type UpdateInput struct {
	Collection string `json:"collection" jsonschema:"description=Name of the collection to update"`
	Filter     string `json:"filter" jsonschema:"description=Filter document encoded as a JSON string"`
	Update     string `json:"update" jsonschema:"description=Update document with operators such as $set encoded as a JSON string"`
}

func (i *UpdateInput) collectionName() string { return i.Collection }

func UpdateSpec() mcp.Tool {
	return mcp.NewTool("update",
		mcp.WithDescription(`update modifies every document matching the filter. Both filter and update are JSON strings; the update must use update operators, e.g. {"$set":{"shipped":true}}. Returns the matched and modified counts.`),
		mcp.WithInputSchema[UpdateInput](),
		mcp.WithTitleAnnotation("Update Documents"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
