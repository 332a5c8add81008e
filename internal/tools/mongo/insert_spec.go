package mongo

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

type InsertInput struct {
	Collection string `json:"collection"`
	// Document is either a JSON string or an already structured object.
	Document any `json:"document"`
}

func (i *InsertInput) collectionName() string { return i.Collection }

// insertInputSchema is written by hand because document accepts two JSON types.
var insertInputSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "collection": {
      "type": "string",
      "description": "Name of the collection to insert into"
    },
    "document": {
      "description": "Document to insert, either as a JSON string or as an object",
      "anyOf": [
        {"type": "string"},
        {"type": "object"}
      ]
    }
  },
  "required": ["collection", "document"]
}`)

func InsertSpec() mcp.Tool {
	tool := mcp.NewToolWithRawSchema("insert",
		"insert adds one document to a collection and returns the generated _id. The document may be a JSON string or an object; Extended JSON such as {\"$date\":\"2024-01-01T00:00:00Z\"} is accepted.",
		insertInputSchema,
	)
	for _, opt := range []mcp.ToolOption{
		mcp.WithTitleAnnotation("Insert Document"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	} {
		opt(&tool)
	}
	return tool
}
