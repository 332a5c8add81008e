package mongo

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type QueryInput struct {
	Collection string `json:"collection" jsonschema:"description=Name of the collection to query"`
	Query      string `json:"query" jsonschema:"default={},description=Filter document encoded as a JSON string"`
	Limit      *int64 `json:"limit,omitempty" jsonschema:"default=10,description=Maximum number of documents to return"`
}

func (i *QueryInput) collectionName() string { return i.Collection }

func QuerySpec() mcp.Tool {
	return mcp.NewTool("query",
		mcp.WithDescription(`query finds documents in a collection. The filter is a JSON string using MongoDB query operators, e.g. {"status":"open","total":{"$gt":100}}. Extended JSON such as {"_id":{"$oid":"..."}} is accepted. At most limit documents (default 10) are returned as a JSON array.`),
		mcp.WithInputSchema[QueryInput](),
		mcp.WithTitleAnnotation("Query Documents"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
