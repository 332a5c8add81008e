package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/mongo-mcp/mcp/internal/tools"
	"github.com/mongo-mcp/mcp/internal/tools/mongo"
)

// RegisterTools registers all enabled MCP tools and adds them to the provided MCP server.
// When read-only mode is enabled only tools annotated as read-only are registered; a tool
// without the annotation counts as mutating.
func (s *MongoMCPServer) RegisterTools() error {
	deps := &tools.ToolDependencies{
		DBService: s.dbService,
		ReadOnly:  s.config != nil && s.config.ReadOnly,
	}

	all := getAllTools(deps)

	if s.config != nil && s.config.ReadOnly {
		readOnlyTools := make([]server.ServerTool, 0, len(all))
		for _, t := range all {
			if t.Tool.Annotations.ReadOnlyHint != nil && *t.Tool.Annotations.ReadOnlyHint {
				readOnlyTools = append(readOnlyTools, t)
			}
		}
		s.MCPServer.AddTools(readOnlyTools...)
		return nil
	}

	s.MCPServer.AddTools(all...)
	return nil
}

// getAllTools returns all available tools with their specs and handlers
func getAllTools(deps *tools.ToolDependencies) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool:    mongo.QuerySpec(),
			Handler: mongo.QueryHandler(deps),
		},
		{
			Tool:    mongo.InsertSpec(),
			Handler: mongo.InsertHandler(deps),
		},
		{
			Tool:    mongo.UpdateSpec(),
			Handler: mongo.UpdateHandler(deps),
		},
		{
			Tool:    mongo.DeleteSpec(),
			Handler: mongo.DeleteHandler(deps),
		},
		{
			Tool:    mongo.AggregateSpec(),
			Handler: mongo.AggregateHandler(deps),
		},
		{
			Tool:    mongo.ListCollectionsSpec(),
			Handler: mongo.ListCollectionsHandler(deps),
		},
		{
			Tool:    mongo.CountSpec(),
			Handler: mongo.CountHandler(deps),
		},
	}
}
