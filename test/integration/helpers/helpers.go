//go:build integration

package helpers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/database"
	"github.com/mongo-mcp/mcp/internal/logger"
	"github.com/mongo-mcp/mcp/internal/tools"
	"github.com/mongo-mcp/mcp/test/integration/containerrunner"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TestContext holds common test dependencies. Every test gets its own database.
type TestContext struct {
	Ctx     context.Context
	T       *testing.T
	DBName  string
	Service *database.MongoService
	Deps    *tools.ToolDependencies
}

// NewTestContext connects a service to a fresh database and drops it when the test ends.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	dbName := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	svc, err := database.NewMongoService(containerrunner.URL(), dbName, 30*time.Second, logger.New("info", "text", io.Discard))
	if err != nil {
		cancel()
		t.Fatalf("failed to create mongo service: %v", err)
	}
	if err := svc.Connect(ctx); err != nil {
		cancel()
		t.Fatalf("failed to connect mongo service: %v", err)
	}

	tc := &TestContext{
		Ctx:     ctx,
		T:       t,
		DBName:  dbName,
		Service: svc,
		Deps:    &tools.ToolDependencies{DBService: svc},
	}

	t.Cleanup(func() {
		tc.Cleanup()
		cancel()
	})

	return tc
}

// Cleanup closes the service and drops the test database.
func (tc *TestContext) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := tc.Service.Close(ctx); err != nil {
		log.Printf("Warning: failed to close service: %v", err)
	}
	if err := containerrunner.Client().Database(tc.DBName).Drop(ctx); err != nil {
		log.Printf("Warning: cleanup failed for database=%s: %v", tc.DBName, err)
	}
}

// Seed inserts documents directly, bypassing the tools.
func (tc *TestContext) Seed(collection string, docs ...any) {
	tc.T.Helper()
	if _, err := containerrunner.Client().Database(tc.DBName).Collection(collection).InsertMany(tc.Ctx, docs); err != nil {
		tc.T.Fatalf("failed to seed %s: %v", collection, err)
	}
}

// FindOne reads a document directly from the store.
func (tc *TestContext) FindOne(collection string, filter bson.D) bson.M {
	tc.T.Helper()
	var doc bson.M
	if err := containerrunner.Client().Database(tc.DBName).Collection(collection).FindOne(tc.Ctx, filter).Decode(&doc); err != nil {
		tc.T.Fatalf("failed to read from %s: %v", collection, err)
	}
	return doc
}

// CallTool invokes a handler and returns its result.
func (tc *TestContext) CallTool(handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}

	res, err := handler(tc.Ctx, request)
	if err != nil {
		tc.T.Fatalf("tool call failed: %v", err)
	}
	if res == nil {
		tc.T.Fatal("tool returned nil result")
	}
	return res
}

// Text returns the single text block of a result.
func (tc *TestContext) Text(res *mcp.CallToolResult) string {
	tc.T.Helper()
	if len(res.Content) != 1 {
		tc.T.Fatalf("expected one content block, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		tc.T.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return text.Text
}

// ParseJSONResponse decodes a successful JSON result into v.
func (tc *TestContext) ParseJSONResponse(res *mcp.CallToolResult, v any) {
	tc.T.Helper()
	text := tc.Text(res)
	if res.IsError {
		tc.T.Fatalf("tool returned error: %s", text)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		tc.T.Fatalf("failed to unmarshal response: %v\nraw: %s", err, text)
	}
}
