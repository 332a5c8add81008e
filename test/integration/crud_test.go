//go:build integration

package integration

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mongo-mcp/mcp/internal/tools/mongo"
	"github.com/mongo-mcp/mcp/test/integration/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const insertedPrefix = "Document inserted with ID: "

func TestInsertThenQuery(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)

	res := tc.CallTool(mongo.InsertHandler(tc.Deps), map[string]any{
		"collection": "orders",
		"document":   `{"item":"widget","qty":3}`,
	})
	text := tc.Text(res)
	require.False(t, res.IsError, text)
	require.True(t, strings.HasPrefix(text, insertedPrefix), text)
	id := strings.TrimPrefix(text, insertedPrefix)

	res = tc.CallTool(mongo.QueryHandler(tc.Deps), map[string]any{
		"collection": "orders",
		"query":      `{"item":"widget"}`,
	})
	var docs []map[string]any
	tc.ParseJSONResponse(res, &docs)

	require.Len(t, docs, 1)
	assert.Equal(t, "widget", docs[0]["item"])
	assert.EqualValues(t, 3, docs[0]["qty"])
	assert.Equal(t, map[string]any{"$oid": id}, docs[0]["_id"])
}

func TestInsertStructuredDocumentWithExtendedJSON(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)

	res := tc.CallTool(mongo.InsertHandler(tc.Deps), map[string]any{
		"collection": "events",
		"document": map[string]any{
			"name": "launch",
			"at":   map[string]any{"$date": "2024-01-01T00:00:00Z"},
		},
	})
	require.False(t, res.IsError, tc.Text(res))

	stored := tc.FindOne("events", bson.D{{Key: "name", Value: "launch"}})
	at, ok := stored["at"].(bson.DateTime)
	require.True(t, ok, "expected a BSON date, got %T", stored["at"])
	assert.True(t, at.Time().Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestQueryLimit(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)

	seed := make([]any, 0, 15)
	for i := range 15 {
		seed = append(seed, bson.D{{Key: "n", Value: i}})
	}
	tc.Seed("numbers", seed...)

	tests := []struct {
		name  string
		limit any
		want  int
	}{
		{"default limit", nil, 10},
		{"explicit limit", 3, 3},
		{"zero falls back to default", 0, 10},
		{"limit larger than collection", 100, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{"collection": "numbers", "query": `{}`}
			if tt.limit != nil {
				args["limit"] = tt.limit
			}
			var docs []map[string]any
			tc.ParseJSONResponse(tc.CallTool(mongo.QueryHandler(tc.Deps), args), &docs)
			assert.Len(t, docs, tt.want)
		})
	}
}

func TestQueryEmptyCollection(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)

	res := tc.CallTool(mongo.QueryHandler(tc.Deps), map[string]any{
		"collection": "missing",
		"query":      `{}`,
	})

	assert.False(t, res.IsError)
	assert.Equal(t, "[]", tc.Text(res))
}

func TestUpdateReportsMatchedAndModified(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)
	tc.Seed("orders",
		bson.D{{Key: "item", Value: "widget"}},
		bson.D{{Key: "item", Value: "widget"}},
		bson.D{{Key: "item", Value: "gadget"}},
	)

	args := map[string]any{
		"collection": "orders",
		"filter":     `{"item":"widget"}`,
		"update":     `{"$set":{"shipped":true}}`,
	}

	res := tc.CallTool(mongo.UpdateHandler(tc.Deps), args)
	assert.Equal(t, "Matched 2, modified 2 document(s)", tc.Text(res))

	res = tc.CallTool(mongo.UpdateHandler(tc.Deps), args)
	assert.Equal(t, "Matched 2, modified 0 document(s)", tc.Text(res))
}

func TestUpdateWithoutOperatorsIsAnError(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)
	tc.Seed("orders", bson.D{{Key: "item", Value: "widget"}})

	res := tc.CallTool(mongo.UpdateHandler(tc.Deps), map[string]any{
		"collection": "orders",
		"filter":     `{}`,
		"update":     `{"item":"gizmo"}`,
	})

	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(tc.Text(res), "Error updating documents: "), tc.Text(res))
}

func TestDeleteThenCount(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)
	tc.Seed("orders",
		bson.D{{Key: "status", Value: "open"}},
		bson.D{{Key: "status", Value: "open"}},
		bson.D{{Key: "status", Value: "closed"}},
	)

	res := tc.CallTool(mongo.CountHandler(tc.Deps), map[string]any{"collection": "orders"})
	assert.Equal(t, "Count: 3", tc.Text(res))

	res = tc.CallTool(mongo.DeleteHandler(tc.Deps), map[string]any{
		"collection": "orders",
		"filter":     `{"status":"open"}`,
	})
	assert.Equal(t, "Deleted 2 document(s)", tc.Text(res))

	res = tc.CallTool(mongo.CountHandler(tc.Deps), map[string]any{
		"collection": "orders",
		"filter":     `{"status":"open"}`,
	})
	assert.Equal(t, "Count: 0", tc.Text(res))

	res = tc.CallTool(mongo.CountHandler(tc.Deps), map[string]any{"collection": "orders"})
	assert.Equal(t, "Count: 1", tc.Text(res))
}

func TestMalformedJSONIsReportedPerTool(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t)

	tests := []struct {
		tool   string
		call   func() string
		prefix string
	}{
		{"query", func() string {
			return tc.Text(tc.CallTool(mongo.QueryHandler(tc.Deps), map[string]any{"collection": "c", "query": `{`}))
		}, "Error executing query: "},
		{"insert", func() string {
			return tc.Text(tc.CallTool(mongo.InsertHandler(tc.Deps), map[string]any{"collection": "c", "document": `{`}))
		}, "Error inserting document: "},
		{"update", func() string {
			return tc.Text(tc.CallTool(mongo.UpdateHandler(tc.Deps), map[string]any{"collection": "c", "filter": `{`, "update": `{}`}))
		}, "Error updating documents: "},
		{"delete", func() string {
			return tc.Text(tc.CallTool(mongo.DeleteHandler(tc.Deps), map[string]any{"collection": "c", "filter": `{`}))
		}, "Error deleting documents: "},
		{"aggregate", func() string {
			return tc.Text(tc.CallTool(mongo.AggregateHandler(tc.Deps), map[string]any{"collection": "c", "pipeline": `[`}))
		}, "Error running aggregation: "},
		{"count", func() string {
			return tc.Text(tc.CallTool(mongo.CountHandler(tc.Deps), map[string]any{"collection": "c", "filter": `{`}))
		}, "Error counting documents: "},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			text := tt.call()
			assert.True(t, strings.HasPrefix(text, tt.prefix), fmt.Sprintf("got %q", text))
		})
	}

	res := tc.CallTool(mongo.CountHandler(tc.Deps), map[string]any{"collection": "c"})
	assert.Equal(t, "Count: 0", tc.Text(res), "malformed calls must not write")
}
