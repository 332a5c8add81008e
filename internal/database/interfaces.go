package database

//go:generate mockgen -destination=mocks/mock_database.go -package=mocks github.com/mongo-mcp/mcp/internal/database Service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UpdateSummary reports the outcome of an update across all matched documents.
type UpdateSummary struct {
	MatchedCount  int64
	ModifiedCount int64
}

// ConnectionState reports whether the store can serve operations.
type ConnectionState interface {
	// Ready returns true once the connection is established and until it is closed.
	Ready() bool
}

// DocumentReader defines the read operations exposed as tools.
type DocumentReader interface {
	Find(ctx context.Context, collection string, filter bson.D, limit int64) ([]bson.D, error)
	Aggregate(ctx context.Context, collection string, pipeline []bson.D) ([]bson.D, error)
	CountDocuments(ctx context.Context, collection string, filter bson.D) (int64, error)
	ListCollectionNames(ctx context.Context) ([]string, error)
}

// DocumentWriter defines the write operations exposed as tools.
type DocumentWriter interface {
	InsertOne(ctx context.Context, collection string, document bson.D) (any, error)
	UpdateMany(ctx context.Context, collection string, filter, update bson.D) (*UpdateSummary, error)
	DeleteMany(ctx context.Context, collection string, filter bson.D) (int64, error)
}

// DocumentFormatter defines the interface for rendering documents
type DocumentFormatter interface {
	// DocumentsToJSON renders documents as a pretty-printed relaxed Extended JSON array
	DocumentsToJSON(documents []bson.D) (string, error)
}

// Service combines every store capability the tools need.
type Service interface {
	ConnectionState
	DocumentReader
	DocumentWriter
	DocumentFormatter
}
