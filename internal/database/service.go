package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mongo-mcp/mcp/internal/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ErrNotConnected is returned by every operation while the service is not Ready.
var ErrNotConnected = errors.New("database not connected")

// State is the lifecycle state of the store connection.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// MongoService is the concrete implementation of Service.
// It owns the single client for the process lifetime.
type MongoService struct {
	uri            string
	databaseName   string
	connectTimeout time.Duration
	log            *logger.Service

	mu       sync.RWMutex // guards state, client and db
	state    State
	client   *mongo.Client
	db       *mongo.Database
	inflight sync.WaitGroup
}

// NewMongoService creates a MongoService in the Uninitialized state.
// Connect must succeed before any operation is served.
func NewMongoService(uri, databaseName string, connectTimeout time.Duration, log *logger.Service) (*MongoService, error) {
	if uri == "" {
		return nil, fmt.Errorf("connection string cannot be empty")
	}
	if databaseName == "" {
		return nil, fmt.Errorf("database name cannot be empty")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &MongoService{
		uri:            uri,
		databaseName:   databaseName,
		connectTimeout: connectTimeout,
		log:            log,
	}, nil
}

// Connect creates the client and verifies it can reach a primary.
// It is attempted once; callers treat a failure as fatal.
func (s *MongoService) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return fmt.Errorf("cannot connect: connection is %s", s.state)
	}

	opts := options.Client().ApplyURI(s.uri)
	if s.connectTimeout > 0 {
		opts.SetConnectTimeout(s.connectTimeout).SetServerSelectionTimeout(s.connectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	pingCtx := ctx
	if s.connectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, s.connectTimeout)
		defer cancel()
	}

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return fmt.Errorf("failed to verify database connectivity: %w", err)
	}

	s.client = client
	s.db = client.Database(s.databaseName)
	s.state = StateReady
	s.log.Info("Connected to MongoDB", "uri", s.uri, "database", s.databaseName)
	return nil
}

// State returns the current lifecycle state.
func (s *MongoService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready returns true when operations can be served.
func (s *MongoService) Ready() bool {
	return s.State() == StateReady
}

// Close stops accepting operations, waits for in-flight ones until ctx is done
// and then disconnects the client. Calling Close more than once is a no-op.
func (s *MongoService) Close(ctx context.Context) error {
	s.mu.Lock()
	previous := s.state
	s.state = StateClosed
	client := s.client
	s.mu.Unlock()

	if previous != StateReady || client == nil {
		return nil
	}

	// On timeout the waiter outlives Close. It exits when the last operation
	// returns, which Disconnect forces for operations blocked in the driver.
	drained := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		s.log.Debug("All in-flight operations completed")
	case <-ctx.Done():
		s.log.Warn("Shutdown timeout reached, disconnecting with operations still in flight", "error", ctx.Err())
	}

	if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to close MongoDB connection: %w", err)
	}
	s.log.Info("MongoDB connection closed")
	return nil
}

// begin registers an in-flight operation and returns the database to run it
// against. The returned func must be called when the operation finishes.
func (s *MongoService) begin() (*mongo.Database, func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		return nil, nil, ErrNotConnected
	}
	s.inflight.Add(1)
	return s.db, s.inflight.Done, nil
}

// Find returns at most limit documents of collection matching filter
func (s *MongoService) Find(ctx context.Context, collection string, filter bson.D, limit int64) ([]bson.D, error) {
	db, done, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	cursor, err := db.Collection(collection).Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		wrappedErr := fmt.Errorf("failed to execute find: %w", err)
		s.log.Error("Error in Find", "collection", collection, "error", wrappedErr)
		return nil, wrappedErr
	}

	documents := make([]bson.D, 0)
	if err := cursor.All(ctx, &documents); err != nil {
		wrappedErr := fmt.Errorf("failed to read find results: %w", err)
		s.log.Error("Error in Find", "collection", collection, "error", wrappedErr)
		return nil, wrappedErr
	}

	return documents, nil
}

// InsertOne inserts document into collection and returns the generated identifier
func (s *MongoService) InsertOne(ctx context.Context, collection string, document bson.D) (any, error) {
	db, done, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	res, err := db.Collection(collection).InsertOne(ctx, document)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to insert document: %w", err)
		s.log.Error("Error in InsertOne", "collection", collection, "error", wrappedErr)
		return nil, wrappedErr
	}

	return res.InsertedID, nil
}

// UpdateMany applies update to every document of collection matching filter
func (s *MongoService) UpdateMany(ctx context.Context, collection string, filter, update bson.D) (*UpdateSummary, error) {
	db, done, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	res, err := db.Collection(collection).UpdateMany(ctx, filter, update)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to update documents: %w", err)
		s.log.Error("Error in UpdateMany", "collection", collection, "error", wrappedErr)
		return nil, wrappedErr
	}

	return &UpdateSummary{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// DeleteMany removes every document of collection matching filter
func (s *MongoService) DeleteMany(ctx context.Context, collection string, filter bson.D) (int64, error) {
	db, done, err := s.begin()
	if err != nil {
		return 0, err
	}
	defer done()

	res, err := db.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to delete documents: %w", err)
		s.log.Error("Error in DeleteMany", "collection", collection, "error", wrappedErr)
		return 0, wrappedErr
	}

	return res.DeletedCount, nil
}

// Aggregate runs pipeline against collection and materializes every result
func (s *MongoService) Aggregate(ctx context.Context, collection string, pipeline []bson.D) ([]bson.D, error) {
	db, done, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	cursor, err := db.Collection(collection).Aggregate(ctx, mongo.Pipeline(pipeline))
	if err != nil {
		wrappedErr := fmt.Errorf("failed to run aggregation: %w", err)
		s.log.Error("Error in Aggregate", "collection", collection, "error", wrappedErr)
		return nil, wrappedErr
	}

	documents := make([]bson.D, 0)
	if err := cursor.All(ctx, &documents); err != nil {
		wrappedErr := fmt.Errorf("failed to read aggregation results: %w", err)
		s.log.Error("Error in Aggregate", "collection", collection, "error", wrappedErr)
		return nil, wrappedErr
	}

	return documents, nil
}

// ListCollectionNames returns the names of every collection in the database
func (s *MongoService) ListCollectionNames(ctx context.Context) ([]string, error) {
	db, done, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		wrappedErr := fmt.Errorf("failed to list collections: %w", err)
		s.log.Error("Error in ListCollectionNames", "error", wrappedErr)
		return nil, wrappedErr
	}
	if names == nil {
		names = []string{}
	}

	return names, nil
}

// CountDocuments counts the documents of collection matching filter
func (s *MongoService) CountDocuments(ctx context.Context, collection string, filter bson.D) (int64, error) {
	db, done, err := s.begin()
	if err != nil {
		return 0, err
	}
	defer done()

	count, err := db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to count documents: %w", err)
		s.log.Error("Error in CountDocuments", "collection", collection, "error", wrappedErr)
		return 0, wrappedErr
	}

	return count, nil
}
