//go:build integration

package containerrunner

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/mongo-mcp/mcp/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	container testcontainers.Container
	client    *mongo.Client
	mongoURL  string
	once      sync.Once
)

// Start initializes shared resources for integration tests.
// With USE_CONTAINER=false the tests run against MONGO_URL instead of a container.
func Start(ctx context.Context) {
	once.Do(func() {
		startOnce(ctx)
	})
}

// URL returns the connection string of the shared instance.
func URL() string {
	if mongoURL == "" {
		log.Fatal("mongo instance is not initialized")
	}
	return mongoURL
}

// Client returns an administrative client for seeding and cleanup.
func Client() *mongo.Client {
	if client == nil {
		log.Fatal("mongo client is not initialized")
	}
	return client
}

func startOnce(ctx context.Context) {
	useContainer := config.GetEnvWithDefault("USE_CONTAINER", "true") == "true"
	log.Printf("Testing using container: %t", useContainer)

	if useContainer {
		ctr, uri, err := createMongoContainer(ctx)
		if err != nil {
			log.Fatalf("failed to start shared mongo container: %v", err)
		}
		container = ctr
		mongoURL = uri
	} else {
		mongoURL = config.GetEnvWithDefault("MONGO_URL", "mongodb://localhost:27017")
	}

	c, err := mongo.Connect(options.Client().ApplyURI(mongoURL))
	if err != nil {
		Close(ctx)
		log.Fatalf("failed to create client: %v", err)
	}
	client = c

	if err := waitForConnectivity(ctx); err != nil {
		Close(ctx)
		log.Fatalf("failed to verify connectivity: %v", err)
	}
}

// Close cleans up shared resources used in integration tests
func Close(ctx context.Context) {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Warning: failed to disconnect client: %v", err)
		}
	}
	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("Warning: failed to terminate container: %v", err)
		}
	}
}

// createMongoContainer starts a MongoDB container for testing
func createMongoContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        config.GetEnvWithDefault("MONGO_IMAGE", "mongo:7"),
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Waiting for connections"),
			wait.ForListeningPort("27017/tcp"),
		).WithStartupTimeoutDefault(2 * time.Minute),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}

	port, err := ctr.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}

	return ctr, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
}

// waitForConnectivity pings the instance with exponential backoff.
func waitForConnectivity(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	backoff := 100 * time.Millisecond
	maxBackoff := 2 * time.Second

	var lastErr error
	for {
		err := client.Ping(ctx, readpref.Primary())
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	var logs string
	if container != nil {
		rc, err := container.Logs(context.Background())
		if err == nil && rc != nil {
			b, rerr := io.ReadAll(rc)
			_ = rc.Close()
			if rerr == nil {
				logs = string(b)
			}
		}
	}

	if logs != "" {
		return fmt.Errorf("mongo connectivity not ready: %v\ncontainer logs:\n%s", lastErr, logs)
	}
	return fmt.Errorf("mongo connectivity not ready: %v", lastErr)
}
