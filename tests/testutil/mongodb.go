package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	mongoCtxTimeout                = 10 * time.Second
	mongoPingTimeout               = 2 * time.Second
	mongoPingRetryDelay            = 500 * time.Millisecond
	mongoContainerStartupTimeout   = 60 * time.Second
	mongoContainerTerminateTimeout = 5 * time.Second

	// MongoDB limits database names to 63 characters.
	maxTestNameLength = 40
)

// sharedMongoContainer holds the singleton MongoDB container
var (
	sharedMongoContainer     *SharedMongoContainer
	sharedMongoContainerOnce sync.Once
	errSharedMongoContainer  error
)

// SharedMongoContainer is a reusable MongoDB container for tests. The
// container runs as a single-node replica set so transactions work.
type SharedMongoContainer struct {
	Container testcontainers.Container
	URI       string
}

// GetSharedMongoContainer returns a singleton MongoDB container.
// The container is started once and reused across all tests.
func GetSharedMongoContainer(ctx context.Context) (*SharedMongoContainer, error) {
	sharedMongoContainerOnce.Do(func() {
		cont, err := startMongoContainer(ctx)
		if err != nil {
			errSharedMongoContainer = err
			return
		}
		sharedMongoContainer = cont
	})

	return sharedMongoContainer, errSharedMongoContainer
}

func startMongoContainer(ctx context.Context) (*SharedMongoContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "mongo:8",
		Name:         "courier-test-mongodb", // Required for Reuse mode
		ExposedPorts: []string{"27017/tcp"},
		Cmd:          []string{"--replSet", "rs0"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(mongoContainerStartupTimeout),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		Reuse:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	// Transactions require a replica set, even a single-node one.
	initCmd := []string{"mongosh", "--quiet", "--eval",
		"try { rs.status() } catch (e) { rs.initiate() }"}
	if _, _, initErr := cont.Exec(ctx, initCmd); initErr != nil {
		return nil, fmt.Errorf("failed to initiate replica set: %w", initErr)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := cont.MappedPort(ctx, "27017")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	uri := fmt.Sprintf("mongodb://%s/?directConnection=true", net.JoinHostPort(host, port.Port()))

	return &SharedMongoContainer{
		Container: cont,
		URI:       uri,
	}, nil
}

// SetupTestMongoDB creates an isolated test database on the shared
// MongoDB container. The database is dropped when the test finishes.
func SetupTestMongoDB(t *testing.T) *mongo.Database {
	t.Helper()

	_, db := SetupTestMongoDBWithClient(t)
	return db
}

// SetupTestMongoDBWithClient creates a test database and returns both
// the client and the database. Needed when the code under test opens
// transactions and therefore requires the client.
func SetupTestMongoDBWithClient(t *testing.T) (*mongo.Client, *mongo.Database) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), mongoCtxTimeout)
	defer cancel()

	cont, err := GetSharedMongoContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to get shared MongoDB container: %v", err)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cont.URI))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	maxRetries := 5
	for i := range maxRetries {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), mongoPingTimeout)
		err = client.Ping(pingCtx, nil)
		pingCancel()
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(mongoPingRetryDelay)
		}
	}
	if err != nil {
		t.Fatalf("Failed to ping MongoDB after %d retries: %v", maxRetries, err)
	}

	dbName := generateTestDBName(t.Name())
	db := client.Database(dbName)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), mongoCtxTimeout)
		defer cleanupCancel()
		_ = db.Drop(cleanupCtx)
		_ = client.Disconnect(cleanupCtx)
	})

	return client, db
}

// generateTestDBName creates a unique database name from the test name.
func generateTestDBName(testName string) string {
	testName = strings.NewReplacer("/", "_", " ", "_").Replace(testName)
	if len(testName) > maxTestNameLength {
		hash := sha256.Sum256([]byte(testName))
		testName = testName[:20] + "_" + hex.EncodeToString(hash[:])[:12]
	}
	return "courier_test_" + testName
}

// CleanupSharedMongoContainer terminates the shared container.
// Typically called from TestMain when all tests are done.
func CleanupSharedMongoContainer() {
	if sharedMongoContainer != nil && sharedMongoContainer.Container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mongoContainerTerminateTimeout)
		defer cancel()
		_ = sharedMongoContainer.Container.Terminate(ctx)
	}
}
