package testutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	redisCtxTimeout                = 10 * time.Second
	redisContainerStartupTimeout   = 60 * time.Second
	redisContainerTerminateTimeout = 5 * time.Second
	redisPingTimeout               = 2 * time.Second
	redisPingRetryDelay            = 500 * time.Millisecond
	redisContainerMemoryLimit      = 128 * 1024 * 1024
	redisSharedPoolSize            = 50
	redisTestPoolSize              = 10
)

// sharedRedisContainer holds the singleton Redis container and client
var (
	sharedRedisContainer   *SharedRedisContainer
	sharedRedisContainerMu sync.Mutex
)

// SharedRedisContainer is a reusable Redis container for tests.
type SharedRedisContainer struct {
	Container testcontainers.Container
	Addr      string
	client    *redis.Client
	clientMu  sync.Mutex
}

// GetSharedRedisContainer returns a singleton Redis container.
// The container is started once and reused across all tests.
func GetSharedRedisContainer(ctx context.Context) (*SharedRedisContainer, error) {
	sharedRedisContainerMu.Lock()
	defer sharedRedisContainerMu.Unlock()

	needsCreation := sharedRedisContainer == nil

	if !needsCreation && needsRedisContainerRecreation(ctx) {
		cleanupCrashedRedisContainer()
		needsCreation = true
	}

	if needsCreation {
		startupCtx, cancel := context.WithTimeout(context.Background(), redisContainerStartupTimeout)
		defer cancel()

		cont, err := startRedisContainer(startupCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to start Redis container: %w", err)
		}
		sharedRedisContainer = cont
	}

	return sharedRedisContainer, nil
}

func needsRedisContainerRecreation(ctx context.Context) bool {
	if sharedRedisContainer == nil || sharedRedisContainer.Container == nil {
		return true
	}
	state, err := sharedRedisContainer.Container.State(ctx)
	return err != nil || !state.Running
}

func cleanupCrashedRedisContainer() {
	if sharedRedisContainer == nil {
		return
	}
	if sharedRedisContainer.Container != nil {
		terminateCtx, cancel := context.WithTimeout(context.Background(), redisContainerTerminateTimeout)
		_ = sharedRedisContainer.Container.Terminate(terminateCtx)
		cancel()
	}
	if sharedRedisContainer.client != nil {
		_ = sharedRedisContainer.client.Close()
	}
	sharedRedisContainer = nil
}

func startRedisContainer(ctx context.Context) (*SharedRedisContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Memory = redisContainerMemoryLimit
			hc.MemorySwap = redisContainerMemoryLimit
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(redisContainerStartupTimeout),
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(redisContainerStartupTimeout),
		),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		Reuse:            false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Redis container: %w", err)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := cont.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &SharedRedisContainer{
		Container: cont,
		Addr:      net.JoinHostPort(host, port.Port()),
	}, nil
}

// GetClient returns a shared Redis client, creating one if needed.
func (c *SharedRedisContainer) GetClient(ctx context.Context) (*redis.Client, error) {
	c.clientMu.Lock()
	defer c.clientMu.Unlock()

	if c.client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := c.client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return c.client, nil
		}
		_ = c.client.Close()
		c.client = nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		PoolSize: redisSharedPoolSize,
	})

	maxRetries := 5
	var pingErr error
	for i := range maxRetries {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), redisPingTimeout)
		pingErr = client.Ping(pingCtx).Err()
		pingCancel()
		if pingErr == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(redisPingRetryDelay)
		}
	}
	if pingErr != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis after %d retries: %w", maxRetries, pingErr)
	}

	c.client = client
	return client, nil
}

// SetupTestRedis creates a Redis client using the shared container.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), redisCtxTimeout)
	defer cancel()

	cont, err := GetSharedRedisContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to get shared Redis container: %v", err)
	}

	// Warms up the shared connection and verifies container health.
	if _, clientErr := cont.GetClient(ctx); clientErr != nil {
		t.Fatalf("Failed to get Redis client: %v", clientErr)
	}

	testClient := redis.NewClient(&redis.Options{
		Addr:     cont.Addr,
		PoolSize: redisTestPoolSize,
	})

	if pingErr := testClient.Ping(ctx).Err(); pingErr != nil {
		t.Fatalf("Failed to ping Redis: %v", pingErr)
	}

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), redisCtxTimeout)
		defer cleanupCancel()
		_ = testClient.FlushDB(cleanupCtx).Err()
		_ = testClient.Close()
	})

	return testClient
}

// SetupTestRedisWithPrefix creates a Redis client and returns a unique
// key prefix so parallel tests do not collide on keys.
func SetupTestRedisWithPrefix(t *testing.T) (*redis.Client, string) {
	t.Helper()

	client := SetupTestRedis(t)
	prefix := fmt.Sprintf("test:%s:", t.Name())

	return client, prefix
}

// CleanupSharedRedisContainer terminates the shared container.
// Typically called from TestMain when all tests are done.
func CleanupSharedRedisContainer() {
	sharedRedisContainerMu.Lock()
	defer sharedRedisContainerMu.Unlock()

	if sharedRedisContainer == nil {
		return
	}
	if sharedRedisContainer.client != nil {
		_ = sharedRedisContainer.client.Close()
	}
	if sharedRedisContainer.Container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisContainerTerminateTimeout)
		defer cancel()
		_ = sharedRedisContainer.Container.Terminate(ctx)
	}
	sharedRedisContainer = nil
}
