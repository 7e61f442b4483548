// Package main provides the API server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	authapp "github.com/couriermsg/courier/internal/application/auth"
	messageapp "github.com/couriermsg/courier/internal/application/message"
	threadapp "github.com/couriermsg/courier/internal/application/thread"
	"github.com/couriermsg/courier/internal/config"
	httphandler "github.com/couriermsg/courier/internal/handler/http"
	infraauth "github.com/couriermsg/courier/internal/infrastructure/auth"
	"github.com/couriermsg/courier/internal/infrastructure/httpserver"
	"github.com/couriermsg/courier/internal/infrastructure/metrics"
	mongodbinfra "github.com/couriermsg/courier/internal/infrastructure/mongodb"
	mongorepo "github.com/couriermsg/courier/internal/infrastructure/repository/mongodb"
)

// Container initialization timeouts.
const (
	redisPingTimeout       = 5 * time.Second
	mongoDisconnectTimeout = 10 * time.Second
)

// Container holds all application dependencies and manages their lifecycle.
// It implements httpserver.HealthChecker for the health endpoints.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	MongoDB     *mongo.Client
	MongoDBName string
	Redis       *redis.Client

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
	ChatMetrics *metrics.ChatMetrics

	UserRepo    *mongorepo.MongoUserRepository
	ThreadRepo  *mongorepo.MongoThreadRepository
	MessageRepo *mongorepo.MongoMessageRepository

	TokenManager   *infraauth.TokenManager
	TokenStore     *infraauth.TokenStore
	PasswordHasher *infraauth.BcryptHasher

	AuthHandler    *httphandler.AuthHandler
	ThreadHandler  *httphandler.ThreadHandler
	MessageHandler *httphandler.MessageHandler
}

// Ensure Container implements httpserver.HealthChecker.
var _ httpserver.HealthChecker = (*Container)(nil)

// ContainerOption configures the Container.
type ContainerOption func(*Container)

// WithLogger sets a custom logger for the container.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) {
		c.Logger = logger
	}
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config, opts ...ContainerOption) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	ctx := context.Background()

	if err := c.setupMongoDB(ctx); err != nil {
		return nil, fmt.Errorf("mongodb setup: %w", err)
	}
	if err := c.setupRedis(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis setup: %w", err)
	}

	c.setupMetrics()

	if err := c.setupAuth(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("auth setup: %w", err)
	}

	c.setupRepositories()
	c.setupHandlers()

	return c, nil
}

// setupMongoDB connects the MongoDB client and ensures indexes exist.
func (c *Container) setupMongoDB(ctx context.Context) error {
	clientOpts := options.Client().
		ApplyURI(c.Config.MongoDB.URI).
		SetMaxPoolSize(c.Config.MongoDB.MaxPoolSize)

	client, connectErr := mongo.Connect(clientOpts)
	if connectErr != nil {
		return fmt.Errorf("failed to connect: %w", connectErr)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.MongoDB = client
	c.MongoDBName = c.Config.MongoDB.Database

	c.Logger.InfoContext(ctx, "connected to MongoDB",
		slog.String("database", c.Config.MongoDB.Database),
	)

	db := client.Database(c.Config.MongoDB.Database)
	indexCtx, indexCancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer indexCancel()

	if indexErr := mongodbinfra.CreateAllIndexes(indexCtx, db); indexErr != nil {
		return fmt.Errorf("failed to create indexes: %w", indexErr)
	}

	c.Logger.InfoContext(ctx, "MongoDB indexes created")

	return nil
}

// setupRedis initializes the Redis client.
func (c *Container) setupRedis(ctx context.Context) error {
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
		PoolSize: c.Config.Redis.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if pingErr := c.Redis.Ping(pingCtx).Err(); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.Logger.InfoContext(ctx, "connected to Redis",
		slog.String("addr", c.Config.Redis.Addr),
	)

	return nil
}

// setupMetrics builds the Prometheus registry with process collectors and
// the application instruments.
func (c *Container) setupMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c.HTTPMetrics = metrics.NewHTTPMetrics(c.Registry)
	c.ChatMetrics = metrics.NewChatMetrics(c.Registry)
}

// setupAuth initializes token issuing, token storage and password hashing.
func (c *Container) setupAuth() error {
	manager, err := infraauth.NewTokenManager(infraauth.TokenManagerConfig{
		Secret:     c.Config.Auth.JWTSecret,
		AccessTTL:  c.Config.Auth.AccessTokenTTL,
		RefreshTTL: c.Config.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return err
	}

	c.TokenManager = manager
	c.TokenStore = infraauth.NewTokenStore(infraauth.TokenStoreConfig{Client: c.Redis})
	c.PasswordHasher = infraauth.NewBcryptHasher(c.Config.Auth.BcryptCost)

	return nil
}

// setupRepositories initializes the MongoDB repositories.
func (c *Container) setupRepositories() {
	db := c.MongoDB.Database(c.MongoDBName)
	users := db.Collection(mongodbinfra.CollectionUsers)
	threads := db.Collection(mongodbinfra.CollectionThreads)
	messages := db.Collection(mongodbinfra.CollectionMessages)

	c.UserRepo = mongorepo.NewMongoUserRepository(users,
		mongorepo.WithUserRepoLogger(c.Logger))
	c.ThreadRepo = mongorepo.NewMongoThreadRepository(threads, messages, users,
		mongorepo.WithThreadRepoLogger(c.Logger))
	c.MessageRepo = mongorepo.NewMongoMessageRepository(messages, threads, users,
		mongorepo.WithMessageRepoLogger(c.Logger))
}

// setupHandlers wires the use cases and HTTP handlers.
func (c *Container) setupHandlers() {
	c.AuthHandler = httphandler.NewAuthHandler(
		authapp.NewRegisterUseCase(c.UserRepo, c.PasswordHasher, c.TokenManager, c.TokenStore),
		authapp.NewLoginUseCase(c.UserRepo, c.PasswordHasher, c.TokenManager, c.TokenStore),
		authapp.NewRefreshUseCase(c.UserRepo, c.TokenManager, c.TokenStore),
		authapp.NewLogoutUseCase(c.TokenStore),
		authapp.NewCurrentUserUseCase(c.UserRepo),
		c.ChatMetrics,
	)

	c.ThreadHandler = httphandler.NewThreadHandler(
		threadapp.NewUpsertThreadUseCase(c.ThreadRepo, c.UserRepo),
		threadapp.NewDeleteThreadUseCase(c.ThreadRepo),
		threadapp.NewListThreadsUseCase(c.ThreadRepo, c.MessageRepo),
		c.ChatMetrics,
	)

	c.MessageHandler = httphandler.NewMessageHandler(
		messageapp.NewCreateMessageUseCase(c.MessageRepo),
		messageapp.NewReadMessageUseCase(c.MessageRepo),
		messageapp.NewListMessagesUseCase(c.MessageRepo),
		c.ChatMetrics,
	)
}

// Close releases container resources in reverse dependency order.
func (c *Container) Close() error {
	c.Logger.Info("closing container resources...")

	var errs []error

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		} else {
			c.Logger.Debug("redis connection closed")
		}
	}

	if c.MongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
		defer cancel()

		if err := c.MongoDB.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect: %w", err))
		} else {
			c.Logger.Debug("mongodb connection closed")
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.Logger.Info("all container resources closed")
	return nil
}

// IsReady implements httpserver.HealthChecker.
func (c *Container) IsReady(ctx context.Context) bool {
	if c.MongoDB == nil {
		return false
	}
	if err := c.MongoDB.Ping(ctx, nil); err != nil {
		c.Logger.WarnContext(ctx, "mongodb health check failed", slog.String("error", err.Error()))
		return false
	}

	if c.Redis == nil {
		return false
	}
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		c.Logger.WarnContext(ctx, "redis health check failed", slog.String("error", err.Error()))
		return false
	}

	return true
}

// GetHealthStatus implements httpserver.HealthChecker.
func (c *Container) GetHealthStatus(ctx context.Context) []httpserver.ComponentStatus {
	var statuses []httpserver.ComponentStatus

	mongoStatus := httpserver.ComponentStatus{Name: "mongodb", Status: httpserver.StatusHealthy}
	if c.MongoDB == nil {
		mongoStatus.Status = httpserver.StatusUnhealthy
		mongoStatus.Message = "client not initialized"
	} else if err := c.MongoDB.Ping(ctx, nil); err != nil {
		mongoStatus.Status = httpserver.StatusUnhealthy
		mongoStatus.Message = err.Error()
	}
	statuses = append(statuses, mongoStatus)

	redisStatus := httpserver.ComponentStatus{Name: "redis", Status: httpserver.StatusHealthy}
	if c.Redis == nil {
		redisStatus.Status = httpserver.StatusUnhealthy
		redisStatus.Message = "client not initialized"
	} else if err := c.Redis.Ping(ctx).Err(); err != nil {
		redisStatus.Status = httpserver.StatusUnhealthy
		redisStatus.Message = err.Error()
	}
	statuses = append(statuses, redisStatus)

	return statuses
}
