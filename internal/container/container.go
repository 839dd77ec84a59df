package container

import (
	"context"
	"fmt"

	"promo-api/internal/config"
	"promo-api/internal/repository"
	"promo-api/internal/service"
	"promo-api/internal/service/drive"
	"promo-api/internal/validate"
	"promo-api/pkg/database"
	"promo-api/pkg/gauth"
	"promo-api/pkg/logger"
	"promo-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Postgres    *database.PostgresDB
	Ledger      repository.Ledger
	Services    *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	// Redis is optional: without it the service loses caching and the
	// in-flight guard, but the ledger still enforces uniqueness.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	c := &Container{
		Config:      cfg,
		Logger:      log,
		RedisClient: redisClient,
	}

	if err := c.initLedger(ctx); err != nil {
		c.Close()
		return nil, err
	}

	images, err := c.initImageStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	rules, err := validate.NewRules(cfg)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build validation rules: %w", err)
	}

	cache := c.GetCacheService()
	c.Services = &service.Services{
		Submission: service.NewSubmissionService(rules, c.Ledger, images, cache, log),
		Query:      service.NewQueryService(c.Ledger, cache, log),
		Admin:      service.NewAdminService(c.Ledger, cache, log),
	}

	return c, nil
}

// initLedger wires the configured ledger backend
func (c *Container) initLedger(ctx context.Context) error {
	switch c.Config.LedgerBackend {
	case config.LedgerBackendPostgres:
		db, err := database.NewPostgresDB(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		c.Postgres = db
		c.Ledger = repository.NewPostgresLedger(db)
		c.Logger.Info("Postgres ledger initialized")

	case config.LedgerBackendSheets:
		client, err := gauth.NewHTTPClient(ctx, c.Config.GoogleCredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to build Google client: %w", err)
		}
		ledger, err := repository.NewSheetsLedger(ctx, client, c.Config.SpreadsheetID, c.Config.SheetName)
		if err != nil {
			return err
		}
		c.Ledger = ledger
		c.Logger.WithField("sheet", c.Config.SheetName).Info("Sheets ledger initialized")

	default:
		return fmt.Errorf("unknown ledger backend %q", c.Config.LedgerBackend)
	}
	return nil
}

// initImageStore wires the Drive image store when a folder is configured.
// Without one, submissions record the upload-failed sentinel.
func (c *Container) initImageStore(ctx context.Context) (service.ImageStore, error) {
	if c.Config.DriveFolderID == "" {
		c.Logger.Warn("Drive folder not configured, receipt images will not be stored")
		return nil, nil
	}

	client, err := gauth.NewHTTPClient(ctx, c.Config.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build Google client: %w", err)
	}

	store, err := drive.NewImageStore(ctx, client, c.Config.DriveFolderID, c.Logger)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("Drive image store initialized")
	return store, nil
}

// Close releases held connections
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// GetCacheService returns a cache service instance (nil without Redis)
func (c *Container) GetCacheService() *service.CacheService {
	if c.RedisClient == nil {
		return nil
	}
	return service.NewCacheService(c.RedisClient, c.Logger.Logger)
}

// GetSubmissionService returns the submission orchestrator
func (c *Container) GetSubmissionService() service.SubmissionService {
	return c.Services.Submission
}

// GetQueryService returns the campaign read service
func (c *Container) GetQueryService() service.QueryService {
	return c.Services.Query
}

// GetAdminService returns the operator mutation service
func (c *Container) GetAdminService() service.AdminService {
	return c.Services.Admin
}

// GetLedger returns the entry ledger
func (c *Container) GetLedger() repository.Ledger {
	return c.Ledger
}
