package container

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	categoryhandler "review-service/internal/domains/category/handler"
	categoryrepo "review-service/internal/domains/category/repository"
	categoryservice "review-service/internal/domains/category/service"
	filterhandler "review-service/internal/domains/contentfilter/handler"
	filterrepo "review-service/internal/domains/contentfilter/repository"
	filterservice "review-service/internal/domains/contentfilter/service"
	ctrepo "review-service/internal/domains/contenttype/repository"
	ctservice "review-service/internal/domains/contenttype/service"
	reviewhandler "review-service/internal/domains/review/handler"
	reviewrepo "review-service/internal/domains/review/repository"
	reviewservice "review-service/internal/domains/review/service"
	"review-service/internal/config"
	infracache "review-service/internal/infrastructure/cache"
	infradb "review-service/internal/infrastructure/database"
	"review-service/internal/infrastructure/storage"
	"review-service/pkg/logger"
)

// Container wires configuration, infrastructure, repositories, services and
// handlers in dependency order.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *infradb.PostgresDB
	Cache       *infracache.RedisCache
	Storage     *storage.MinIOStorage
	AsynqClient *asynq.Client

	// Repositories
	ReviewRepository reviewrepo.ReviewRepository

	// Services
	ContentTypeService ctservice.Service
	CategoryService    categoryservice.Service
	FilterService      filterservice.Service
	ReviewService      reviewservice.Service

	// Handlers
	CategoryHandler    *categoryhandler.Handler
	FilterHandler      *filterhandler.Handler
	ReviewHandler      *reviewhandler.Handler
	ReviewAdminHandler *reviewhandler.AdminHandler
}

// NewContainer initializes everything the API and worker share. Handlers are
// only used by the API but are cheap to build.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// Infrastructure
	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	db := infradb.NewPostgresDB(dbCfg)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	c.DB = db

	redisCache := infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		return nil, fmt.Errorf("redis init failed: %w", err)
	}
	c.Cache = redisCache

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	if err := minioStorage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	c.Storage = minioStorage

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Repositories
	contentTypeRepo := ctrepo.NewPostgresContentTypeRepository(db.Pool)
	categoryRepo := categoryrepo.NewPostgresCategoryRepository(db.Pool)
	filterRepo := filterrepo.NewPostgresFilterRepository(db.Pool)
	c.ReviewRepository = reviewrepo.NewPostgresReviewRepository(db.Pool)

	// Services. The content type service snapshots the registry here, at
	// process start; new types need a restart to show up.
	contentTypeService, err := ctservice.NewRegistryService(ctx, contentTypeRepo, hostObjectSources(db))
	if err != nil {
		return nil, fmt.Errorf("content type registry init failed: %w", err)
	}
	c.ContentTypeService = contentTypeService

	c.CategoryService = categoryservice.NewCategoryService(categoryRepo)
	c.FilterService = filterservice.NewFilterService(filterRepo, contentTypeService)
	c.ReviewService = reviewservice.NewReviewService(
		c.ReviewRepository,
		c.CategoryService,
		c.ContentTypeService,
		c.FilterService,
		c.Cache,
		c.Storage,
		c.AsynqClient,
		cfg,
	)

	// Handlers
	c.CategoryHandler = categoryhandler.NewHandler(c.CategoryService)
	c.FilterHandler = filterhandler.NewHandler(c.FilterService, c.ContentTypeService)
	c.ReviewHandler = reviewhandler.NewHandler(c.ReviewService)
	c.ReviewAdminHandler = reviewhandler.NewAdminHandler(c.ReviewService)

	logger.Info("Container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	return c, nil
}

// Close releases infrastructure resources in reverse order.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("Failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
