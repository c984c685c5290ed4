package container

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shelfline/internal/config"
	infracache "shelfline/internal/infrastructure/cache"
	"shelfline/internal/infrastructure/database"
	"shelfline/internal/shared/serializer"
	"shelfline/pkg/cache"
	"shelfline/pkg/jwt"
	"shelfline/pkg/logger"

	"shelfline/internal/domains/author"
	authorHandler "shelfline/internal/domains/author/handler"
	authorRepo "shelfline/internal/domains/author/repository"
	authorService "shelfline/internal/domains/author/service"
	"shelfline/internal/domains/book"
	bookHandler "shelfline/internal/domains/book/handler"
	bookRepo "shelfline/internal/domains/book/repository"
	bookService "shelfline/internal/domains/book/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton wired once at startup, in dependency order: config,
// infrastructure, repositories, services, handlers.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Cache       cache.TagCache
	JWTManager  *jwt.Manager
	Links       *serializer.LinkBuilder

	AuthorRepo author.Repository
	BookRepo   book.Repository

	AuthorService author.Service
	BookService   book.Service

	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.BookHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	c.DB = database.NewPostgresDB(&cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c.RedisClient = infracache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.Cache = infracache.NewRedisTagCache(c.RedisClient)
	if err := c.Cache.Ping(ctx); err != nil {
		// The cache is an accelerator; a dead Redis must not prevent
		// startup. Reads fall through to the store until it recovers.
		logger.Warn("redis unavailable at startup, running uncached", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiryMins)
	c.Links = serializer.NewLinkBuilder(cfg.App.BaseURL)

	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool)
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)

	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.Cache, cfg.Cache.ListTTL)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo, c.Cache, cfg.Cache.ListTTL)

	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, c.Links)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService, c.Links)

	return c, nil
}

// Cleanup releases infrastructure connections.
func (c *Container) Cleanup() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
