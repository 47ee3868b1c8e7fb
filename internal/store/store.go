package store

import (
	"github.com/pawhub/communitystore/internal/storage"
	"github.com/pawhub/communitystore/internal/store/models"
	"go.uber.org/zap"
)

// Client defines the methods that a store client must implement.
type Client interface {
	// Model returns the repository containing all model operations.
	Model() *Repository
	// Service returns the service containing all workflow operations.
	Service() *Service
	// Close shuts down the underlying storage adapter.
	Close() error
}

// clientImpl represents the concrete implementation of the store client.
type clientImpl struct {
	adapter storage.Adapter
	logger  *zap.Logger
	repo    *Repository
	service *Service
}

// Option configures a client at construction time.
type Option func(*options)

type options struct {
	onMutate func()
}

// WithInvalidationHook installs a callback fired after mutations, for
// callers that keep caches derived from store contents.
func WithInvalidationHook(hook func()) Option {
	return func(o *options) {
		o.onMutate = hook
	}
}

// New builds a store client on top of a storage adapter.
func New(adapter storage.Adapter, logger *zap.Logger, opts ...Option) Client {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	db := models.NewDB(adapter, logger, cfg.onMutate)
	repo := NewRepository(db, logger)

	return &clientImpl{
		adapter: adapter,
		logger:  logger.Named("store"),
		repo:    repo,
		service: NewService(repo, logger),
	}
}

// Model returns the repository containing all model operations.
func (c *clientImpl) Model() *Repository {
	return c.repo
}

// Service returns the service containing all workflow operations.
func (c *clientImpl) Service() *Service {
	return c.service
}

// Close shuts down the underlying storage adapter when it holds
// external resources.
func (c *clientImpl) Close() error {
	if closer, ok := c.adapter.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}
