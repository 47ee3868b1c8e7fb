package models

import (
	"context"
	"sort"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// ResourceModel handles storage operations for group resources.
type ResourceModel struct {
	db     *DB
	logger *zap.Logger
}

// NewResource creates a new ResourceModel instance.
func NewResource(db *DB, logger *zap.Logger) *ResourceModel {
	return &ResourceModel{
		db:     db,
		logger: logger.Named("store_resource"),
	}
}

// ListByGroup returns a group's resources, newest first.
func (m *ResourceModel) ListByGroup(ctx context.Context, groupID string) ([]*types.GroupResource, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	resources, err := load[*types.GroupResource](ctx, m.db, groupResourcesKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupResource
	for _, resource := range resources {
		if resource.GroupID == groupID {
			matched = append(matched, resource)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, nil
}

// GetByID returns the resource with the given ID.
func (m *ResourceModel) GetByID(ctx context.Context, id string) (*types.GroupResource, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	resources, err := load[*types.GroupResource](ctx, m.db, groupResourcesKey)
	if err != nil {
		return nil, err
	}

	for _, resource := range resources {
		if resource.ID == id {
			return resource, nil
		}
	}

	return nil, types.ErrNotFound
}

// Add inserts a resource.
func (m *ResourceModel) Add(ctx context.Context, resource *types.GroupResource) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	resources, err := load[*types.GroupResource](ctx, m.db, groupResourcesKey)
	if err != nil {
		return err
	}

	for _, existing := range resources {
		if existing.ID == resource.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, groupResourcesKey, append(resources, resource)); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// Update applies a partial update and stamps UpdatedAt.
func (m *ResourceModel) Update(ctx context.Context, id string, update types.GroupResourceUpdate) (*types.GroupResource, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	resources, err := load[*types.GroupResource](ctx, m.db, groupResourcesKey)
	if err != nil {
		return nil, err
	}

	for _, resource := range resources {
		if resource.ID != id {
			continue
		}

		if update.Title != nil {
			resource.Title = *update.Title
		}
		if update.URL != nil {
			resource.URL = *update.URL
		}
		if update.Body != nil {
			resource.Body = *update.Body
		}
		if update.Tags != nil {
			resource.Tags = update.Tags
		}
		resource.UpdatedAt = time.Now()

		if err := save(ctx, m.db, groupResourcesKey, resources); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return resource, nil
	}

	return nil, types.ErrNotFound
}

// Remove deletes a resource.
func (m *ResourceModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	resources, err := load[*types.GroupResource](ctx, m.db, groupResourcesKey)
	if err != nil {
		return err
	}

	remaining := resources[:0]
	for _, resource := range resources {
		if resource.ID != id {
			remaining = append(remaining, resource)
		}
	}

	if len(remaining) == len(resources) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, groupResourcesKey, remaining); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}
