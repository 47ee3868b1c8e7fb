package models

import (
	"context"
	"strings"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// GroupModel handles storage operations for groups.
type GroupModel struct {
	db     *DB
	logger *zap.Logger
}

// NewGroup creates a new GroupModel instance.
func NewGroup(db *DB, logger *zap.Logger) *GroupModel {
	return &GroupModel{
		db:     db,
		logger: logger.Named("store_group"),
	}
}

// List returns every group.
func (m *GroupModel) List(ctx context.Context) ([]*types.Group, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return load[*types.Group](ctx, m.db, groupsKey)
}

// GetByID returns the group with the given ID.
func (m *GroupModel) GetByID(ctx context.Context, id string) (*types.Group, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	groups, err := load[*types.Group](ctx, m.db, groupsKey)
	if err != nil {
		return nil, err
	}

	for _, group := range groups {
		if group.ID == id {
			return group, nil
		}
	}

	return nil, types.ErrNotFound
}

// GetBySlug returns the group with the given slug. Matching is
// case-sensitive and exact.
func (m *GroupModel) GetBySlug(ctx context.Context, slug string) (*types.Group, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	groups, err := load[*types.Group](ctx, m.db, groupsKey)
	if err != nil {
		return nil, err
	}

	for _, group := range groups {
		if group.Slug == slug {
			return group, nil
		}
	}

	return nil, types.ErrNotFound
}

// ListByCategory returns the groups filed under a category.
func (m *GroupModel) ListByCategory(ctx context.Context, categoryID string) ([]*types.Group, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	groups, err := load[*types.Group](ctx, m.db, groupsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.Group
	for _, group := range groups {
		if group.CategoryID == categoryID {
			matched = append(matched, group)
		}
	}

	return matched, nil
}

// Search returns groups whose name, description or tags contain the
// query, case-insensitively. An empty query matches everything.
func (m *GroupModel) Search(ctx context.Context, query string) ([]*types.Group, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	groups, err := load[*types.Group](ctx, m.db, groupsKey)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return groups, nil
	}

	var matched []*types.Group

	for _, group := range groups {
		if strings.Contains(strings.ToLower(group.Name), normalized) ||
			strings.Contains(strings.ToLower(group.Description), normalized) {
			matched = append(matched, group)
			continue
		}

		for _, tag := range group.Tags {
			if strings.Contains(strings.ToLower(tag), normalized) {
				matched = append(matched, group)
				break
			}
		}
	}

	return matched, nil
}

// Add inserts a new group. The ID must be unused.
func (m *GroupModel) Add(ctx context.Context, group *types.Group) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	groups, err := load[*types.Group](ctx, m.db, groupsKey)
	if err != nil {
		return err
	}

	for _, existing := range groups {
		if existing.ID == group.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, groupsKey, append(groups, group)); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Added group",
		zap.String("groupID", group.ID),
		zap.String("slug", group.Slug))

	return nil
}

// Update applies a partial update and stamps UpdatedAt. Derived
// counters are not reachable through GroupUpdate.
func (m *GroupModel) Update(ctx context.Context, id string, update types.GroupUpdate) (*types.Group, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	groups, err := load[*types.Group](ctx, m.db, groupsKey)
	if err != nil {
		return nil, err
	}

	for _, group := range groups {
		if group.ID != id {
			continue
		}

		if update.Slug != nil {
			group.Slug = *update.Slug
		}
		if update.Name != nil {
			group.Name = *update.Name
		}
		if update.Description != nil {
			group.Description = *update.Description
		}
		if update.CategoryID != nil {
			group.CategoryID = *update.CategoryID
		}
		if update.Type != nil {
			group.Type = *update.Type
		}
		if update.Tags != nil {
			group.Tags = update.Tags
		}
		group.UpdatedAt = time.Now()

		if err := save(ctx, m.db, groupsKey, groups); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return group, nil
	}

	return nil, types.ErrNotFound
}

// Remove deletes the group row only. Dependent rows are left in place;
// cascading cleanup is outside this core's contract.
func (m *GroupModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	groups, err := load[*types.Group](ctx, m.db, groupsKey)
	if err != nil {
		return err
	}

	remaining := groups[:0]
	for _, group := range groups {
		if group.ID != id {
			remaining = append(remaining, group)
		}
	}

	if len(remaining) == len(groups) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, groupsKey, remaining); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Removed group", zap.String("groupID", id))

	return nil
}

// adjustGroupCounters shifts a group's derived counters in place,
// flooring both at zero, and stamps UpdatedAt. Caller must hold the
// write lock.
func adjustGroupCounters(ctx context.Context, db *DB, groupID string, memberDelta, topicDelta int) error {
	groups, err := load[*types.Group](ctx, db, groupsKey)
	if err != nil {
		return err
	}

	for _, group := range groups {
		if group.ID != groupID {
			continue
		}

		group.MemberCount = max(0, group.MemberCount+memberDelta)
		group.TopicCount = max(0, group.TopicCount+topicDelta)
		group.UpdatedAt = time.Now()

		return save(ctx, db, groupsKey, groups)
	}

	// Counter maintenance is best effort when the group row is gone;
	// membership rows may outlive a deleted group.
	return nil
}
