package models

import (
	"context"
	"sort"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// ActivityModel handles storage operations for the per-group activity
// feed. The feed is append-only and bounded; once a group reaches
// types.MaxActivitiesPerGroup entries, the oldest are evicted.
type ActivityModel struct {
	db     *DB
	logger *zap.Logger
}

// NewActivity creates a new ActivityModel instance.
func NewActivity(db *DB, logger *zap.Logger) *ActivityModel {
	return &ActivityModel{
		db:     db,
		logger: logger.Named("store_activity"),
	}
}

// ListByGroup returns a group's activity entries, newest first.
func (m *ActivityModel) ListByGroup(ctx context.Context, groupID string) ([]*types.GroupActivity, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	activities, err := load[*types.GroupActivity](ctx, m.db, groupActivitiesKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupActivity
	for _, activity := range activities {
		if activity.GroupID == groupID {
			matched = append(matched, activity)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	return matched, nil
}

// Add records an activity entry and trims the group's feed to its
// bound. Entries from other groups are never touched.
func (m *ActivityModel) Add(ctx context.Context, activity *types.GroupActivity) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	activities, err := load[*types.GroupActivity](ctx, m.db, groupActivitiesKey)
	if err != nil {
		return err
	}

	activities = append(activities, activity)
	activities = trimGroupFeed(activities, activity.GroupID, types.MaxActivitiesPerGroup,
		func(a *types.GroupActivity) (string, string) { return a.GroupID, a.ID })

	if err := save(ctx, m.db, groupActivitiesKey, activities); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// trimGroupFeed caps a group's entries at limit, keeping the most
// recently inserted. The collection slice is in insertion order, so
// the earliest positions are the oldest entries. Eviction works over
// entry IDs so that equal-looking rows are never confused. Caller
// must hold the write lock.
func trimGroupFeed[T any](items []T, groupID string, limit int,
	keyOf func(T) (group, id string),
) []T {
	var inGroup []T

	for _, item := range items {
		if g, _ := keyOf(item); g == groupID {
			inGroup = append(inGroup, item)
		}
	}

	if len(inGroup) <= limit {
		return items
	}

	evicted := make(map[string]struct{}, len(inGroup)-limit)
	for _, item := range inGroup[:len(inGroup)-limit] {
		_, id := keyOf(item)
		evicted[id] = struct{}{}
	}

	kept := items[:0]

	for _, item := range items {
		g, id := keyOf(item)
		if g == groupID {
			if _, gone := evicted[id]; gone {
				continue
			}
		}
		kept = append(kept, item)
	}

	return kept
}
