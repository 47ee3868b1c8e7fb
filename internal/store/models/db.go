package models

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pawhub/communitystore/internal/storage"
	"go.uber.org/zap"
)

// Collection keys. One key per entity kind, each holding the full
// ordered list for that kind.
const (
	usersKey             = "community:users"
	petsKey              = "community:pets"
	postsKey             = "community:posts"
	commentsKey          = "community:comments"
	groupsKey            = "community:groups"
	groupMembersKey      = "community:group_members"
	groupTopicsKey       = "community:group_topics"
	groupPollsKey        = "community:group_polls"
	pollVotesKey         = "community:poll_votes"
	groupEventsKey       = "community:group_events"
	eventRSVPsKey        = "community:event_rsvps"
	groupResourcesKey    = "community:group_resources"
	groupActivitiesKey   = "community:group_activities"
	groupWarningsKey     = "community:group_warnings"
	groupBansKey         = "community:group_bans"
	moderationActionsKey = "community:moderation_actions"
	conversationsKey     = "community:conversations"
	directMessagesKey    = "community:direct_messages"
)

// DB bundles the storage adapter with the single lock that serializes
// mutations. Every multi-step operation (ban plus member removal, vote
// replace plus tally recompute, member add plus counter increment) runs
// under one acquisition of mu so callers never observe a torn state.
type DB struct {
	adapter  storage.Adapter
	mu       sync.RWMutex
	logger   *zap.Logger
	onMutate func()
}

// NewDB wraps a storage adapter. onMutate is the optional cache
// invalidation hook fired after group and post mutations; nil disables
// it without affecting writes.
func NewDB(adapter storage.Adapter, logger *zap.Logger, onMutate func()) *DB {
	return &DB{
		adapter:  adapter,
		logger:   logger.Named("store_db"),
		onMutate: onMutate,
	}
}

// invalidate fires the cache invalidation hook if one is installed.
func (db *DB) invalidate() {
	if db.onMutate != nil {
		db.onMutate()
	}
}

// load reads a whole collection. A missing key is an empty collection.
// The caller must hold db.mu in at least read mode.
func load[T any](ctx context.Context, db *DB, key string) ([]T, error) {
	raw, found, err := db.adapter.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %q: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return nil, nil
	}

	var items []T
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode collection %q: %w", key, err)
	}

	return items, nil
}

// save writes a whole collection back. The caller must hold db.mu in
// write mode.
func save[T any](ctx context.Context, db *DB, key string, items []T) error {
	raw, err := sonic.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", key, err)
	}

	if err := db.adapter.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save collection %q: %w", key, err)
	}

	return nil
}
