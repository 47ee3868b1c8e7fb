package models

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// ModerationModel handles storage operations for warnings, bans and the
// bounded audit log. Workflow operations that touch several collections
// (a ban also records an audit entry and removes the membership row)
// run under one lock acquisition.
type ModerationModel struct {
	db     *DB
	logger *zap.Logger
}

// NewModeration creates a new ModerationModel instance.
func NewModeration(db *DB, logger *zap.Logger) *ModerationModel {
	return &ModerationModel{
		db:     db,
		logger: logger.Named("store_moderation"),
	}
}

// WarningsFor returns the warnings issued against a user in a group,
// newest first.
func (m *ModerationModel) WarningsFor(ctx context.Context, groupID, userID string) ([]*types.GroupWarning, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	warnings, err := load[*types.GroupWarning](ctx, m.db, groupWarningsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupWarning
	for _, warning := range warnings {
		if warning.GroupID == groupID && warning.UserID == userID {
			matched = append(matched, warning)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, nil
}

// WarningCount returns the number of warnings against a user in a
// group. Warnings are never deleted, so this only grows.
func (m *ModerationModel) WarningCount(ctx context.Context, groupID, userID string) (int, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	warnings, err := load[*types.GroupWarning](ctx, m.db, groupWarningsKey)
	if err != nil {
		return 0, err
	}

	count := 0

	for _, warning := range warnings {
		if warning.GroupID == groupID && warning.UserID == userID {
			count++
		}
	}

	return count, nil
}

// AddWarning records a warning together with its audit entry as one
// unit.
func (m *ModerationModel) AddWarning(ctx context.Context, warning *types.GroupWarning, action *types.ModerationAction) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	warnings, err := load[*types.GroupWarning](ctx, m.db, groupWarningsKey)
	if err != nil {
		return err
	}

	if err := save(ctx, m.db, groupWarningsKey, append(warnings, warning)); err != nil {
		return err
	}

	if err := appendAction(ctx, m.db, action); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Issued warning",
		zap.String("groupID", warning.GroupID),
		zap.String("userID", warning.UserID),
		zap.Int("level", warning.Level))

	return nil
}

// BansByGroup returns a group's ban rows, newest first, including
// revoked and expired ones.
func (m *ModerationModel) BansByGroup(ctx context.Context, groupID string) ([]*types.GroupBan, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	bans, err := load[*types.GroupBan](ctx, m.db, groupBansKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupBan
	for _, ban := range bans {
		if ban.GroupID == groupID {
			matched = append(matched, ban)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, nil
}

// ActiveBan returns the ban in force against a user in a group at the
// given instant, or ErrNotFound when there is none. Expiry is evaluated
// here and never written back.
func (m *ModerationModel) ActiveBan(ctx context.Context, groupID, userID string, now time.Time) (*types.GroupBan, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return findActiveBan(ctx, m.db, groupID, userID, now)
}

// IsBanned reports whether a user is banned from a group at the given
// instant.
func (m *ModerationModel) IsBanned(ctx context.Context, groupID, userID string, now time.Time) (bool, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	_, err := findActiveBan(ctx, m.db, groupID, userID, now)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Ban records a ban, its audit entry and the membership removal as one
// unit. An existing ban row for the pair is replaced rather than
// duplicated, so banning again tightens or extends the current ban. The
// member counter only moves when a membership row actually existed.
func (m *ModerationModel) Ban(ctx context.Context, ban *types.GroupBan, action *types.ModerationAction) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	bans, err := load[*types.GroupBan](ctx, m.db, groupBansKey)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range bans {
		if existing.GroupID == ban.GroupID && existing.UserID == ban.UserID {
			bans[i] = ban
			replaced = true

			break
		}
	}

	if !replaced {
		bans = append(bans, ban)
	}

	if err := save(ctx, m.db, groupBansKey, bans); err != nil {
		return err
	}

	if err := appendAction(ctx, m.db, action); err != nil {
		return err
	}

	removed, err := removeMemberRow(ctx, m.db, ban.GroupID, ban.UserID)
	if err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Banned user",
		zap.String("groupID", ban.GroupID),
		zap.String("userID", ban.UserID),
		zap.Bool("replacedExistingBan", replaced),
		zap.Bool("memberRemoved", removed))

	return nil
}

// Unban revokes a user's ban and records the audit entry as one unit.
// The ban row is kept for history; membership is not restored.
func (m *ModerationModel) Unban(ctx context.Context, groupID, userID string, action *types.ModerationAction) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	bans, err := load[*types.GroupBan](ctx, m.db, groupBansKey)
	if err != nil {
		return err
	}

	found := false

	for _, ban := range bans {
		if ban.GroupID == groupID && ban.UserID == userID && ban.IsActive {
			ban.IsActive = false
			found = true
		}
	}

	if !found {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, groupBansKey, bans); err != nil {
		return err
	}

	if err := appendAction(ctx, m.db, action); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Unbanned user",
		zap.String("groupID", groupID),
		zap.String("userID", userID))

	return nil
}

// Kick removes a member without a ban and records the audit entry as
// one unit.
func (m *ModerationModel) Kick(ctx context.Context, groupID, userID string, action *types.ModerationAction) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	removed, err := removeMemberRow(ctx, m.db, groupID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return types.ErrNotFound
	}

	if err := appendAction(ctx, m.db, action); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// AddAction records a standalone audit entry, trimming the group's log
// to its bound.
func (m *ModerationModel) AddAction(ctx context.Context, action *types.ModerationAction) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := appendAction(ctx, m.db, action); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// ActionsByGroup returns a group's audit log, newest first.
func (m *ModerationModel) ActionsByGroup(ctx context.Context, groupID string) ([]*types.ModerationAction, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	actions, err := load[*types.ModerationAction](ctx, m.db, moderationActionsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.ModerationAction
	for _, action := range actions {
		if action.GroupID == groupID {
			matched = append(matched, action)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	return matched, nil
}

// appendAction stores an audit entry and trims the group's log to
// types.MaxModerationActionsPerGroup. Other groups' entries are never
// touched. Caller must hold the write lock.
func appendAction(ctx context.Context, db *DB, action *types.ModerationAction) error {
	actions, err := load[*types.ModerationAction](ctx, db, moderationActionsKey)
	if err != nil {
		return err
	}

	actions = append(actions, action)
	actions = trimGroupFeed(actions, action.GroupID, types.MaxModerationActionsPerGroup,
		func(a *types.ModerationAction) (string, string) { return a.GroupID, a.ID })

	return save(ctx, db, moderationActionsKey, actions)
}

// findActiveBan locates the ban in force for a pair at the given
// instant. Caller must hold the lock.
func findActiveBan(ctx context.Context, db *DB, groupID, userID string, now time.Time) (*types.GroupBan, error) {
	bans, err := load[*types.GroupBan](ctx, db, groupBansKey)
	if err != nil {
		return nil, err
	}

	for _, ban := range bans {
		if ban.GroupID == groupID && ban.UserID == userID && ban.ActiveAt(now) {
			return ban, nil
		}
	}

	return nil, types.ErrNotFound
}
