package models

import (
	"context"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// MemberModel handles storage operations for group memberships.
type MemberModel struct {
	db     *DB
	logger *zap.Logger
}

// NewMember creates a new MemberModel instance.
func NewMember(db *DB, logger *zap.Logger) *MemberModel {
	return &MemberModel{
		db:     db,
		logger: logger.Named("store_member"),
	}
}

// List returns every membership row.
func (m *MemberModel) List(ctx context.Context) ([]*types.GroupMember, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return load[*types.GroupMember](ctx, m.db, groupMembersKey)
}

// ListByGroup returns the membership rows for a group.
func (m *MemberModel) ListByGroup(ctx context.Context, groupID string) ([]*types.GroupMember, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	members, err := load[*types.GroupMember](ctx, m.db, groupMembersKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupMember
	for _, member := range members {
		if member.GroupID == groupID {
			matched = append(matched, member)
		}
	}

	return matched, nil
}

// ListByUser returns the membership rows for a user across groups.
func (m *MemberModel) ListByUser(ctx context.Context, userID string) ([]*types.GroupMember, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	members, err := load[*types.GroupMember](ctx, m.db, groupMembersKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupMember
	for _, member := range members {
		if member.UserID == userID {
			matched = append(matched, member)
		}
	}

	return matched, nil
}

// Get returns the membership row for a (group, user) pair.
func (m *MemberModel) Get(ctx context.Context, groupID, userID string) (*types.GroupMember, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return findMember(ctx, m.db, groupID, userID)
}

// Add inserts a membership row and increments the group's member
// counter as one unit. A second row for the same (group, user) pair is
// rejected.
func (m *MemberModel) Add(ctx context.Context, member *types.GroupMember) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	members, err := load[*types.GroupMember](ctx, m.db, groupMembersKey)
	if err != nil {
		return err
	}

	for _, existing := range members {
		if existing.GroupID == member.GroupID && existing.UserID == member.UserID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, groupMembersKey, append(members, member)); err != nil {
		return err
	}

	if err := adjustGroupCounters(ctx, m.db, member.GroupID, 1, 0); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Added group member",
		zap.String("groupID", member.GroupID),
		zap.String("userID", member.UserID),
		zap.String("role", member.Role))

	return nil
}

// Update applies a partial update to a membership row by its ID.
func (m *MemberModel) Update(ctx context.Context, memberID string, update types.GroupMemberUpdate) (*types.GroupMember, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	members, err := load[*types.GroupMember](ctx, m.db, groupMembersKey)
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		if member.ID != memberID {
			continue
		}

		if update.Role != nil {
			member.Role = *update.Role
		}
		if update.Permissions != nil {
			member.Permissions = update.Permissions
		}

		if err := save(ctx, m.db, groupMembersKey, members); err != nil {
			return nil, err
		}

		return member, nil
	}

	return nil, types.ErrNotFound
}

// Remove deletes the membership row for a (group, user) pair and
// decrements the group's member counter, floored at zero.
func (m *MemberModel) Remove(ctx context.Context, groupID, userID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	removed, err := removeMemberRow(ctx, m.db, groupID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return types.ErrNotFound
	}

	m.db.invalidate()
	m.logger.Debug("Removed group member",
		zap.String("groupID", groupID),
		zap.String("userID", userID))

	return nil
}

// findMember locates a membership row. Caller must hold the lock.
func findMember(ctx context.Context, db *DB, groupID, userID string) (*types.GroupMember, error) {
	members, err := load[*types.GroupMember](ctx, db, groupMembersKey)
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		if member.GroupID == groupID && member.UserID == userID {
			return member, nil
		}
	}

	return nil, types.ErrNotFound
}

// removeMemberRow deletes a membership row and decrements the member
// counter. Reports whether a row existed. Caller must hold the write
// lock; the ban workflow shares this path so that ban-plus-unmember
// stays a single atomic unit.
func removeMemberRow(ctx context.Context, db *DB, groupID, userID string) (bool, error) {
	members, err := load[*types.GroupMember](ctx, db, groupMembersKey)
	if err != nil {
		return false, err
	}

	remaining := members[:0]
	for _, member := range members {
		if member.GroupID == groupID && member.UserID == userID {
			continue
		}
		remaining = append(remaining, member)
	}

	if len(remaining) == len(members) {
		return false, nil
	}

	if err := save(ctx, db, groupMembersKey, remaining); err != nil {
		return false, err
	}

	if err := adjustGroupCounters(ctx, db, groupID, -1, 0); err != nil {
		return false, err
	}

	return true, nil
}
