package models

import (
	"context"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// UserModel handles storage operations for user accounts.
type UserModel struct {
	db     *DB
	logger *zap.Logger
}

// NewUser creates a new UserModel instance.
func NewUser(db *DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("store_user"),
	}
}

// List returns every user.
func (m *UserModel) List(ctx context.Context) ([]*types.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return load[*types.User](ctx, m.db, usersKey)
}

// GetByID returns the user with the given ID.
func (m *UserModel) GetByID(ctx context.Context, id string) (*types.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	users, err := load[*types.User](ctx, m.db, usersKey)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, types.ErrNotFound
}

// GetByUsername returns the user with the given username. Matching is
// case-sensitive and exact.
func (m *UserModel) GetByUsername(ctx context.Context, username string) (*types.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return findUserByUsername(ctx, m.db, username)
}

// Add inserts a user. Both the ID and the username must be unused.
func (m *UserModel) Add(ctx context.Context, user *types.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	users, err := load[*types.User](ctx, m.db, usersKey)
	if err != nil {
		return err
	}

	for _, existing := range users {
		if existing.ID == user.ID || existing.Username == user.Username {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, usersKey, append(users, user)); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Added user",
		zap.String("userID", user.ID),
		zap.String("username", user.Username))

	return nil
}

// Update applies a partial update and stamps UpdatedAt. A username
// change must not collide with another user.
func (m *UserModel) Update(ctx context.Context, id string, update types.UserUpdate) (*types.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	users, err := load[*types.User](ctx, m.db, usersKey)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		for _, existing := range users {
			if existing.ID != id && existing.Username == *update.Username {
				return nil, types.ErrConflict
			}
		}
	}

	for _, user := range users {
		if user.ID != id {
			continue
		}

		if update.Username != nil {
			user.Username = *update.Username
		}
		if update.FullName != nil {
			user.FullName = *update.FullName
		}
		if update.Bio != nil {
			user.Bio = *update.Bio
		}
		user.UpdatedAt = time.Now()

		if err := save(ctx, m.db, usersKey, users); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return user, nil
	}

	return nil, types.ErrNotFound
}

// Remove deletes the user row only.
func (m *UserModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	users, err := load[*types.User](ctx, m.db, usersKey)
	if err != nil {
		return err
	}

	remaining := users[:0]
	for _, user := range users {
		if user.ID != id {
			remaining = append(remaining, user)
		}
	}

	if len(remaining) == len(users) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, usersKey, remaining); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// findUserByUsername locates a user by exact username. Caller must hold
// the lock.
func findUserByUsername(ctx context.Context, db *DB, username string) (*types.User, error) {
	users, err := load[*types.User](ctx, db, usersKey)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Username == username {
			return user, nil
		}
	}

	return nil, types.ErrNotFound
}
