package models

import (
	"context"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// PetModel handles storage operations for pet profiles.
type PetModel struct {
	db     *DB
	logger *zap.Logger
}

// NewPet creates a new PetModel instance.
func NewPet(db *DB, logger *zap.Logger) *PetModel {
	return &PetModel{
		db:     db,
		logger: logger.Named("store_pet"),
	}
}

// List returns every pet.
func (m *PetModel) List(ctx context.Context) ([]*types.Pet, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return load[*types.Pet](ctx, m.db, petsKey)
}

// ListByOwner returns the pets owned by a user.
func (m *PetModel) ListByOwner(ctx context.Context, ownerID string) ([]*types.Pet, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	pets, err := load[*types.Pet](ctx, m.db, petsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.Pet
	for _, pet := range pets {
		if pet.OwnerID == ownerID {
			matched = append(matched, pet)
		}
	}

	return matched, nil
}

// GetByID returns the pet with the given ID.
func (m *PetModel) GetByID(ctx context.Context, id string) (*types.Pet, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	pets, err := load[*types.Pet](ctx, m.db, petsKey)
	if err != nil {
		return nil, err
	}

	for _, pet := range pets {
		if pet.ID == id {
			return pet, nil
		}
	}

	return nil, types.ErrNotFound
}

// GetByOwnerAndSlug resolves a pet by its public lookup key, the
// owner's username plus the pet's slug.
func (m *PetModel) GetByOwnerAndSlug(ctx context.Context, ownerUsername, slug string) (*types.Pet, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	owner, err := findUserByUsername(ctx, m.db, ownerUsername)
	if err != nil {
		return nil, err
	}

	pets, err := load[*types.Pet](ctx, m.db, petsKey)
	if err != nil {
		return nil, err
	}

	for _, pet := range pets {
		if pet.OwnerID == owner.ID && pet.Slug == slug {
			return pet, nil
		}
	}

	return nil, types.ErrNotFound
}

// Add inserts a pet. The slug must be unused within the owner's pets.
func (m *PetModel) Add(ctx context.Context, pet *types.Pet) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	pets, err := load[*types.Pet](ctx, m.db, petsKey)
	if err != nil {
		return err
	}

	for _, existing := range pets {
		if existing.ID == pet.ID {
			return types.ErrConflict
		}
		if existing.OwnerID == pet.OwnerID && existing.Slug == pet.Slug {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, petsKey, append(pets, pet)); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Added pet",
		zap.String("petID", pet.ID),
		zap.String("ownerID", pet.OwnerID),
		zap.String("slug", pet.Slug))

	return nil
}

// Update applies a partial update and stamps UpdatedAt. A slug change
// must not collide within the owner's pets.
func (m *PetModel) Update(ctx context.Context, id string, update types.PetUpdate) (*types.Pet, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	pets, err := load[*types.Pet](ctx, m.db, petsKey)
	if err != nil {
		return nil, err
	}

	var target *types.Pet

	for _, pet := range pets {
		if pet.ID == id {
			target = pet
			break
		}
	}

	if target == nil {
		return nil, types.ErrNotFound
	}

	if update.Slug != nil {
		for _, existing := range pets {
			if existing.ID != id && existing.OwnerID == target.OwnerID && existing.Slug == *update.Slug {
				return nil, types.ErrConflict
			}
		}
	}

	if update.Name != nil {
		target.Name = *update.Name
	}
	if update.Slug != nil {
		target.Slug = *update.Slug
	}
	if update.Species != nil {
		target.Species = *update.Species
	}
	if update.Breed != nil {
		target.Breed = *update.Breed
	}
	if update.Bio != nil {
		target.Bio = *update.Bio
	}
	target.UpdatedAt = time.Now()

	if err := save(ctx, m.db, petsKey, pets); err != nil {
		return nil, err
	}

	m.db.invalidate()

	return target, nil
}

// Remove deletes a pet.
func (m *PetModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	pets, err := load[*types.Pet](ctx, m.db, petsKey)
	if err != nil {
		return err
	}

	remaining := pets[:0]
	for _, pet := range pets {
		if pet.ID != id {
			remaining = append(remaining, pet)
		}
	}

	if len(remaining) == len(pets) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, petsKey, remaining); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}
