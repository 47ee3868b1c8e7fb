package models_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/pawhub/communitystore/internal/store/models"
	"github.com/pawhub/communitystore/internal/store/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUser(id, username string) *types.User {
	now := time.Now()

	return &types.User{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserUsernameUniqueness(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	userModel := models.NewUser(db, zap.NewNop())
	ctx := t.Context()

	require.NoError(t, userModel.Add(ctx, newUser("usr_1", "alice")))

	err := userModel.Add(ctx, newUser("usr_2", "alice"))
	assert.ErrorIs(t, err, types.ErrConflict)

	require.NoError(t, userModel.Add(ctx, newUser("usr_2", "bob")))

	taken := "alice"
	_, err = userModel.Update(ctx, "usr_2", types.UserUpdate{Username: &taken})
	assert.ErrorIs(t, err, types.ErrConflict)

	found, err := userModel.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "usr_2", found.ID)

	// Matching is exact, no case folding.
	_, err = userModel.GetByUsername(ctx, "Bob")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPetLookupByOwnerAndSlug(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	logger := zap.NewNop()
	userModel := models.NewUser(db, logger)
	petModel := models.NewPet(db, logger)
	ctx := t.Context()

	require.NoError(t, userModel.Add(ctx, newUser("usr_1", "alice")))

	now := time.Now()
	pet := &types.Pet{
		ID:        "pet_1",
		OwnerID:   "usr_1",
		Name:      "Luna",
		Slug:      types.Slugify("Luna"),
		Species:   "dog",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, petModel.Add(ctx, pet))

	found, err := petModel.GetByOwnerAndSlug(ctx, "alice", "luna")
	require.NoError(t, err)
	assert.Equal(t, "pet_1", found.ID)

	_, err = petModel.GetByOwnerAndSlug(ctx, "alice", "rex")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = petModel.GetByOwnerAndSlug(ctx, "nobody", "luna")
	assert.ErrorIs(t, err, types.ErrNotFound)

	// A second pet with the same slug under the same owner is rejected.
	dup := &types.Pet{
		ID:        "pet_2",
		OwnerID:   "usr_1",
		Name:      "Luna II",
		Slug:      "luna",
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = petModel.Add(ctx, dup)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestPostOwnershipGates(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	postModel := models.NewPost(db, zap.NewNop())
	ctx := t.Context()

	now := time.Now()
	require.NoError(t, postModel.Add(ctx, &types.Post{
		ID:        "post_1",
		AuthorID:  "usr_a",
		Content:   "First walk of the season",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	content := "edited"
	_, err := postModel.Update(ctx, "post_1", "usr_b", types.PostUpdate{Content: &content})
	assert.ErrorIs(t, err, types.ErrForbidden)

	err = postModel.Remove(ctx, "post_1", "usr_b")
	assert.ErrorIs(t, err, types.ErrForbidden)

	updated, err := postModel.Update(ctx, "post_1", "usr_a", types.PostUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, postModel.AddComment(ctx, &types.Comment{
		ID:        "com_1",
		PostID:    "post_1",
		AuthorID:  "usr_b",
		Content:   "Nice!",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	// Deleting the post takes its comments with it.
	require.NoError(t, postModel.Remove(ctx, "post_1", "usr_a"))

	comments, err := postModel.CommentsByPost(ctx, "post_1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestActivityFeedBoundedPerGroup(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	activityModel := models.NewActivity(db, zap.NewNop())
	ctx := t.Context()

	base := time.Now().Add(-time.Duration(types.MaxActivitiesPerGroup+10) * time.Second)

	for i := range types.MaxActivitiesPerGroup + 5 {
		entry := &types.GroupActivity{
			ID:        fmt.Sprintf("act_%d", i),
			GroupID:   "grp_1",
			ActorID:   "usr_a",
			Kind:      "member_joined",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, activityModel.Add(ctx, entry))
	}

	entries, err := activityModel.ListByGroup(ctx, "grp_1")
	require.NoError(t, err)
	require.Len(t, entries, types.MaxActivitiesPerGroup)

	assert.Equal(t, fmt.Sprintf("act_%d", types.MaxActivitiesPerGroup+4), entries[0].ID)
	assert.Equal(t, "act_5", entries[len(entries)-1].ID)
}
