package service_test

import (
	"testing"

	"github.com/pawhub/communitystore/internal/store/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupEnrollsOwner(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	ctx := t.Context()

	group, err := client.Service().Membership().CreateGroup(
		ctx, "usr_owner", "Husky Owners", "All about huskies", "cat_dogs",
		types.GroupTypeOpen, "", []string{"dogs"})
	require.NoError(t, err)

	assert.Equal(t, "husky-owners", group.Slug)
	assert.Equal(t, 1, group.MemberCount)

	member, err := client.Model().Member().Get(ctx, group.ID, "usr_owner")
	require.NoError(t, err)
	assert.Equal(t, types.RoleOwner, member.Role)

	// A second group may not reuse the slug.
	_, err = client.Service().Membership().CreateGroup(
		ctx, "usr_other", "Husky Owners", "", "", types.GroupTypeOpen, "", nil)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestJoinGroupRejectsBannedUser(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	_, err := client.Service().Moderation().Ban(ctx, groupID, "usr_mod", "usr_member", "spam", nil)
	require.NoError(t, err)

	_, err = client.Service().Membership().JoinGroup(ctx, groupID, "usr_member")
	assert.ErrorIs(t, err, types.ErrForbidden)

	// After an unban the user may rejoin.
	err = client.Service().Moderation().Unban(ctx, groupID, "usr_mod", "usr_member", "appealed")
	require.NoError(t, err)

	member, err := client.Service().Membership().JoinGroup(ctx, groupID, "usr_member")
	require.NoError(t, err)
	assert.Equal(t, types.RoleMember, member.Role)
}

func TestJoinGroupTwice(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	_, err := client.Service().Membership().JoinGroup(ctx, groupID, "usr_new")
	require.NoError(t, err)

	_, err = client.Service().Membership().JoinGroup(ctx, groupID, "usr_new")
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestLeaveGroup(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	require.NoError(t, client.Service().Membership().LeaveGroup(ctx, groupID, "usr_member"))

	_, err := client.Model().Member().Get(ctx, groupID, "usr_member")
	assert.ErrorIs(t, err, types.ErrNotFound)

	// The owner cannot walk away from their own group.
	err = client.Service().Membership().LeaveGroup(ctx, groupID, "usr_owner")
	assert.ErrorIs(t, err, types.ErrInvalidState)

	err = client.Service().Membership().LeaveGroup(ctx, groupID, "usr_ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMembershipWorkflowFeedsActivity(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	ctx := t.Context()

	group, err := client.Service().Membership().CreateGroup(
		ctx, "usr_owner", "Husky Owners", "", "", types.GroupTypeOpen, "", nil)
	require.NoError(t, err)

	_, err = client.Service().Membership().JoinGroup(ctx, group.ID, "usr_new")
	require.NoError(t, err)

	entries, err := client.Model().Activity().ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "member_joined", entries[0].Kind)
	assert.Equal(t, "group_created", entries[1].Kind)
}
