package service_test

import (
	"testing"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnRequiresModerator(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	_, err := client.Service().Moderation().Warn(ctx, groupID, "usr_member", "usr_other", 1, "spam", "")
	assert.ErrorIs(t, err, types.ErrForbidden)

	warning, err := client.Service().Moderation().Warn(ctx, groupID, "usr_mod", "usr_member", 1, "spam", "first offense")
	require.NoError(t, err)
	assert.Equal(t, "usr_mod", warning.IssuedBy)

	count, err := client.Service().Moderation().WarningCount(ctx, groupID, "usr_member")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEscalationWorkflow(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	// Two warnings, then a ban.
	_, err := client.Service().Moderation().Warn(ctx, groupID, "usr_mod", "usr_member", 1, "spam", "")
	require.NoError(t, err)
	_, err = client.Service().Moderation().Warn(ctx, groupID, "usr_mod", "usr_member", 2, "spam again", "")
	require.NoError(t, err)

	ban, err := client.Service().Moderation().Ban(ctx, groupID, "usr_admin", "usr_member", "repeat offender", nil)
	require.NoError(t, err)
	assert.True(t, ban.IsActive)

	// Membership is gone and the counter reflects it.
	_, err = client.Model().Member().Get(ctx, groupID, "usr_member")
	assert.ErrorIs(t, err, types.ErrNotFound)

	group, err := client.Model().Group().GetByID(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, 3, group.MemberCount)

	// Warnings survive the ban.
	count, err := client.Service().Moderation().WarningCount(ctx, groupID, "usr_member")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The audit log holds all three steps, newest first.
	actions, err := client.Service().Moderation().AuditLog(ctx, groupID, "usr_mod")
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, types.ActionTypeBan, actions[0].ActionType)
	assert.Equal(t, types.ActionTypeWarn, actions[1].ActionType)
	assert.Equal(t, types.ActionTypeWarn, actions[2].ActionType)

	_, err = client.Service().Moderation().AuditLog(ctx, groupID, "usr_member")
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestBanPermissionGate(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	_, err := client.Service().Moderation().Ban(ctx, groupID, "usr_member", "usr_mod", "revenge", nil)
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = client.Service().Moderation().Ban(ctx, groupID, "usr_stranger", "usr_member", "drive by", nil)
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestTemporaryBanLifecycle(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	expiry := time.Now().Add(time.Hour)
	ban, err := client.Service().Moderation().Ban(ctx, groupID, "usr_mod", "usr_member", "cooling off", &expiry)
	require.NoError(t, err)
	require.NotNil(t, ban.ExpiresAt)

	banned, err := client.Model().Moderation().IsBanned(ctx, groupID, "usr_member", time.Now())
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = client.Model().Moderation().IsBanned(ctx, groupID, "usr_member", expiry.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestKickAllowsRejoin(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	groupID := seedGroup(t, client, types.GroupTypeOpen)
	ctx := t.Context()

	require.NoError(t, client.Service().Moderation().Kick(ctx, groupID, "usr_mod", "usr_member", "cool off"))

	_, err := client.Model().Member().Get(ctx, groupID, "usr_member")
	assert.ErrorIs(t, err, types.ErrNotFound)

	// No ban stands in the way of rejoining.
	_, err = client.Service().Membership().JoinGroup(ctx, groupID, "usr_member")
	require.NoError(t, err)
}
