package service_test

import (
	"testing"

	"github.com/pawhub/communitystore/internal/store/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePollRequiresTwoOptions(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	ctx := t.Context()

	_, err := client.Service().Poll().CreatePoll(
		ctx, "grp_1", "", "Favorite trail?", []string{"only one"}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	poll, err := client.Service().Poll().CreatePoll(
		ctx, "grp_1", "", "Favorite trail?", []string{"Forest loop", "River walk"}, nil)
	require.NoError(t, err)
	require.Len(t, poll.Options, 2)
	assert.Equal(t, 0, poll.VoteCount)
}

func TestCastVoteValidatesOptions(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	ctx := t.Context()

	poll, err := client.Service().Poll().CreatePoll(
		ctx, "grp_1", "", "Favorite trail?", []string{"Forest loop", "River walk"}, nil)
	require.NoError(t, err)

	_, err = client.Service().Poll().CastVote(ctx, poll.ID, "usr_a", nil)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = client.Service().Poll().CastVote(ctx, poll.ID, "usr_a", []string{"opt_bogus"})
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = client.Service().Poll().CastVote(ctx, poll.ID, "usr_a",
		[]string{poll.Options[0].ID, poll.Options[0].ID})
	assert.ErrorIs(t, err, types.ErrInvalidState)

	updated, err := client.Service().Poll().CastVote(ctx, poll.ID, "usr_a",
		[]string{poll.Options[0].ID, poll.Options[1].ID})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.VoteCount)
	assert.Equal(t, 1, updated.Options[0].VoteCount)
	assert.Equal(t, 1, updated.Options[1].VoteCount)
}

func TestRetractVoteThroughService(t *testing.T) {
	t.Parallel()

	client := setupClient(t)
	ctx := t.Context()

	poll, err := client.Service().Poll().CreatePoll(
		ctx, "grp_1", "", "Favorite trail?", []string{"Forest loop", "River walk"}, nil)
	require.NoError(t, err)

	_, err = client.Service().Poll().CastVote(ctx, poll.ID, "usr_a", []string{poll.Options[0].ID})
	require.NoError(t, err)

	updated, err := client.Service().Poll().RetractVote(ctx, poll.ID, "usr_a")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.VoteCount)
}
