package models_test

import (
	"testing"
	"time"

	"github.com/pawhub/communitystore/internal/store/models"
	"github.com/pawhub/communitystore/internal/store/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPoll(id string) *types.GroupPoll {
	now := time.Now()

	return &types.GroupPoll{
		ID:       id,
		GroupID:  "grp_1",
		Question: "Favorite trail?",
		Options: []types.PollOption{
			{ID: "opt_a", Label: "Forest loop"},
			{ID: "opt_b", Label: "River walk"},
			{ID: "opt_c", Label: "Hill climb"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func castVote(pollID, userID string, optionIDs ...string) *types.PollVote {
	return &types.PollVote{
		PollID:    pollID,
		UserID:    userID,
		OptionIDs: optionIDs,
		CastAt:    time.Now(),
	}
}

func TestCastVoteReplacesPreviousVote(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	pollModel := models.NewPoll(db, zap.NewNop())
	ctx := t.Context()

	require.NoError(t, pollModel.Add(ctx, newPoll("poll_1")))
	require.NoError(t, pollModel.CastVote(ctx, castVote("poll_1", "usr_a", "opt_a")))

	poll, err := pollModel.GetByID(ctx, "poll_1")
	require.NoError(t, err)
	assert.Equal(t, 1, poll.VoteCount)
	assert.Equal(t, 1, poll.Options[0].VoteCount)
	assert.Equal(t, 0, poll.Options[1].VoteCount)

	// Voting again moves the vote instead of stacking it.
	require.NoError(t, pollModel.CastVote(ctx, castVote("poll_1", "usr_a", "opt_b")))

	poll, err = pollModel.GetByID(ctx, "poll_1")
	require.NoError(t, err)
	assert.Equal(t, 1, poll.VoteCount)
	assert.Equal(t, 0, poll.Options[0].VoteCount)
	assert.Equal(t, 1, poll.Options[1].VoteCount)
}

func TestMultiSelectVoteCountsVoterOnce(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	pollModel := models.NewPoll(db, zap.NewNop())
	ctx := t.Context()

	require.NoError(t, pollModel.Add(ctx, newPoll("poll_1")))
	require.NoError(t, pollModel.CastVote(ctx, castVote("poll_1", "usr_a", "opt_a", "opt_c")))
	require.NoError(t, pollModel.CastVote(ctx, castVote("poll_1", "usr_b", "opt_a")))

	poll, err := pollModel.GetByID(ctx, "poll_1")
	require.NoError(t, err)
	assert.Equal(t, 2, poll.VoteCount)
	assert.Equal(t, 2, poll.Options[0].VoteCount)
	assert.Equal(t, 0, poll.Options[1].VoteCount)
	assert.Equal(t, 1, poll.Options[2].VoteCount)
}

func TestCastVoteOnClosedPoll(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	pollModel := models.NewPoll(db, zap.NewNop())
	ctx := t.Context()

	closed := newPoll("poll_1")
	closesAt := time.Now().Add(-time.Hour)
	closed.ClosesAt = &closesAt

	require.NoError(t, pollModel.Add(ctx, closed))

	err := pollModel.CastVote(ctx, castVote("poll_1", "usr_a", "opt_a"))
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestCastVoteOnUnknownPoll(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	pollModel := models.NewPoll(db, zap.NewNop())
	ctx := t.Context()

	err := pollModel.CastVote(ctx, castVote("poll_missing", "usr_a", "opt_a"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRetractVote(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	pollModel := models.NewPoll(db, zap.NewNop())
	ctx := t.Context()

	require.NoError(t, pollModel.Add(ctx, newPoll("poll_1")))
	require.NoError(t, pollModel.CastVote(ctx, castVote("poll_1", "usr_a", "opt_a")))
	require.NoError(t, pollModel.RetractVote(ctx, "poll_1", "usr_a"))

	poll, err := pollModel.GetByID(ctx, "poll_1")
	require.NoError(t, err)
	assert.Equal(t, 0, poll.VoteCount)
	assert.Equal(t, 0, poll.Options[0].VoteCount)

	err = pollModel.RetractVote(ctx, "poll_1", "usr_a")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPollRemoveDropsVotes(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	pollModel := models.NewPoll(db, zap.NewNop())
	ctx := t.Context()

	require.NoError(t, pollModel.Add(ctx, newPoll("poll_1")))
	require.NoError(t, pollModel.CastVote(ctx, castVote("poll_1", "usr_a", "opt_a")))
	require.NoError(t, pollModel.Remove(ctx, "poll_1"))

	votes, err := pollModel.VotesByPoll(ctx, "poll_1")
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestEventRSVPReplaceAndAttendance(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	eventModel := models.NewEvent(db, zap.NewNop())
	ctx := t.Context()

	now := time.Now()
	require.NoError(t, eventModel.Add(ctx, &types.GroupEvent{
		ID:        "evt_1",
		GroupID:   "grp_1",
		AuthorID:  "usr_a",
		Title:     "Park meetup",
		StartDate: now.Add(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}))

	require.NoError(t, eventModel.SetRSVP(ctx, &types.EventRSVP{
		EventID: "evt_1", UserID: "usr_a", Status: types.RSVPGoing, RespondedAt: now,
	}))
	require.NoError(t, eventModel.SetRSVP(ctx, &types.EventRSVP{
		EventID: "evt_1", UserID: "usr_b", Status: types.RSVPMaybe, RespondedAt: now,
	}))

	event, err := eventModel.GetByID(ctx, "evt_1")
	require.NoError(t, err)
	assert.Equal(t, 1, event.AttendeeCount)

	// A changed response replaces the earlier one.
	require.NoError(t, eventModel.SetRSVP(ctx, &types.EventRSVP{
		EventID: "evt_1", UserID: "usr_a", Status: types.RSVPNotGoing, RespondedAt: now,
	}))

	event, err = eventModel.GetByID(ctx, "evt_1")
	require.NoError(t, err)
	assert.Equal(t, 0, event.AttendeeCount)

	rsvps, err := eventModel.RSVPsByEvent(ctx, "evt_1")
	require.NoError(t, err)
	assert.Len(t, rsvps, 2)
}
