package models

import (
	"context"
	"sort"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// PollModel handles storage operations for group polls and their votes.
// Tallies are always recomputed from the vote set; a vote can replace a
// previous one, so incremental counting would double count.
type PollModel struct {
	db     *DB
	logger *zap.Logger
}

// NewPoll creates a new PollModel instance.
func NewPoll(db *DB, logger *zap.Logger) *PollModel {
	return &PollModel{
		db:     db,
		logger: logger.Named("store_poll"),
	}
}

// ListByGroup returns a group's polls, newest first.
func (m *PollModel) ListByGroup(ctx context.Context, groupID string) ([]*types.GroupPoll, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	polls, err := load[*types.GroupPoll](ctx, m.db, groupPollsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.GroupPoll
	for _, poll := range polls {
		if poll.GroupID == groupID {
			matched = append(matched, poll)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, nil
}

// GetByID returns the poll with the given ID.
func (m *PollModel) GetByID(ctx context.Context, id string) (*types.GroupPoll, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	polls, err := load[*types.GroupPoll](ctx, m.db, groupPollsKey)
	if err != nil {
		return nil, err
	}

	for _, poll := range polls {
		if poll.ID == id {
			return poll, nil
		}
	}

	return nil, types.ErrNotFound
}

// Add inserts a poll and settles its tallies from any pre-existing
// votes.
func (m *PollModel) Add(ctx context.Context, poll *types.GroupPoll) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	polls, err := load[*types.GroupPoll](ctx, m.db, groupPollsKey)
	if err != nil {
		return err
	}

	for _, existing := range polls {
		if existing.ID == poll.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, groupPollsKey, append(polls, poll)); err != nil {
		return err
	}

	if err := recomputePollTallies(ctx, m.db, poll.ID); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// Update applies a partial update, stamps UpdatedAt and recomputes
// tallies.
func (m *PollModel) Update(ctx context.Context, id string, update types.GroupPollUpdate) (*types.GroupPoll, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	polls, err := load[*types.GroupPoll](ctx, m.db, groupPollsKey)
	if err != nil {
		return nil, err
	}

	found := false

	for _, poll := range polls {
		if poll.ID != id {
			continue
		}

		if update.Question != nil {
			poll.Question = *update.Question
		}
		if update.ClosesAt != nil {
			poll.ClosesAt = update.ClosesAt
		}
		poll.UpdatedAt = time.Now()
		found = true

		break
	}

	if !found {
		return nil, types.ErrNotFound
	}

	if err := save(ctx, m.db, groupPollsKey, polls); err != nil {
		return nil, err
	}

	if err := recomputePollTallies(ctx, m.db, id); err != nil {
		return nil, err
	}

	m.db.invalidate()

	// Reload so the caller sees the recomputed tallies.
	polls, err = load[*types.GroupPoll](ctx, m.db, groupPollsKey)
	if err != nil {
		return nil, err
	}

	for _, poll := range polls {
		if poll.ID == id {
			return poll, nil
		}
	}

	return nil, types.ErrNotFound
}

// Remove deletes a poll together with its votes.
func (m *PollModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	polls, err := load[*types.GroupPoll](ctx, m.db, groupPollsKey)
	if err != nil {
		return err
	}

	remaining := polls[:0]
	for _, poll := range polls {
		if poll.ID != id {
			remaining = append(remaining, poll)
		}
	}

	if len(remaining) == len(polls) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, groupPollsKey, remaining); err != nil {
		return err
	}

	votes, err := load[*types.PollVote](ctx, m.db, pollVotesKey)
	if err != nil {
		return err
	}

	keptVotes := votes[:0]
	for _, vote := range votes {
		if vote.PollID != id {
			keptVotes = append(keptVotes, vote)
		}
	}

	if err := save(ctx, m.db, pollVotesKey, keptVotes); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// VotesByPoll returns all votes cast on a poll.
func (m *PollModel) VotesByPoll(ctx context.Context, pollID string) ([]*types.PollVote, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	votes, err := load[*types.PollVote](ctx, m.db, pollVotesKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.PollVote
	for _, vote := range votes {
		if vote.PollID == pollID {
			matched = append(matched, vote)
		}
	}

	return matched, nil
}

// UserVote returns the current vote of a user on a poll.
func (m *PollModel) UserVote(ctx context.Context, pollID, userID string) (*types.PollVote, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	votes, err := load[*types.PollVote](ctx, m.db, pollVotesKey)
	if err != nil {
		return nil, err
	}

	for _, vote := range votes {
		if vote.PollID == pollID && vote.UserID == userID {
			return vote, nil
		}
	}

	return nil, types.ErrNotFound
}

// CastVote records a user's vote, replacing any earlier vote by the
// same user on the same poll, then recomputes the tallies. Votes on
// closed polls are rejected.
func (m *PollModel) CastVote(ctx context.Context, vote *types.PollVote) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	polls, err := load[*types.GroupPoll](ctx, m.db, groupPollsKey)
	if err != nil {
		return err
	}

	var poll *types.GroupPoll

	for _, candidate := range polls {
		if candidate.ID == vote.PollID {
			poll = candidate
			break
		}
	}

	if poll == nil {
		return types.ErrNotFound
	}
	if poll.Closed(time.Now()) {
		return types.ErrInvalidState
	}

	votes, err := load[*types.PollVote](ctx, m.db, pollVotesKey)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range votes {
		if existing.PollID == vote.PollID && existing.UserID == vote.UserID {
			votes[i] = vote
			replaced = true

			break
		}
	}

	if !replaced {
		votes = append(votes, vote)
	}

	if err := save(ctx, m.db, pollVotesKey, votes); err != nil {
		return err
	}

	if err := recomputePollTallies(ctx, m.db, vote.PollID); err != nil {
		return err
	}

	m.db.invalidate()
	m.logger.Debug("Recorded poll vote",
		zap.String("pollID", vote.PollID),
		zap.String("userID", vote.UserID),
		zap.Bool("replaced", replaced))

	return nil
}

// RetractVote removes a user's vote and recomputes the tallies.
func (m *PollModel) RetractVote(ctx context.Context, pollID, userID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	votes, err := load[*types.PollVote](ctx, m.db, pollVotesKey)
	if err != nil {
		return err
	}

	remaining := votes[:0]
	for _, vote := range votes {
		if vote.PollID == pollID && vote.UserID == userID {
			continue
		}
		remaining = append(remaining, vote)
	}

	if len(remaining) == len(votes) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, pollVotesKey, remaining); err != nil {
		return err
	}

	if err := recomputePollTallies(ctx, m.db, pollID); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// recomputePollTallies rebuilds a poll's per-option and total vote
// counts from the vote set. The total counts distinct voters; a
// multi-select vote raises several option tallies but the total only
// once. Caller must hold the write lock.
func recomputePollTallies(ctx context.Context, db *DB, pollID string) error {
	polls, err := load[*types.GroupPoll](ctx, db, groupPollsKey)
	if err != nil {
		return err
	}

	var poll *types.GroupPoll

	for _, candidate := range polls {
		if candidate.ID == pollID {
			poll = candidate
			break
		}
	}

	if poll == nil {
		return nil
	}

	votes, err := load[*types.PollVote](ctx, db, pollVotesKey)
	if err != nil {
		return err
	}

	optionCounts := make(map[string]int, len(poll.Options))
	total := 0

	for _, vote := range votes {
		if vote.PollID != pollID {
			continue
		}

		total++

		for _, optionID := range vote.OptionIDs {
			optionCounts[optionID]++
		}
	}

	for i := range poll.Options {
		poll.Options[i].VoteCount = optionCounts[poll.Options[i].ID]
	}

	poll.VoteCount = total
	poll.UpdatedAt = time.Now()

	return save(ctx, db, groupPollsKey, polls)
}
