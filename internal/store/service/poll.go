package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pawhub/communitystore/internal/store/models"
	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// PollService handles poll creation and the voting workflow.
type PollService struct {
	poll   *models.PollModel
	logger *zap.Logger
}

// NewPoll creates a new poll service.
func NewPoll(poll *models.PollModel, logger *zap.Logger) *PollService {
	return &PollService{
		poll:   poll,
		logger: logger.Named("poll_service"),
	}
}

// CreatePoll creates a poll with the given option labels. At least two
// options are required.
func (s *PollService) CreatePoll(
	ctx context.Context, groupID, topicID, question string, optionLabels []string, closesAt *time.Time,
) (*types.GroupPoll, error) {
	if len(optionLabels) < 2 {
		return nil, types.ErrInvalidState
	}

	now := time.Now()
	options := make([]types.PollOption, len(optionLabels))

	for i, label := range optionLabels {
		options[i] = types.PollOption{
			ID:    types.NewID("opt"),
			Label: label,
		}
	}

	poll := &types.GroupPoll{
		ID:        types.NewID("poll"),
		GroupID:   groupID,
		TopicID:   topicID,
		Question:  question,
		Options:   options,
		ClosesAt:  closesAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.poll.Add(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to add poll: %w", err)
	}

	return poll, nil
}

// CastVote records a user's selection, replacing any earlier vote on
// the same poll. Every selected option must belong to the poll and the
// selection must not be empty.
func (s *PollService) CastVote(ctx context.Context, pollID, userID string, optionIDs []string) (*types.GroupPoll, error) {
	poll, err := s.poll.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if len(optionIDs) == 0 {
		return nil, types.ErrInvalidState
	}

	valid := make(map[string]struct{}, len(poll.Options))
	for _, option := range poll.Options {
		valid[option.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(optionIDs))

	for _, optionID := range optionIDs {
		if _, ok := valid[optionID]; !ok {
			return nil, types.ErrInvalidState
		}
		if _, dup := seen[optionID]; dup {
			return nil, types.ErrInvalidState
		}
		seen[optionID] = struct{}{}
	}

	vote := &types.PollVote{
		PollID:    pollID,
		UserID:    userID,
		OptionIDs: optionIDs,
		CastAt:    time.Now(),
	}

	if err := s.poll.CastVote(ctx, vote); err != nil {
		return nil, err
	}

	return s.poll.GetByID(ctx, pollID)
}

// RetractVote withdraws a user's vote and returns the poll with its
// recomputed tallies.
func (s *PollService) RetractVote(ctx context.Context, pollID, userID string) (*types.GroupPoll, error) {
	if err := s.poll.RetractVote(ctx, pollID, userID); err != nil {
		return nil, err
	}

	return s.poll.GetByID(ctx, pollID)
}
