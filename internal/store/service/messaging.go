package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pawhub/communitystore/internal/store/models"
	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// MessagingService handles conversations, delivery and the archive
// workflow.
type MessagingService struct {
	conversation *models.ConversationModel
	logger       *zap.Logger
}

// NewMessaging creates a new messaging service.
func NewMessaging(conversation *models.ConversationModel, logger *zap.Logger) *MessagingService {
	return &MessagingService{
		conversation: conversation,
		logger:       logger.Named("messaging_service"),
	}
}

// Start opens a conversation between the given participants, or
// returns the existing one when the same participant set already has a
// thread. At least two distinct participants are required.
func (s *MessagingService) Start(
	ctx context.Context, participantIDs []string, conversationType, title string,
) (*types.Conversation, error) {
	distinct := slices.Clone(participantIDs)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	if len(distinct) < 2 {
		return nil, types.ErrInvalidState
	}

	if conversationType == "" {
		conversationType = types.ConversationDirect
	}

	now := time.Now()
	conversation := &types.Conversation{
		ID:             types.NewID("conv"),
		ParticipantIDs: distinct,
		Title:          title,
		Type:           conversationType,
		UnreadCounts:   make(map[string]int, len(distinct)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.conversation.Add(ctx, conversation)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return created, nil
}

// Send delivers a message into a conversation. The sender must be a
// participant.
func (s *MessagingService) Send(
	ctx context.Context, conversationID, senderID, content string, attachments []string,
) (*types.DirectMessage, error) {
	conversation, err := s.conversation.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(conversation.ParticipantIDs, senderID) {
		return nil, types.ErrForbidden
	}

	message := &types.DirectMessage{
		ID:             types.NewID("msg"),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Attachments:    attachments,
		Status:         types.MessageStatusSent,
		CreatedAt:      time.Now(),
	}

	if err := s.conversation.AddMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}

	return message, nil
}

// MarkRead records that a participant has read the conversation up to
// now. The participant's unread count resets to zero.
func (s *MessagingService) MarkRead(ctx context.Context, conversationID, userID string) error {
	conversation, err := s.conversation.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}

	if !slices.Contains(conversation.ParticipantIDs, userID) {
		return types.ErrForbidden
	}

	return s.conversation.MarkRead(ctx, conversationID, userID, time.Now())
}

// Archive moves a conversation out of the active listing. The caller
// must be a participant. Archiving an archived thread is a no-op.
func (s *MessagingService) Archive(ctx context.Context, conversationID, userID string) (*types.Conversation, error) {
	return s.setArchived(ctx, conversationID, userID, true)
}

// Unarchive returns a conversation to the active listing.
func (s *MessagingService) Unarchive(ctx context.Context, conversationID, userID string) (*types.Conversation, error) {
	return s.setArchived(ctx, conversationID, userID, false)
}

// Inbox lists a user's active conversations, most recently updated
// first.
func (s *MessagingService) Inbox(ctx context.Context, userID string) ([]*types.Conversation, error) {
	return s.conversation.ForUser(ctx, userID, false, false)
}

// Archived lists a user's archived conversations.
func (s *MessagingService) Archived(ctx context.Context, userID string) ([]*types.Conversation, error) {
	return s.conversation.ForUser(ctx, userID, true, true)
}

// Search finds messages across every conversation the user
// participates in, archived threads included.
func (s *MessagingService) Search(ctx context.Context, userID, query string) ([]*types.MessageSearchResult, error) {
	return s.conversation.SearchForUser(ctx, userID, query)
}

func (s *MessagingService) setArchived(
	ctx context.Context, conversationID, userID string, archived bool,
) (*types.Conversation, error) {
	conversation, err := s.conversation.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if !slices.Contains(conversation.ParticipantIDs, userID) {
		return nil, types.ErrForbidden
	}

	return s.conversation.SetArchiveState(ctx, conversationID, archived)
}
