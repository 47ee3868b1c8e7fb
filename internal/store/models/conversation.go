package models

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// ConversationModel handles storage operations for conversations and
// their messages. Participant sets are stored sorted and deduplicated
// so a set identifies at most one conversation.
type ConversationModel struct {
	db     *DB
	logger *zap.Logger
}

// NewConversation creates a new ConversationModel instance.
func NewConversation(db *DB, logger *zap.Logger) *ConversationModel {
	return &ConversationModel{
		db:     db,
		logger: logger.Named("store_conversation"),
	}
}

// List returns every conversation.
func (m *ConversationModel) List(ctx context.Context) ([]*types.Conversation, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	return load[*types.Conversation](ctx, m.db, conversationsKey)
}

// GetByID returns the conversation with the given ID.
func (m *ConversationModel) GetByID(ctx context.Context, id string) (*types.Conversation, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return nil, err
	}

	for _, conversation := range conversations {
		if conversation.ID == id {
			return conversation, nil
		}
	}

	return nil, types.ErrNotFound
}

// ByParticipants returns the conversation with exactly the given
// participant set, ignoring order and duplicates in the input.
func (m *ConversationModel) ByParticipants(ctx context.Context, participantIDs []string) (*types.Conversation, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return nil, err
	}

	wanted := normalizeParticipants(participantIDs)

	for _, conversation := range conversations {
		if slices.Equal(conversation.ParticipantIDs, wanted) {
			return conversation, nil
		}
	}

	return nil, types.ErrNotFound
}

// ForUser returns a user's conversations, most recently updated first.
// Archived threads are excluded unless includeArchived is set;
// archivedOnly restricts the listing to archived threads.
func (m *ConversationModel) ForUser(ctx context.Context, userID string, includeArchived, archivedOnly bool) ([]*types.Conversation, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.Conversation

	for _, conversation := range conversations {
		if !slices.Contains(conversation.ParticipantIDs, userID) {
			continue
		}

		switch {
		case archivedOnly:
			if !conversation.IsArchived {
				continue
			}
		case !includeArchived:
			if conversation.IsArchived {
				continue
			}
		}

		matched = append(matched, conversation)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	return matched, nil
}

// Add inserts a conversation after normalizing its participant set. A
// conversation with the same participant set already present is
// returned instead of creating a duplicate thread.
func (m *ConversationModel) Add(ctx context.Context, conversation *types.Conversation) (*types.Conversation, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return nil, err
	}

	conversation.ParticipantIDs = normalizeParticipants(conversation.ParticipantIDs)

	for _, existing := range conversations {
		if existing.ID == conversation.ID {
			return nil, types.ErrConflict
		}
		if slices.Equal(existing.ParticipantIDs, conversation.ParticipantIDs) {
			return existing, nil
		}
	}

	if err := save(ctx, m.db, conversationsKey, append(conversations, conversation)); err != nil {
		return nil, err
	}

	m.db.invalidate()
	m.logger.Debug("Created conversation",
		zap.String("conversationID", conversation.ID),
		zap.Int("participants", len(conversation.ParticipantIDs)))

	return conversation, nil
}

// Update applies a partial update and stamps UpdatedAt.
func (m *ConversationModel) Update(ctx context.Context, id string, update types.ConversationUpdate) (*types.Conversation, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return nil, err
	}

	for _, conversation := range conversations {
		if conversation.ID != id {
			continue
		}

		if update.Title != nil {
			conversation.Title = *update.Title
		}
		if update.Tags != nil {
			conversation.Tags = update.Tags
		}
		if update.IsArchived != nil {
			conversation.IsArchived = *update.IsArchived
		}
		if update.Pinned != nil {
			conversation.Pinned = *update.Pinned
		}
		if update.Muted != nil {
			conversation.Muted = *update.Muted
		}
		conversation.UpdatedAt = time.Now()

		if err := save(ctx, m.db, conversationsKey, conversations); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return conversation, nil
	}

	return nil, types.ErrNotFound
}

// SetArchiveState flips a conversation's archive flag. Archiving
// changes which listing the thread appears in; messages stay in place
// and remain searchable.
func (m *ConversationModel) SetArchiveState(ctx context.Context, id string, archived bool) (*types.Conversation, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return nil, err
	}

	for _, conversation := range conversations {
		if conversation.ID != id {
			continue
		}

		conversation.IsArchived = archived
		conversation.UpdatedAt = time.Now()

		if err := save(ctx, m.db, conversationsKey, conversations); err != nil {
			return nil, err
		}

		m.db.invalidate()

		return conversation, nil
	}

	return nil, types.ErrNotFound
}

// Remove deletes a conversation together with its messages.
func (m *ConversationModel) Remove(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return err
	}

	remaining := conversations[:0]
	for _, conversation := range conversations {
		if conversation.ID != id {
			remaining = append(remaining, conversation)
		}
	}

	if len(remaining) == len(conversations) {
		return types.ErrNotFound
	}

	if err := save(ctx, m.db, conversationsKey, remaining); err != nil {
		return err
	}

	messages, err := load[*types.DirectMessage](ctx, m.db, directMessagesKey)
	if err != nil {
		return err
	}

	kept := messages[:0]
	for _, message := range messages {
		if message.ConversationID != id {
			kept = append(kept, message)
		}
	}

	if err := save(ctx, m.db, directMessagesKey, kept); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// MessagesByConversation returns a conversation's messages, oldest
// first.
func (m *ConversationModel) MessagesByConversation(ctx context.Context, conversationID string) ([]*types.DirectMessage, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	messages, err := load[*types.DirectMessage](ctx, m.db, directMessagesKey)
	if err != nil {
		return nil, err
	}

	var matched []*types.DirectMessage
	for _, message := range messages {
		if message.ConversationID == conversationID {
			matched = append(matched, message)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return matched, nil
}

// AddMessage stores a message and updates its conversation's last
// message pointer and per-recipient unread counts as one unit. The
// sender's own unread count is untouched.
func (m *ConversationModel) AddMessage(ctx context.Context, message *types.DirectMessage) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return err
	}

	var conversation *types.Conversation

	for _, candidate := range conversations {
		if candidate.ID == message.ConversationID {
			conversation = candidate
			break
		}
	}

	if conversation == nil {
		return types.ErrNotFound
	}

	messages, err := load[*types.DirectMessage](ctx, m.db, directMessagesKey)
	if err != nil {
		return err
	}

	for _, existing := range messages {
		if existing.ID == message.ID {
			return types.ErrConflict
		}
	}

	if err := save(ctx, m.db, directMessagesKey, append(messages, message)); err != nil {
		return err
	}

	if conversation.UnreadCounts == nil {
		conversation.UnreadCounts = make(map[string]int, len(conversation.ParticipantIDs))
	}

	for _, participantID := range conversation.ParticipantIDs {
		if participantID != message.SenderID {
			conversation.UnreadCounts[participantID]++
		}
	}

	conversation.LastMessageID = message.ID
	conversation.UpdatedAt = time.Now()

	if err := save(ctx, m.db, conversationsKey, conversations); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// MarkRead stamps every unread message in a conversation as read by the
// user and zeroes the user's unread count as one unit. A message moves
// to status read once every participant other than its sender has read
// it.
func (m *ConversationModel) MarkRead(ctx context.Context, conversationID, userID string, now time.Time) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return err
	}

	var conversation *types.Conversation

	for _, candidate := range conversations {
		if candidate.ID == conversationID {
			conversation = candidate
			break
		}
	}

	if conversation == nil {
		return types.ErrNotFound
	}

	messages, err := load[*types.DirectMessage](ctx, m.db, directMessagesKey)
	if err != nil {
		return err
	}

	for _, message := range messages {
		if message.ConversationID != conversationID || message.SenderID == userID {
			continue
		}

		if message.ReadAt == nil {
			message.ReadAt = make(map[string]*time.Time)
		}
		if message.ReadAt[userID] == nil {
			readAt := now
			message.ReadAt[userID] = &readAt
		}

		allRead := true

		for _, participantID := range conversation.ParticipantIDs {
			if participantID == message.SenderID {
				continue
			}
			if message.ReadAt[participantID] == nil {
				allRead = false
				break
			}
		}

		if allRead {
			message.Status = types.MessageStatusRead
		}
	}

	if err := save(ctx, m.db, directMessagesKey, messages); err != nil {
		return err
	}

	if conversation.UnreadCounts != nil {
		conversation.UnreadCounts[userID] = 0
	}

	if err := save(ctx, m.db, conversationsKey, conversations); err != nil {
		return err
	}

	m.db.invalidate()

	return nil
}

// SearchForUser returns message hits across every conversation the user
// participates in, matching the query against message content
// case-insensitively. Archived conversations are searched the same as
// active ones. Hits come back newest first.
func (m *ConversationModel) SearchForUser(ctx context.Context, userID, query string) ([]*types.MessageSearchResult, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, nil
	}

	conversations, err := load[*types.Conversation](ctx, m.db, conversationsKey)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]struct{})

	for _, conversation := range conversations {
		if slices.Contains(conversation.ParticipantIDs, userID) {
			visible[conversation.ID] = struct{}{}
		}
	}

	messages, err := load[*types.DirectMessage](ctx, m.db, directMessagesKey)
	if err != nil {
		return nil, err
	}

	var results []*types.MessageSearchResult

	for _, message := range messages {
		if _, ok := visible[message.ConversationID]; !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(message.Content), normalized) {
			continue
		}

		results = append(results, &types.MessageSearchResult{
			ConversationID: message.ConversationID,
			MessageID:      message.ID,
			SenderID:       message.SenderID,
			Content:        message.Content,
			CreatedAt:      message.CreatedAt,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

// normalizeParticipants sorts a participant set and drops duplicates.
func normalizeParticipants(participantIDs []string) []string {
	normalized := slices.Clone(participantIDs)
	slices.Sort(normalized)

	return slices.Compact(normalized)
}
