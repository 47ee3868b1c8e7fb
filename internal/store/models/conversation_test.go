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

func newConversation(id string, participants ...string) *types.Conversation {
	now := time.Now()

	return &types.Conversation{
		ID:             id,
		ParticipantIDs: participants,
		Type:           types.ConversationDirect,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newMessage(id, conversationID, senderID, content string) *types.DirectMessage {
	return &types.DirectMessage{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Status:         types.MessageStatusSent,
		CreatedAt:      time.Now(),
	}
}

func TestConversationDedupesByParticipantSet(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	conversationModel := models.NewConversation(db, zap.NewNop())
	ctx := t.Context()

	first, err := conversationModel.Add(ctx, newConversation("conv_1", "usr_b", "usr_a"))
	require.NoError(t, err)
	assert.Equal(t, "conv_1", first.ID)
	assert.Equal(t, []string{"usr_a", "usr_b"}, first.ParticipantIDs)

	// Same pair in a different order resolves to the existing thread.
	second, err := conversationModel.Add(ctx, newConversation("conv_2", "usr_a", "usr_b", "usr_a"))
	require.NoError(t, err)
	assert.Equal(t, "conv_1", second.ID)

	found, err := conversationModel.ByParticipants(ctx, []string{"usr_b", "usr_a"})
	require.NoError(t, err)
	assert.Equal(t, "conv_1", found.ID)
}

func TestAddMessageBumpsUnreadCounts(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	conversationModel := models.NewConversation(db, zap.NewNop())
	ctx := t.Context()

	_, err := conversationModel.Add(ctx, newConversation("conv_1", "usr_a", "usr_b", "usr_c"))
	require.NoError(t, err)

	require.NoError(t, conversationModel.AddMessage(ctx, newMessage("msg_1", "conv_1", "usr_a", "hello")))
	require.NoError(t, conversationModel.AddMessage(ctx, newMessage("msg_2", "conv_1", "usr_a", "anyone?")))

	conversation, err := conversationModel.GetByID(ctx, "conv_1")
	require.NoError(t, err)
	assert.Equal(t, "msg_2", conversation.LastMessageID)
	assert.Equal(t, 0, conversation.UnreadCounts["usr_a"])
	assert.Equal(t, 2, conversation.UnreadCounts["usr_b"])
	assert.Equal(t, 2, conversation.UnreadCounts["usr_c"])

	err = conversationModel.AddMessage(ctx, newMessage("msg_3", "conv_missing", "usr_a", "lost"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMarkReadClearsUnreadAndStampsMessages(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	conversationModel := models.NewConversation(db, zap.NewNop())
	ctx := t.Context()

	_, err := conversationModel.Add(ctx, newConversation("conv_1", "usr_a", "usr_b"))
	require.NoError(t, err)

	require.NoError(t, conversationModel.AddMessage(ctx, newMessage("msg_1", "conv_1", "usr_a", "hello")))

	require.NoError(t, conversationModel.MarkRead(ctx, "conv_1", "usr_b", time.Now()))

	conversation, err := conversationModel.GetByID(ctx, "conv_1")
	require.NoError(t, err)
	assert.Equal(t, 0, conversation.UnreadCounts["usr_b"])

	messages, err := conversationModel.MessagesByConversation(ctx, "conv_1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.NotNil(t, messages[0].ReadAt["usr_b"])

	// usr_b was the only recipient, so the message is fully read.
	assert.Equal(t, types.MessageStatusRead, messages[0].Status)
}

func TestArchivePartitionsListing(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	conversationModel := models.NewConversation(db, zap.NewNop())
	ctx := t.Context()

	_, err := conversationModel.Add(ctx, newConversation("conv_1", "usr_a", "usr_b"))
	require.NoError(t, err)
	_, err = conversationModel.Add(ctx, newConversation("conv_2", "usr_a", "usr_c"))
	require.NoError(t, err)

	_, err = conversationModel.SetArchiveState(ctx, "conv_1", true)
	require.NoError(t, err)

	active, err := conversationModel.ForUser(ctx, "usr_a", false, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "conv_2", active[0].ID)

	archived, err := conversationModel.ForUser(ctx, "usr_a", true, true)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "conv_1", archived[0].ID)

	all, err := conversationModel.ForUser(ctx, "usr_a", true, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Unarchiving brings the thread back to the active listing.
	_, err = conversationModel.SetArchiveState(ctx, "conv_1", false)
	require.NoError(t, err)

	active, err = conversationModel.ForUser(ctx, "usr_a", false, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestForUserOrdersByLatestActivity(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	conversationModel := models.NewConversation(db, zap.NewNop())
	ctx := t.Context()

	_, err := conversationModel.Add(ctx, newConversation("conv_1", "usr_a", "usr_b"))
	require.NoError(t, err)
	_, err = conversationModel.Add(ctx, newConversation("conv_2", "usr_a", "usr_c"))
	require.NoError(t, err)

	listed, err := conversationModel.ForUser(ctx, "usr_a", false, false)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "conv_2", listed[0].ID)

	// A new message bumps its conversation to the top.
	require.NoError(t, conversationModel.AddMessage(ctx, newMessage("msg_1", "conv_1", "usr_b", "hello")))

	listed, err = conversationModel.ForUser(ctx, "usr_a", false, false)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "conv_1", listed[0].ID)
}

func TestSearchSpansArchiveStates(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	conversationModel := models.NewConversation(db, zap.NewNop())
	ctx := t.Context()

	_, err := conversationModel.Add(ctx, newConversation("conv_1", "usr_a", "usr_b"))
	require.NoError(t, err)
	_, err = conversationModel.Add(ctx, newConversation("conv_2", "usr_a", "usr_c"))
	require.NoError(t, err)
	_, err = conversationModel.Add(ctx, newConversation("conv_3", "usr_b", "usr_c"))
	require.NoError(t, err)

	require.NoError(t, conversationModel.AddMessage(ctx, newMessage("msg_1", "conv_1", "usr_b", "vet appointment tomorrow")))
	require.NoError(t, conversationModel.AddMessage(ctx, newMessage("msg_2", "conv_2", "usr_c", "which vet do you use?")))
	require.NoError(t, conversationModel.AddMessage(ctx, newMessage("msg_3", "conv_3", "usr_b", "vet bills again")))

	_, err = conversationModel.SetArchiveState(ctx, "conv_1", true)
	require.NoError(t, err)

	// Hits come from both the archived and the active thread, but never
	// from threads the user is not part of.
	results, err := conversationModel.SearchForUser(ctx, "usr_a", "VET")
	require.NoError(t, err)
	require.Len(t, results, 2)

	conversationIDs := []string{results[0].ConversationID, results[1].ConversationID}
	assert.Contains(t, conversationIDs, "conv_1")
	assert.Contains(t, conversationIDs, "conv_2")

	results, err = conversationModel.SearchForUser(ctx, "usr_a", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}
