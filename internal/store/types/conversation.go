package types

import "time"

const (
	// ConversationDirect is a person-to-person thread.
	ConversationDirect = "direct"
	// ConversationGroup is a multi-party thread.
	ConversationGroup = "group"
	// ConversationSupport is a thread with the support team.
	ConversationSupport = "support"
)

// Conversation is a message thread. Participants are stored sorted and
// deduplicated so that a participant set identifies at most one
// conversation. Archive state partitions listing, not searchability.
type Conversation struct {
	ID             string         `json:"id"`
	ParticipantIDs []string       `json:"participantIds"`
	Title          string         `json:"title,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Type           string         `json:"type"`
	IsArchived     bool           `json:"isArchived,omitempty"`
	Pinned         bool           `json:"pinned,omitempty"`
	Muted          bool           `json:"muted,omitempty"`
	LastMessageID  string         `json:"lastMessageId,omitempty"`
	UnreadCounts   map[string]int `json:"unreadCounts,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ConversationUpdate carries the writable fields of a conversation.
type ConversationUpdate struct {
	Title      *string  `json:"title,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	IsArchived *bool    `json:"isArchived,omitempty"`
	Pinned     *bool    `json:"pinned,omitempty"`
	Muted      *bool    `json:"muted,omitempty"`
}

const (
	// MessageStatusSent is the initial message status.
	MessageStatusSent = "sent"
	// MessageStatusDelivered marks receipt by the transport layer.
	MessageStatusDelivered = "delivered"
	// MessageStatusRead marks the message read by every recipient.
	MessageStatusRead = "read"
)

// DirectMessage is a single message inside a conversation. ReadAt maps
// each participant to the time they read the message; a nil entry
// means unread.
type DirectMessage struct {
	ID             string                `json:"id"`
	ConversationID string                `json:"conversationId"`
	SenderID       string                `json:"senderId"`
	Content        string                `json:"content"`
	Attachments    []string              `json:"attachments,omitempty"`
	ReadAt         map[string]*time.Time `json:"readAt,omitempty"`
	Status         string                `json:"status"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// MessageSearchResult is a search hit annotated with its conversation.
type MessageSearchResult struct {
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}
