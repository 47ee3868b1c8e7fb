package types

import "time"

const (
	// ActionTypeWarn records a warning being issued.
	ActionTypeWarn = "warn"
	// ActionTypeBan records a ban being issued.
	ActionTypeBan = "ban"
	// ActionTypeUnban records a ban being revoked.
	ActionTypeUnban = "unban"
	// ActionTypeKick records a member being removed without a ban.
	ActionTypeKick = "kick"
)

// GroupWarning is an append-only disciplinary note against a user in a
// group. Warnings are never deleted; the warning count for a pair is
// the number of rows.
type GroupWarning struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	UserID    string    `json:"userId"`
	Level     int       `json:"level"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes,omitempty"`
	IssuedBy  string    `json:"issuedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupBan excludes a user from a group. A ban is active while
// IsActive is set and ExpiresAt, if present, is in the future; expiry
// is evaluated lazily and never written back. Revoking a ban clears
// IsActive but keeps the row for history.
type GroupBan struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"groupId"`
	UserID    string     `json:"userId"`
	Reason    string     `json:"reason"`
	BannedBy  string     `json:"bannedBy"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ActiveAt reports whether the ban is in force at the given instant.
func (b *GroupBan) ActiveAt(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.ExpiresAt == nil {
		return true
	}
	return b.ExpiresAt.After(now)
}

// ModerationAction is an audit log entry. The log is append-only and
// bounded at MaxModerationActionsPerGroup entries per group.
type ModerationAction struct {
	ID          string         `json:"id"`
	GroupID     string         `json:"groupId"`
	ActionType  string         `json:"actionType"`
	TargetID    string         `json:"targetId"`
	TargetType  string         `json:"targetType"`
	PerformedBy string         `json:"performedBy"`
	Reason      string         `json:"reason,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

const (
	// MaxModerationActionsPerGroup bounds the audit log per group;
	// insertion is newest-first and the oldest entries are evicted.
	MaxModerationActionsPerGroup = 1000
	// MaxActivitiesPerGroup bounds the activity feed per group.
	MaxActivitiesPerGroup = 1000
)
