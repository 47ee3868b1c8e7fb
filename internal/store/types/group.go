package types

import "time"

const (
	// GroupTypeOpen groups are visible and joinable by anyone.
	GroupTypeOpen = "open"
	// GroupTypeClosed groups are visible to anyone but membership is
	// controlled by the group's managers.
	GroupTypeClosed = "closed"
	// GroupTypeSecret groups are visible to members only.
	GroupTypeSecret = "secret"
)

const (
	// RoleOwner is the group creator role. Grants every capability.
	RoleOwner = "owner"
	// RoleAdmin grants moderation and member/settings management.
	RoleAdmin = "admin"
	// RoleModerator grants moderation only.
	RoleModerator = "moderator"
	// RoleMember is the default role with no elevated capabilities.
	RoleMember = "member"
)

// Group is a community space owning topics, polls, events and resources.
// MemberCount and TopicCount are derived from the member and topic
// collections; they are maintained by the repositories and have no
// counterpart in GroupUpdate.
type Group struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	Type        string    `json:"type"`
	MemberCount int       `json:"memberCount"`
	TopicCount  int       `json:"topicCount"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupUpdate carries the writable fields of a group. Derived counters
// are deliberately absent.
type GroupUpdate struct {
	Slug        *string  `json:"slug,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *string  `json:"categoryId,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// MemberPermissions holds per-member overrides for content capabilities.
// A nil field means the capability is granted; only an explicit false
// revokes it. Moderation and management capabilities come from the role
// alone and are not overridable here.
type MemberPermissions struct {
	CanPost        *bool `json:"canPost,omitempty"`
	CanComment     *bool `json:"canComment,omitempty"`
	CanCreateTopic *bool `json:"canCreateTopic,omitempty"`
}

// GroupMember links a user to a group. Unique per (GroupID, UserID).
type GroupMember struct {
	ID          string             `json:"id"`
	GroupID     string             `json:"groupId"`
	UserID      string             `json:"userId"`
	Role        string             `json:"role"`
	Permissions *MemberPermissions `json:"permissions,omitempty"`
	JoinedAt    time.Time          `json:"joinedAt"`
}

// GroupMemberUpdate carries the writable fields of a membership row.
type GroupMemberUpdate struct {
	Role        *string            `json:"role,omitempty"`
	Permissions *MemberPermissions `json:"permissions,omitempty"`
}

// GroupTopic is a discussion thread inside a group. One level of
// threading is supported through ParentTopicID.
type GroupTopic struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"groupId"`
	ParentTopicID string    `json:"parentTopicId,omitempty"`
	AuthorID      string    `json:"authorId"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GroupTopicUpdate carries the writable fields of a topic.
type GroupTopicUpdate struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// PollOption is a single choice inside a poll. VoteCount is derived
// from the vote collection and recomputed on every vote change.
type PollOption struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	VoteCount int    `json:"voteCount"`
}

// GroupPoll is a question with one or more options. VoteCount is the
// number of distinct voters, not the sum of option tallies; a
// multi-select vote contributes to several options but counts once.
type GroupPoll struct {
	ID        string       `json:"id"`
	GroupID   string       `json:"groupId"`
	TopicID   string       `json:"topicId,omitempty"`
	Question  string       `json:"question"`
	Options   []PollOption `json:"options"`
	VoteCount int          `json:"voteCount"`
	ClosesAt  *time.Time   `json:"closesAt,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// GroupPollUpdate carries the writable fields of a poll. Tallies are
// recomputed after every update and are not writable here.
type GroupPollUpdate struct {
	Question *string    `json:"question,omitempty"`
	ClosesAt *time.Time `json:"closesAt,omitempty"`
}

// Closed reports whether the poll no longer accepts votes.
func (p *GroupPoll) Closed(now time.Time) bool {
	return p.ClosesAt != nil && !p.ClosesAt.After(now)
}

// PollVote is a user's current selection on a poll. Unique per
// (PollID, UserID); casting again replaces the previous vote.
type PollVote struct {
	PollID    string    `json:"pollId"`
	UserID    string    `json:"userId"`
	OptionIDs []string  `json:"optionIds"`
	CastAt    time.Time `json:"castAt"`
}

const (
	// RSVPGoing counts toward the event's attendee tally.
	RSVPGoing = "going"
	// RSVPMaybe is a tentative response.
	RSVPMaybe = "maybe"
	// RSVPNotGoing is a declined response.
	RSVPNotGoing = "not_going"
)

// GroupEvent is a scheduled gathering. AttendeeCount is derived from
// RSVPs with status going.
type GroupEvent struct {
	ID            string     `json:"id"`
	GroupID       string     `json:"groupId"`
	AuthorID      string     `json:"authorId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Location      string     `json:"location,omitempty"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	AttendeeCount int        `json:"attendeeCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// GroupEventUpdate carries the writable fields of an event.
type GroupEventUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// EventRSVP is a user's response to an event. Unique per
// (EventID, UserID); responding again replaces the previous response.
type EventRSVP struct {
	EventID     string    `json:"eventId"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	RespondedAt time.Time `json:"respondedAt"`
}

// GroupResource is a shared link or note. No derived aggregates.
type GroupResource struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	CreatedBy string    `json:"createdBy"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	Body      string    `json:"body,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GroupResourceUpdate carries the writable fields of a resource.
type GroupResourceUpdate struct {
	Title *string  `json:"title,omitempty"`
	URL   *string  `json:"url,omitempty"`
	Body  *string  `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// GroupActivity is an entry in a group's append-only activity feed,
// bounded per group by the activity repository.
type GroupActivity struct {
	ID        string         `json:"id"`
	GroupID   string         `json:"groupId"`
	ActorID   string         `json:"actorId,omitempty"`
	Kind      string         `json:"kind"`
	Message   string         `json:"message,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
