package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawhub/communitystore/internal/store/models"
	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// MembershipService handles group lifecycle and join/leave workflows.
type MembershipService struct {
	group      *models.GroupModel
	member     *models.MemberModel
	moderation *models.ModerationModel
	activity   *models.ActivityModel
	logger     *zap.Logger
}

// NewMembership creates a new membership service.
func NewMembership(
	group *models.GroupModel, member *models.MemberModel,
	moderation *models.ModerationModel, activity *models.ActivityModel, logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		group:      group,
		member:     member,
		moderation: moderation,
		activity:   activity,
		logger:     logger.Named("membership_service"),
	}
}

// CreateGroup creates a group and enrolls the creator as its owner.
// The slug is derived from the name unless one is supplied.
func (s *MembershipService) CreateGroup(
	ctx context.Context, creatorID, name, description, categoryID, groupType, slug string, tags []string,
) (*types.Group, error) {
	now := time.Now()

	if slug == "" {
		slug = types.Slugify(name)
	}

	if _, err := s.group.GetBySlug(ctx, slug); err == nil {
		return nil, types.ErrConflict
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	group := &types.Group{
		ID:          types.NewID("grp"),
		Slug:        slug,
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
		Type:        groupType,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.group.Add(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to add group: %w", err)
	}

	owner := &types.GroupMember{
		ID:       types.NewID("mem"),
		GroupID:  group.ID,
		UserID:   creatorID,
		Role:     types.RoleOwner,
		JoinedAt: now,
	}

	if err := s.member.Add(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to enroll owner: %w", err)
	}

	s.recordActivity(ctx, group.ID, creatorID, "group_created", group.Name)

	// Reload so the caller sees the owner reflected in the counter.
	created, err := s.group.GetByID(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload group: %w", err)
	}

	return created, nil
}

// JoinGroup enrolls a user as a regular member. Banned users are
// rejected with ErrForbidden; joining twice yields ErrConflict.
func (s *MembershipService) JoinGroup(ctx context.Context, groupID, userID string) (*types.GroupMember, error) {
	if _, err := s.group.GetByID(ctx, groupID); err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	banned, err := s.moderation.IsBanned(ctx, groupID, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check ban state: %w", err)
	}
	if banned {
		return nil, types.ErrForbidden
	}

	member := &types.GroupMember{
		ID:       types.NewID("mem"),
		GroupID:  groupID,
		UserID:   userID,
		Role:     types.RoleMember,
		JoinedAt: time.Now(),
	}

	if err := s.member.Add(ctx, member); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, groupID, userID, "member_joined", "")

	return member, nil
}

// LeaveGroup removes a user's membership. The owner cannot leave; the
// group would be orphaned.
func (s *MembershipService) LeaveGroup(ctx context.Context, groupID, userID string) error {
	member, err := s.member.Get(ctx, groupID, userID)
	if err != nil {
		return err
	}

	if member.Role == types.RoleOwner {
		return types.ErrInvalidState
	}

	if err := s.member.Remove(ctx, groupID, userID); err != nil {
		return err
	}

	s.recordActivity(ctx, groupID, userID, "member_left", "")

	return nil
}

// recordActivity appends a feed entry. Feed failures are logged and
// swallowed; the primary mutation already succeeded.
func (s *MembershipService) recordActivity(ctx context.Context, groupID, actorID, kind, message string) {
	entry := &types.GroupActivity{
		ID:        types.NewID("act"),
		GroupID:   groupID,
		ActorID:   actorID,
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
	}

	if err := s.activity.Add(ctx, entry); err != nil {
		s.logger.Warn("Failed to record activity",
			zap.String("groupID", groupID),
			zap.String("kind", kind),
			zap.Error(err))
	}
}
