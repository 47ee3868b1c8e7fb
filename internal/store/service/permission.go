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

// PermissionService answers capability questions about users in groups.
// Answers are advisory; repositories do not consult them, callers
// check first and then perform the operation.
type PermissionService struct {
	group      *models.GroupModel
	member     *models.MemberModel
	moderation *models.ModerationModel
	logger     *zap.Logger
}

// NewPermission creates a new permission service.
func NewPermission(
	group *models.GroupModel, member *models.MemberModel,
	moderation *models.ModerationModel, logger *zap.Logger,
) *PermissionService {
	return &PermissionService{
		group:      group,
		member:     member,
		moderation: moderation,
		logger:     logger.Named("permission_service"),
	}
}

// CanModerate reports whether a user may issue warnings, bans and
// kicks in a group. Owners, admins and moderators qualify.
func (s *PermissionService) CanModerate(ctx context.Context, groupID, userID string) (bool, error) {
	member, err := s.membership(ctx, groupID, userID)
	if err != nil || member == nil {
		return false, err
	}

	switch member.Role {
	case types.RoleOwner, types.RoleAdmin, types.RoleModerator:
		return true, nil
	default:
		return false, nil
	}
}

// CanManageMembers reports whether a user may change roles and
// permissions of other members. Owners and admins qualify.
func (s *PermissionService) CanManageMembers(ctx context.Context, groupID, userID string) (bool, error) {
	return s.canManage(ctx, groupID, userID)
}

// CanManageSettings reports whether a user may edit the group itself.
// Owners and admins qualify.
func (s *PermissionService) CanManageSettings(ctx context.Context, groupID, userID string) (bool, error) {
	return s.canManage(ctx, groupID, userID)
}

// CanPost reports whether a member may create posts in a group. The
// capability is granted unless the member's override explicitly
// revokes it.
func (s *PermissionService) CanPost(ctx context.Context, groupID, userID string) (bool, error) {
	return s.contentCapability(ctx, groupID, userID, func(p *types.MemberPermissions) *bool {
		return p.CanPost
	})
}

// CanComment reports whether a member may comment in a group.
func (s *PermissionService) CanComment(ctx context.Context, groupID, userID string) (bool, error) {
	return s.contentCapability(ctx, groupID, userID, func(p *types.MemberPermissions) *bool {
		return p.CanComment
	})
}

// CanCreateTopic reports whether a member may open topics in a group.
func (s *PermissionService) CanCreateTopic(ctx context.Context, groupID, userID string) (bool, error) {
	return s.contentCapability(ctx, groupID, userID, func(p *types.MemberPermissions) *bool {
		return p.CanCreateTopic
	})
}

// CanViewGroup reports whether a user may see a group. Open and closed
// groups are visible to everyone, including anonymous callers passing
// an empty user ID. Secret groups are visible to members only. Banned
// users cannot view the group regardless of its type.
func (s *PermissionService) CanViewGroup(ctx context.Context, groupID, userID string) (bool, error) {
	group, err := s.group.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get group: %w", err)
	}

	if userID != "" {
		banned, err := s.moderation.IsBanned(ctx, groupID, userID, time.Now())
		if err != nil {
			return false, fmt.Errorf("failed to check ban state: %w", err)
		}
		if banned {
			return false, nil
		}
	}

	if group.Type != types.GroupTypeSecret {
		return true, nil
	}

	if userID == "" {
		return false, nil
	}

	member, err := s.membership(ctx, groupID, userID)
	if err != nil {
		return false, err
	}

	return member != nil, nil
}

// canManage covers the owner and admin roles.
func (s *PermissionService) canManage(ctx context.Context, groupID, userID string) (bool, error) {
	member, err := s.membership(ctx, groupID, userID)
	if err != nil || member == nil {
		return false, err
	}

	switch member.Role {
	case types.RoleOwner, types.RoleAdmin:
		return true, nil
	default:
		return false, nil
	}
}

// contentCapability resolves a per-member content override. Membership
// is required; only an explicit false in the override revokes the
// capability.
func (s *PermissionService) contentCapability(
	ctx context.Context, groupID, userID string, field func(*types.MemberPermissions) *bool,
) (bool, error) {
	member, err := s.membership(ctx, groupID, userID)
	if err != nil || member == nil {
		return false, err
	}

	if member.Permissions == nil {
		return true, nil
	}

	override := field(member.Permissions)

	return override == nil || *override, nil
}

// membership looks up a membership row, mapping a missing row to nil
// rather than an error.
func (s *PermissionService) membership(ctx context.Context, groupID, userID string) (*types.GroupMember, error) {
	if userID == "" {
		return nil, nil
	}

	member, err := s.member.Get(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return member, nil
}
