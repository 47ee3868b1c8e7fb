package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pawhub/communitystore/internal/store/models"
	"github.com/pawhub/communitystore/internal/store/types"
	"go.uber.org/zap"
)

// ModerationService handles the disciplinary workflow. Every operation
// checks the actor's capability first and yields ErrForbidden when the
// actor may not moderate the group.
type ModerationService struct {
	moderation *models.ModerationModel
	permission *PermissionService
	logger     *zap.Logger
}

// NewModeration creates a new moderation service.
func NewModeration(
	moderation *models.ModerationModel, permission *PermissionService, logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		moderation: moderation,
		permission: permission,
		logger:     logger.Named("moderation_service"),
	}
}

// Warn issues a warning against a user and records the audit entry.
func (s *ModerationService) Warn(
	ctx context.Context, groupID, actorID, targetID string, level int, reason, notes string,
) (*types.GroupWarning, error) {
	if err := s.requireModerator(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	now := time.Now()
	warning := &types.GroupWarning{
		ID:        types.NewID("warn"),
		GroupID:   groupID,
		UserID:    targetID,
		Level:     level,
		Reason:    reason,
		Notes:     notes,
		IssuedBy:  actorID,
		CreatedAt: now,
	}

	action := s.action(groupID, actorID, targetID, types.ActionTypeWarn, reason, now)

	if err := s.moderation.AddWarning(ctx, warning, action); err != nil {
		return nil, fmt.Errorf("failed to add warning: %w", err)
	}

	return warning, nil
}

// Ban excludes a user from a group. The ban row, the audit entry and
// the membership removal land together; banning an already banned user
// replaces the existing ban.
func (s *ModerationService) Ban(
	ctx context.Context, groupID, actorID, targetID, reason string, expiresAt *time.Time,
) (*types.GroupBan, error) {
	if err := s.requireModerator(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	now := time.Now()
	ban := &types.GroupBan{
		ID:        types.NewID("ban"),
		GroupID:   groupID,
		UserID:    targetID,
		Reason:    reason,
		BannedBy:  actorID,
		ExpiresAt: expiresAt,
		IsActive:  true,
		CreatedAt: now,
	}

	action := s.action(groupID, actorID, targetID, types.ActionTypeBan, reason, now)

	if err := s.moderation.Ban(ctx, ban, action); err != nil {
		return nil, fmt.Errorf("failed to ban user: %w", err)
	}

	return ban, nil
}

// Unban revokes a user's active ban. The ban row stays for history and
// membership is not restored; the user may rejoin.
func (s *ModerationService) Unban(ctx context.Context, groupID, actorID, targetID, reason string) error {
	if err := s.requireModerator(ctx, groupID, actorID); err != nil {
		return err
	}

	action := s.action(groupID, actorID, targetID, types.ActionTypeUnban, reason, time.Now())

	return s.moderation.Unban(ctx, groupID, targetID, action)
}

// Kick removes a member without banning them. The user may rejoin
// immediately.
func (s *ModerationService) Kick(ctx context.Context, groupID, actorID, targetID, reason string) error {
	if err := s.requireModerator(ctx, groupID, actorID); err != nil {
		return err
	}

	action := s.action(groupID, actorID, targetID, types.ActionTypeKick, reason, time.Now())

	return s.moderation.Kick(ctx, groupID, targetID, action)
}

// WarningCount returns the number of warnings against a user in a
// group.
func (s *ModerationService) WarningCount(ctx context.Context, groupID, userID string) (int, error) {
	return s.moderation.WarningCount(ctx, groupID, userID)
}

// AuditLog returns a group's moderation history, newest first. Only
// moderators may read it.
func (s *ModerationService) AuditLog(ctx context.Context, groupID, actorID string) ([]*types.ModerationAction, error) {
	if err := s.requireModerator(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	return s.moderation.ActionsByGroup(ctx, groupID)
}

// requireModerator maps a missing moderation capability to
// ErrForbidden.
func (s *ModerationService) requireModerator(ctx context.Context, groupID, actorID string) error {
	allowed, err := s.permission.CanModerate(ctx, groupID, actorID)
	if err != nil {
		return fmt.Errorf("failed to check moderation capability: %w", err)
	}
	if !allowed {
		return types.ErrForbidden
	}

	return nil
}

// action builds an audit entry for a moderation operation.
func (s *ModerationService) action(
	groupID, actorID, targetID, actionType, reason string, now time.Time,
) *types.ModerationAction {
	return &types.ModerationAction{
		ID:          types.NewID("mod"),
		GroupID:     groupID,
		ActionType:  actionType,
		TargetID:    targetID,
		TargetType:  "user",
		PerformedBy: actorID,
		Reason:      reason,
		Timestamp:   now,
	}
}
