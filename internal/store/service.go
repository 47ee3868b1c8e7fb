package store

import (
	"github.com/pawhub/communitystore/internal/store/service"
	"go.uber.org/zap"
)

// Service provides access to all workflow services.
type Service struct {
	permission *service.PermissionService
	membership *service.MembershipService
	moderation *service.ModerationService
	poll       *service.PollService
	messaging  *service.MessagingService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, logger *zap.Logger) *Service {
	permission := service.NewPermission(
		repository.Group(), repository.Member(), repository.Moderation(), logger)

	return &Service{
		permission: permission,
		membership: service.NewMembership(
			repository.Group(), repository.Member(),
			repository.Moderation(), repository.Activity(), logger),
		moderation: service.NewModeration(repository.Moderation(), permission, logger),
		poll:       service.NewPoll(repository.Poll(), logger),
		messaging:  service.NewMessaging(repository.Conversation(), logger),
	}
}

// Permission returns the permission service.
func (s *Service) Permission() *service.PermissionService {
	return s.permission
}

// Membership returns the membership service.
func (s *Service) Membership() *service.MembershipService {
	return s.membership
}

// Moderation returns the moderation service.
func (s *Service) Moderation() *service.ModerationService {
	return s.moderation
}

// Poll returns the poll service.
func (s *Service) Poll() *service.PollService {
	return s.poll
}

// Messaging returns the messaging service.
func (s *Service) Messaging() *service.MessagingService {
	return s.messaging
}
