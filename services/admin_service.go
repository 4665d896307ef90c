package services

import (
	"context"

	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
)

// AdminService manages the admin role marker. Grant and revoke are
// idempotent; revoking a non-admin or granting an existing admin is a
// success, not an error.
type AdminService interface {
	ListUsersWithRoles(ctx context.Context) ([]models.UserWithRole, *ServiceError)
	GrantAdmin(ctx context.Context, userID string) *ServiceError
	// RevokeAdmin refuses self-demotion: the acting admin cannot revoke
	// their own role. The store does not enforce this; it is a policy
	// invariant of this layer.
	RevokeAdmin(ctx context.Context, actingUserID, targetUserID string) *ServiceError
}

type adminServiceImpl struct {
	roles  repository.RoleRepository
	logger *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(roles repository.RoleRepository, logger *zap.Logger) AdminService {
	return &adminServiceImpl{roles: roles, logger: logger}
}

func (s *adminServiceImpl) ListUsersWithRoles(ctx context.Context) ([]models.UserWithRole, *ServiceError) {
	users, err := s.roles.ListUsersWithRole(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Error("Failed to list users with roles", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list users"}
	}
	return users, nil
}

func (s *adminServiceImpl) GrantAdmin(ctx context.Context, userID string) *ServiceError {
	if userID == "" {
		return &ServiceError{StatusCode: 400, Message: "User ID is required"}
	}

	if err := s.roles.Grant(ctx, userID, models.RoleAdmin); err != nil {
		s.logger.Error("Failed to grant admin role", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to grant admin role"}
	}

	s.logger.Info("Admin role granted", zap.String("user_id", userID))
	return nil
}

func (s *adminServiceImpl) RevokeAdmin(ctx context.Context, actingUserID, targetUserID string) *ServiceError {
	if targetUserID == "" {
		return &ServiceError{StatusCode: 400, Message: "User ID is required"}
	}
	if actingUserID == targetUserID {
		return &ServiceError{StatusCode: 403, Message: "You cannot revoke your own admin role"}
	}

	if err := s.roles.Revoke(ctx, targetUserID, models.RoleAdmin); err != nil {
		s.logger.Error("Failed to revoke admin role", zap.String("user_id", targetUserID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to revoke admin role"}
	}

	s.logger.Info("Admin role revoked",
		zap.String("user_id", targetUserID),
		zap.String("by", actingUserID),
	)
	return nil
}
