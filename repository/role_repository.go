package repository

import (
	"context"

	"storefront-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository defines the store boundary for role markers and user
// profiles. Grant and Revoke are idempotent at this layer.
type RoleRepository interface {
	Grant(ctx context.Context, userID, role string) error
	Revoke(ctx context.Context, userID, role string) error
	ListUsersWithRole(ctx context.Context, role string) ([]models.UserWithRole, error)
}

// GormRoleRepository implements RoleRepository using GORM.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository.
func NewGormRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// Grant inserts the role marker; granting an existing role is a no-op
// via ON CONFLICT DO NOTHING on the unique pair index.
func (r *GormRoleRepository) Grant(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, Role: role}).Error
}

// Revoke deletes the role marker; revoking an absent role succeeds with
// zero rows affected.
func (r *GormRoleRepository) Revoke(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{}).Error
}

// ListUsersWithRole joins profiles against role markers so each user
// carries an is_admin flag.
func (r *GormRoleRepository) ListUsersWithRole(ctx context.Context, role string) ([]models.UserWithRole, error) {
	var users []models.UserWithRole
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Select("profiles.user_id, profiles.email, profiles.full_name, user_roles.id IS NOT NULL AS is_admin").
		Joins("LEFT JOIN user_roles ON user_roles.user_id = profiles.user_id AND user_roles.role = ?", role).
		Order("profiles.created_at ASC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
