package models

import "time"

// RoleAdmin is the role tag that grants catalog mutation and
// wholesale-price visibility.
const RoleAdmin = "admin"

// UserRole marks a user as carrying a role. Rows are presence markers;
// granting twice is a no-op via the unique pair index.
type UserRole struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role      string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_user_role" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Profile holds the contact information the auth collaborator maintains
// for a user. The admin user listing joins it against role markers; the
// notification collaborator resolves contact details on its own side.
type Profile struct {
	UserID      string    `gorm:"type:varchar(128);primaryKey" json:"user_id"`
	Email       string    `gorm:"type:varchar(256)" json:"email"`
	FullName    string    `gorm:"type:varchar(256)" json:"full_name"`
	PhoneNumber string    `gorm:"type:varchar(32)" json:"phone_number"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserWithRole is one row of the admin user listing.
type UserWithRole struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}
