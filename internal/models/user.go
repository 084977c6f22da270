package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree      = "free"
	PlanPro       = "pro"
	PlanOrganizer = "organizer"

	UserTypeUser  = "user"
	UserTypeAdmin = "admin"

	AdminRoleSuper   = "super_admin"
	AdminRoleEvent   = "event_admin"
	AdminRoleSupport = "support_admin"
)

// User is an account synced from the identity provider. There is no local
// password; ClerkID is the stable external identifier carried in the token.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClerkID      string         `gorm:"unique;not null" json:"clerk_id"`
	Email        string         `gorm:"not null" json:"email"`
	FullName     string         `json:"full_name"`
	Provider     string         `json:"provider"`
	Bio          string         `json:"bio"`
	ProfileImage string         `json:"profile_image"`
	Plan         string         `gorm:"not null;default:'free'" json:"plan"`
	Language     string         `json:"language"`
	UserType     string         `gorm:"not null;default:'user'" json:"user_type"`
	AdminRole    *string        `json:"admin_role,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

func (user *User) IsAdmin() bool {
	return user.UserType == UserTypeAdmin
}

func (user *User) HasAdminRole(roles ...string) bool {
	if !user.IsAdmin() || user.AdminRole == nil {
		return false
	}
	for _, role := range roles {
		if *user.AdminRole == role {
			return true
		}
	}
	return false
}
