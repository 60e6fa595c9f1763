package domain

import (
	"context"
	"strings"
	"time"
)

// User is a login-capable account. The agent link is fixed at registration
// time and carries the premium entitlement; HashedPassword holds the
// "salt$hexdigest" form produced by pkg/utils.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:191;not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	HashedPassword string    `gorm:"size:191;not null" json:"-"`
	Phone          *string   `gorm:"size:32" json:"phone"`
	Company        *string   `gorm:"size:191" json:"company"`
	AgentID        *uint     `gorm:"index" json:"agent_id"`
	IsActive       bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

// UserRepository is the storage contract for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeEmail lowercases and trims an email address. Every lookup and
// write of agent or user emails goes through this.
func NormalizeEmail(email string) string { return normalizeEmail(email) }
