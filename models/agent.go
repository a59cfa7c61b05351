package models

import (
	"gorm.io/gorm"
)

// SupportAgent is a member of the support team. Agents are separate from
// platform users; they read customer data but never own leads or cadences.
type SupportAgent struct {
	gorm.Model
	Email    string `gorm:"not null;uniqueIndex" json:"email"`
	Name     string `json:"name"`
	Role     string `gorm:"default:'support'" json:"role"` // support, support_admin
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Bumped to invalidate outstanding tokens
	TokenVersion int `gorm:"default:0" json:"-"`
}

// Support agent roles
const (
	AgentRoleSupport      = "support"
	AgentRoleSupportAdmin = "support_admin"
)
