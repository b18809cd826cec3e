package models

import (
	"github.com/google/uuid"
)

// MembershipRole represents the role of a user in an organization.
// The membership role is the single source of truth for authorization;
// there is no organization-independent role concept.
type MembershipRole string

const (
	MembershipRoleAdmin  MembershipRole = "Admin"
	MembershipRoleMember MembershipRole = "Member"
)

// Valid reports whether the role is one of the known membership roles.
func (r MembershipRole) Valid() bool {
	return r == MembershipRoleAdmin || r == MembershipRoleMember
}

// Membership joins a user to an organization with a role. Unique per
// (user, organization) pair.
type Membership struct {
	BaseModel
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_org" validate:"required"`
	OrganizationID uuid.UUID      `json:"organization_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_org" validate:"required"`
	Role           MembershipRole `json:"role" gorm:"type:varchar(50);not null;default:'Member'" validate:"required"`

	// Relationships
	User         *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

// TableName returns the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}
