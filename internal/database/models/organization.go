package models

import (
	"github.com/google/uuid"
)

// Organization represents the root entity for multi-tenancy. Every contact
// belongs to exactly one organization and is never re-parented.
type Organization struct {
	BaseModel
	Name        string    `json:"name" gorm:"not null;size:255" validate:"required,min=1,max=255"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	OwnerUserID uuid.UUID `json:"owner_user_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Owner       *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerUserID"`
	Memberships []Membership `json:"memberships,omitempty" gorm:"foreignKey:OrganizationID"`
	Contacts    []Contact    `json:"contacts,omitempty" gorm:"foreignKey:OrganizationID"`
}

// TableName returns the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}
