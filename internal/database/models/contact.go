package models

import (
	"strings"

	"github.com/google/uuid"
)

// Contact is a tenant-owned entity. OrganizationID is immutable after
// creation; every query against contacts must be scoped to an organization.
//
// The case-insensitive uniqueness of (organization_id, email) is enforced by
// a partial functional index created in database.Initialize, since GORM tags
// cannot express lower() indexes.
type Contact struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index" validate:"required"`
	FirstName      string    `json:"first_name" gorm:"not null;size:255" validate:"required,max=255"`
	LastName       string    `json:"last_name" gorm:"not null;size:255" validate:"required,max=255"`
	Email          *string   `json:"email,omitempty" gorm:"size:255"`
	Phone          string    `json:"phone,omitempty" gorm:"size:255"`
	Address        string    `json:"address,omitempty" gorm:"type:text"`
	AvatarPath     string    `json:"avatar_path,omitempty" gorm:"size:255"` // opaque reference, content handled externally
	CreatedBy      uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy      uuid.UUID `json:"updated_by" gorm:"type:uuid;not null"`

	// Relationships
	Meta  []ContactMeta `json:"meta,omitempty" gorm:"foreignKey:ContactID"`
	Notes []ContactNote `json:"notes,omitempty" gorm:"foreignKey:ContactID"`
}

// TableName returns the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}

// FullName returns the contact's display name.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
