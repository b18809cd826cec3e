package models

import (
	"github.com/google/uuid"
)

// ContactNote is an append-only note on a contact, stamped with its author.
type ContactNote struct {
	BaseModel
	ContactID uuid.UUID `json:"contact_id" gorm:"type:uuid;not null;index" validate:"required"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null" validate:"required"`
	Body      string    `json:"body" gorm:"type:text;not null" validate:"required,max=2000"`

	// Relationships
	Author *User `json:"author,omitempty" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for ContactNote
func (ContactNote) TableName() string {
	return "contact_notes"
}
