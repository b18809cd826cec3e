package models

import (
	"github.com/google/uuid"
)

// MaxMetaPerContact caps the number of custom attributes a contact can carry.
const MaxMetaPerContact = 5

// ContactMeta is a custom key/value attribute attached to a contact. Keys are
// unique per contact and the set is replaced wholesale on every contact write.
type ContactMeta struct {
	BaseModel
	ContactID uuid.UUID `json:"contact_id" gorm:"type:uuid;not null;uniqueIndex:idx_contact_meta_contact_key" validate:"required"`
	Key       string    `json:"key" gorm:"not null;size:255;uniqueIndex:idx_contact_meta_contact_key" validate:"required,max=255"`
	Value     string    `json:"value" gorm:"type:text;not null" validate:"required,max=1000"`
}

// TableName returns the table name for ContactMeta
func (ContactMeta) TableName() string {
	return "contact_meta"
}
