package models

// User represents an authenticated principal. Credential verification happens
// in the external identity provider; the hash is stored opaque and never
// serialized.
type User struct {
	BaseModel
	Name         string `json:"name" gorm:"not null;size:255" validate:"required,max=255"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	PasswordHash string `json:"-" gorm:"size:255"`

	// Relationships
	Memberships []Membership `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
