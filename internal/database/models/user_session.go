package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession holds the per-user active-organization selection. It is the
// persistent backing of the session carrier; only the membership resolver
// (and the explicit switch action, which re-runs the same membership check)
// writes it.
type UserSession struct {
	UserID               uuid.UUID `json:"user_id" gorm:"type:uuid;primary_key"`
	ActiveOrganizationID uuid.UUID `json:"active_organization_id" gorm:"type:uuid;not null"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName returns the table name for UserSession
func (UserSession) TableName() string {
	return "user_sessions"
}
