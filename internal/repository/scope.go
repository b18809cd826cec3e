package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tenantScope restricts a query to rows owned by one organization. Every
// method on a tenant-owned repository goes through this scope (or the join
// variant below); there is no unscoped access path for contacts, meta or
// notes. A primary-key lookup under the wrong organization comes back as
// gorm.ErrRecordNotFound, identical to true absence.
func tenantScope(orgID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", orgID)
	}
}

// contactTenantScope scopes child tables (contact_notes, contact_meta) that
// reach their organization through the owning contact.
func contactTenantScope(orgID uuid.UUID, table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN contacts ON contacts.id = "+table+".contact_id").
			Where("contacts.organization_id = ?", orgID)
	}
}
