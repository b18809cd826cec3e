package repository

import (
	"contact-directory-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository handles database operations for contacts. All reads and
// writes are tenant-scoped: the owning organization id is an explicit
// parameter everywhere and is applied through tenantScope, never left to the
// caller's discipline.
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// GetByID retrieves a contact by ID within the organization, with its meta
// attached. A contact owned by another organization is reported as not found.
func (r *ContactRepository) GetByID(orgID, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.
		Scopes(tenantScope(orgID)).
		Preload("Meta").
		First(&contact, "contacts.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// List retrieves contacts in the organization ordered by name, optionally
// filtered by a name/email substring search, with pagination.
func (r *ContactRepository) List(orgID uuid.UUID, search string, limit, offset int) ([]models.Contact, int64, error) {
	var contacts []models.Contact
	var total int64

	query := r.db.Model(&models.Contact{}).Scopes(tenantScope(orgID))
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("first_name ASC, last_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// FindByEmail retrieves the contact holding the email in the organization,
// compared case-insensitively.
func (r *ContactRepository) FindByEmail(orgID uuid.UUID, email string) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.
		Scopes(tenantScope(orgID)).
		Where("lower(email) = lower(?)", email).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// CountByOrg returns the number of contacts in the organization
func (r *ContactRepository) CountByOrg(orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Contact{}).Scopes(tenantScope(orgID)).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CreateWithMeta inserts a contact and its attribute rows in one transaction.
// If any attribute insert fails the contact row is rolled back with it.
func (r *ContactRepository) CreateWithMeta(contact *models.Contact, meta []models.ContactMeta) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contact).Error; err != nil {
			return err
		}
		for i := range meta {
			meta[i].ContactID = contact.ID
			if err := tx.Create(&meta[i]).Error; err != nil {
				return err
			}
		}
		contact.Meta = meta
		return nil
	})
}

// UpdateWithMeta updates the contact's fields and replaces its attribute set
// wholesale, all in one transaction. The UPDATE itself carries the tenant
// filter, so a contact from another organization cannot be touched even with
// a guessed id.
func (r *ContactRepository) UpdateWithMeta(orgID uuid.UUID, contact *models.Contact, meta []models.ContactMeta) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Contact{}).
			Where("id = ? AND organization_id = ?", contact.ID, orgID).
			Updates(map[string]interface{}{
				"first_name":  contact.FirstName,
				"last_name":   contact.LastName,
				"email":       contact.Email,
				"phone":       contact.Phone,
				"address":     contact.Address,
				"avatar_path": contact.AvatarPath,
				"updated_by":  contact.UpdatedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("contact_id = ?", contact.ID).Delete(&models.ContactMeta{}).Error; err != nil {
			return err
		}
		for i := range meta {
			meta[i].ContactID = contact.ID
			if err := tx.Create(&meta[i]).Error; err != nil {
				return err
			}
		}
		contact.Meta = meta
		return nil
	})
}

// DeleteWithChildren deletes a contact together with its meta and notes in one
// transaction. The delete is tenant-scoped; a cross-tenant id reports not found.
func (r *ContactRepository) DeleteWithChildren(orgID, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var contact models.Contact
		if err := tx.Scopes(tenantScope(orgID)).First(&contact, "contacts.id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Where("contact_id = ?", id).Delete(&models.ContactMeta{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", id).Delete(&models.ContactNote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&contact).Error
	})
}
