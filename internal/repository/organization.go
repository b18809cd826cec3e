package repository

import (
	"contact-directory-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationRepository handles database operations for organizations
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create creates a new organization
func (r *OrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.First(&org, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetBySlug retrieves an organization by slug
func (r *OrganizationRepository) GetBySlug(slug string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.First(&org, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// SlugExists reports whether any organization already uses the slug
func (r *OrganizationRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Organization{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update updates an organization
func (r *OrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// DeleteCascade deletes an organization together with everything it owns.
// The cascade is an explicit transactional sequence (children before parents)
// so a failure at any step leaves the tenant intact.
func (r *OrganizationRepository) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		contactIDs := tx.Model(&models.Contact{}).Select("id").Where("organization_id = ?", id)

		if err := tx.Where("contact_id IN (?)", contactIDs).Delete(&models.ContactMeta{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id IN (?)", contactIDs).Delete(&models.ContactNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		// Stale session pointers to the deleted organization are dropped; the
		// resolver re-establishes a valid selection on the next request.
		if err := tx.Where("active_organization_id = ?", id).Delete(&models.UserSession{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Organization{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
