package repository

import (
	"contact-directory-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository handles database operations for memberships
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create creates a new membership
func (r *MembershipRepository) Create(membership *models.Membership) error {
	return r.db.Create(membership).Error
}

// GetByUserAndOrg retrieves the membership of a user in an organization
func (r *MembershipRepository) GetByUserAndOrg(userID, orgID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.First(&membership, "user_id = ? AND organization_id = ?", userID, orgID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByUser retrieves all memberships of a user with their organizations,
// ordered by membership creation so the fallback selection is deterministic.
func (r *MembershipRepository) ListByUser(userID uuid.UUID) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// FirstByUser retrieves the user's oldest membership
func (r *MembershipRepository) FirstByUser(userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CountByUser returns the number of organizations the user belongs to
func (r *MembershipRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a user's membership in an organization
func (r *MembershipRepository) Delete(userID, orgID uuid.UUID) error {
	result := r.db.Where("user_id = ? AND organization_id = ?", userID, orgID).Delete(&models.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
