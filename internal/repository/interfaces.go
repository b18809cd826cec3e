package repository

import (
	"contact-directory-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// OrganizationRepositoryInterface defines the interface for organization repository operations.
// Organizations themselves are not tenant-scoped; access is filtered by
// membership checks in the service layer.
type OrganizationRepositoryInterface interface {
	Create(org *models.Organization) error
	GetByID(id uuid.UUID) (*models.Organization, error)
	GetBySlug(slug string) (*models.Organization, error)
	SlugExists(slug string) (bool, error)
	Update(org *models.Organization) error
	DeleteCascade(id uuid.UUID) error
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// MembershipRepositoryInterface defines the interface for membership repository operations
type MembershipRepositoryInterface interface {
	Create(membership *models.Membership) error
	GetByUserAndOrg(userID, orgID uuid.UUID) (*models.Membership, error)
	ListByUser(userID uuid.UUID) ([]models.Membership, error)
	FirstByUser(userID uuid.UUID) (*models.Membership, error)
	CountByUser(userID uuid.UUID) (int64, error)
	Delete(userID, orgID uuid.UUID) error
}

// ContactRepositoryInterface defines the tenant-scoped interface for contact
// repository operations. Every method takes the owning organization id
// explicitly; there is no way to query contacts without one.
type ContactRepositoryInterface interface {
	GetByID(orgID, id uuid.UUID) (*models.Contact, error)
	List(orgID uuid.UUID, search string, limit, offset int) ([]models.Contact, int64, error)
	FindByEmail(orgID uuid.UUID, email string) (*models.Contact, error)
	CountByOrg(orgID uuid.UUID) (int64, error)
	CreateWithMeta(contact *models.Contact, meta []models.ContactMeta) error
	UpdateWithMeta(orgID uuid.UUID, contact *models.Contact, meta []models.ContactMeta) error
	DeleteWithChildren(orgID, id uuid.UUID) error
}

// ContactNoteRepositoryInterface defines the tenant-scoped interface for
// contact note repository operations.
type ContactNoteRepositoryInterface interface {
	Create(note *models.ContactNote) error
	GetByID(orgID, id uuid.UUID) (*models.ContactNote, error)
	ListByContact(orgID, contactID uuid.UUID) ([]models.ContactNote, error)
	Delete(orgID, id uuid.UUID) error
}
