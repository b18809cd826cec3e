package testutils

import (
	"fmt"
	"time"

	"contact-directory-backend/internal/database/models"

	"github.com/google/uuid"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with a unique email
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:         "Test User",
		Email:        fmt.Sprintf("user-%s@test.com", id.String()[:8]),
		PasswordHash: "x",
	}
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// OrganizationFactory provides methods to create test Organization data
type OrganizationFactory struct{}

// NewOrganizationFactory creates a new OrganizationFactory
func NewOrganizationFactory() *OrganizationFactory {
	return &OrganizationFactory{}
}

// Create creates a test Organization owned by the given user, with a unique slug
func (f *OrganizationFactory) Create(ownerUserID uuid.UUID) *models.Organization {
	id := uuid.New()
	return &models.Organization{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Test Organization",
		Slug:        "test-org-" + id.String()[:8],
		OwnerUserID: ownerUserID,
	}
}

// WithSlug sets a custom slug for the organization
func (f *OrganizationFactory) WithSlug(ownerUserID uuid.UUID, slug string) *models.Organization {
	org := f.Create(ownerUserID)
	org.Slug = slug
	return org
}

// MembershipFactory provides methods to create test Membership data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create creates a test Membership with the given role
func (f *MembershipFactory) Create(userID, orgID uuid.UUID, role models.MembershipRole) *models.Membership {
	return &models.Membership{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
	}
}

// ContactFactory provides methods to create test Contact data
type ContactFactory struct{}

// NewContactFactory creates a new ContactFactory
func NewContactFactory() *ContactFactory {
	return &ContactFactory{}
}

// Create creates a test Contact in the given organization
func (f *ContactFactory) Create(orgID, createdBy uuid.UUID) *models.Contact {
	return &models.Contact{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: orgID,
		FirstName:      "Jane",
		LastName:       "Doe",
		Phone:          "+1-555-0123",
		CreatedBy:      createdBy,
		UpdatedBy:      createdBy,
	}
}

// WithEmail sets a custom email for the contact
func (f *ContactFactory) WithEmail(orgID, createdBy uuid.UUID, email string) *models.Contact {
	contact := f.Create(orgID, createdBy)
	contact.Email = &email
	return contact
}

// ContactMetaFactory provides methods to create test ContactMeta data
type ContactMetaFactory struct{}

// NewContactMetaFactory creates a new ContactMetaFactory
func NewContactMetaFactory() *ContactMetaFactory {
	return &ContactMetaFactory{}
}

// Create creates a test custom attribute for the given contact
func (f *ContactMetaFactory) Create(contactID uuid.UUID, key, value string) *models.ContactMeta {
	return &models.ContactMeta{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ContactID: contactID,
		Key:       key,
		Value:     value,
	}
}

// ContactNoteFactory provides methods to create test ContactNote data
type ContactNoteFactory struct{}

// NewContactNoteFactory creates a new ContactNoteFactory
func NewContactNoteFactory() *ContactNoteFactory {
	return &ContactNoteFactory{}
}

// Create creates a test note on the given contact, authored by userID
func (f *ContactNoteFactory) Create(contactID, userID uuid.UUID) *models.ContactNote {
	return &models.ContactNote{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ContactID: contactID,
		UserID:    userID,
		Body:      "A note for testing purposes",
	}
}

// FactorySet provides access to all factories
type FactorySet struct {
	User         *UserFactory
	Organization *OrganizationFactory
	Membership   *MembershipFactory
	Contact      *ContactFactory
	ContactMeta  *ContactMetaFactory
	ContactNote  *ContactNoteFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:         NewUserFactory(),
		Organization: NewOrganizationFactory(),
		Membership:   NewMembershipFactory(),
		Contact:      NewContactFactory(),
		ContactMeta:  NewContactMetaFactory(),
		ContactNote:  NewContactNoteFactory(),
	}
}

// CreateTenant creates a user, their organization and an Admin membership, a
// common starting point for tenant-isolation tests.
func (fs *FactorySet) CreateTenant() (*models.User, *models.Organization, *models.Membership) {
	user := fs.User.Create()
	org := fs.Organization.Create(user.ID)
	membership := fs.Membership.Create(user.ID, org.ID, models.MembershipRoleAdmin)
	return user, org, membership
}
