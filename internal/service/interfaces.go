package service

import (
	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// MembershipServiceInterface defines the interface for the membership and
// active-organization resolver.
type MembershipServiceInterface interface {
	ResolveActiveOrganization(userID uuid.UUID, slug string) (uuid.UUID, error)
	SwitchOrganization(userID uuid.UUID, slug string) (*OrganizationResponse, error)
	ListMemberships(userID uuid.UUID) ([]MembershipResponse, error)
	IsMember(userID, orgID uuid.UUID) (bool, error)
}

// AuthorizerInterface defines the interface for the permission gate.
type AuthorizerInterface interface {
	Authorize(userID, orgID uuid.UUID, action Action) error
}

// OrganizationServiceInterface defines the interface for organization service operations
type OrganizationServiceInterface interface {
	Create(actorUserID uuid.UUID, req *CreateOrganizationRequest) (*OrganizationResponse, error)
	GetBySlug(userID uuid.UUID, slug string) (*OrganizationResponse, error)
	Update(actorUserID, orgID uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationResponse, error)
	Delete(actorUserID, orgID uuid.UUID) error
	InviteUser(orgID uuid.UUID, req *InviteUserRequest) (*MembershipResponse, error)
	RemoveUser(orgID, userID uuid.UUID) error
}

// ContactServiceInterface defines the interface for contact service operations.
// Every operation takes the resolved active organization id and, for writes,
// the acting user id explicitly.
type ContactServiceInterface interface {
	Create(orgID, actorUserID uuid.UUID, req *CreateContactRequest) (*ContactResponse, error)
	Update(orgID, contactID, actorUserID uuid.UUID, req *UpdateContactRequest) (*ContactResponse, error)
	Get(orgID, contactID uuid.UUID) (*ContactResponse, error)
	List(orgID uuid.UUID, search string, page, pageSize int) (*ContactListResponse, error)
	Delete(orgID, contactID uuid.UUID) error
	Duplicate(orgID, contactID uuid.UUID) (*ContactDraft, error)
}

// ContactNoteServiceInterface defines the interface for contact note service operations
type ContactNoteServiceInterface interface {
	Create(orgID, contactID, actorUserID uuid.UUID, req *CreateNoteRequest) (*NoteResponse, error)
	ListByContact(orgID, contactID uuid.UUID) ([]NoteResponse, error)
	Delete(orgID, contactID, noteID, actorUserID uuid.UUID) error
}
