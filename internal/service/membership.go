package service

import (
	"errors"
	"fmt"
	"time"

	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/repository"
	"contact-directory-backend/internal/session"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipService resolves which organization a request operates on. It is
// the only writer of the session's active-organization value; the explicit
// switch action goes through the same membership check.
type MembershipService struct {
	memberships   repository.MembershipRepositoryInterface
	organizations repository.OrganizationRepositoryInterface
	sessions      session.Store
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	memberships repository.MembershipRepositoryInterface,
	organizations repository.OrganizationRepositoryInterface,
	sessions session.Store,
) *MembershipService {
	return &MembershipService{
		memberships:   memberships,
		organizations: organizations,
		sessions:      sessions,
	}
}

// MembershipResponse represents one organization the user belongs to
type MembershipResponse struct {
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	Slug             string    `json:"slug"`
	Role             string    `json:"role"`
	JoinedAt         string    `json:"joined_at"`
}

// ResolveActiveOrganization determines the organization the request operates
// on. A route-supplied slug is verified against the user's memberships and
// never silently ignored: an organization the user does not belong to fails
// with Forbidden. Without a slug, the stored session value is used while it
// stays valid; otherwise the user's oldest membership is selected. A user with
// no memberships gets ErrNoOrganization.
func (s *MembershipService) ResolveActiveOrganization(userID uuid.UUID, slug string) (uuid.UUID, error) {
	if slug != "" {
		org, err := s.organizations.GetBySlug(slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, apperrors.NewForbiddenError("you do not have access to this organization")
			}
			return uuid.Nil, fmt.Errorf("failed to look up organization: %w", err)
		}

		if _, err := s.memberships.GetByUserAndOrg(userID, org.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, apperrors.NewForbiddenError("you do not have access to this organization")
			}
			return uuid.Nil, fmt.Errorf("failed to check membership: %w", err)
		}

		if err := s.sessions.Set(userID, org.ID); err != nil {
			return uuid.Nil, err
		}
		return org.ID, nil
	}

	// No slug: trust the session value while the membership holds.
	if orgID, ok, err := s.sessions.Get(userID); err != nil {
		return uuid.Nil, err
	} else if ok {
		_, err := s.memberships.GetByUserAndOrg(userID, orgID)
		if err == nil {
			return orgID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("failed to check membership: %w", err)
		}
		// Membership lost; fall back below.
	}

	first, err := s.memberships.FirstByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.sessions.Clear(userID)
			return uuid.Nil, apperrors.ErrNoOrganization
		}
		return uuid.Nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	if err := s.sessions.Set(userID, first.OrganizationID); err != nil {
		return uuid.Nil, err
	}
	return first.OrganizationID, nil
}

// SwitchOrganization changes the user's active organization. It is the same
// membership check the resolver runs, exposed as an explicit action.
func (s *MembershipService) SwitchOrganization(userID uuid.UUID, slug string) (*OrganizationResponse, error) {
	orgID, err := s.ResolveActiveOrganization(userID, slug)
	if err != nil {
		return nil, err
	}

	org, err := s.organizations.GetByID(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return toOrganizationResponse(org), nil
}

// ListMemberships returns the user's organizations with roles, oldest first.
func (s *MembershipService) ListMemberships(userID uuid.UUID) ([]MembershipResponse, error) {
	memberships, err := s.memberships.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	responses := make([]MembershipResponse, len(memberships))
	for i, m := range memberships {
		responses[i] = MembershipResponse{
			OrganizationID: m.OrganizationID,
			Role:           string(m.Role),
			JoinedAt:       m.CreatedAt.Format(time.RFC3339),
		}
		if m.Organization != nil {
			responses[i].OrganizationName = m.Organization.Name
			responses[i].Slug = m.Organization.Slug
		}
	}
	return responses, nil
}

// IsMember reports whether the user belongs to the organization.
func (s *MembershipService) IsMember(userID, orgID uuid.UUID) (bool, error) {
	_, err := s.memberships.GetByUserAndOrg(userID, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}
