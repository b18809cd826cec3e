package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/repository"
	"contact-directory-backend/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationService handles the organization lifecycle: creation (creator
// becomes owner with an Admin membership), updates, owner-only deletion with
// an explicit cascade, and membership management.
type OrganizationService struct {
	repo        repository.OrganizationRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	users       repository.UserRepositoryInterface
	sessions    session.Store
	validator   *validator.Validate
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	repo repository.OrganizationRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
	users repository.UserRepositoryInterface,
	sessions session.Store,
	validator *validator.Validate,
) *OrganizationService {
	return &OrganizationService{
		repo:        repo,
		memberships: memberships,
		users:       users,
		sessions:    sessions,
		validator:   validator,
	}
}

// CreateOrganizationRequest represents the request to create an organization
type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=255"`
}

// UpdateOrganizationRequest represents the request to update an organization
type UpdateOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Slug string `json:"slug" validate:"required,max=255"`
}

// InviteUserRequest attaches an existing user to the organization with a role
type InviteUserRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Role  string `json:"role" validate:"required"`
}

// OrganizationResponse represents the response for organization operations
type OrganizationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe slug from a name.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// uniqueSlug resolves slug collisions with a numeric suffix: "acme",
// "acme-1", "acme-2", ...
func (s *OrganizationService) uniqueSlug(base string) (string, error) {
	if base == "" {
		base = "organization"
	}
	candidate := base
	for counter := 1; ; counter++ {
		exists, err := s.repo.SlugExists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// Create creates an organization owned by the actor, attaches the actor as
// Admin, and makes the new organization the actor's active one. The session
// write is safe because the membership was created in the same call.
func (s *OrganizationService) Create(actorUserID uuid.UUID, req *CreateOrganizationRequest) (*OrganizationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slug := req.Slug
	if slug != "" {
		if !slugPattern.MatchString(slug) {
			return nil, apperrors.NewValidationError("slug", "must contain only lowercase letters, digits and hyphens")
		}
		exists, err := s.repo.SlugExists(slug)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if exists {
			return nil, apperrors.NewValidationError("slug", "is already taken")
		}
	} else {
		var err error
		slug, err = s.uniqueSlug(slugify(req.Name))
		if err != nil {
			return nil, err
		}
	}

	org := &models.Organization{
		Name:        req.Name,
		Slug:        slug,
		OwnerUserID: actorUserID,
	}
	if err := s.repo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	membership := &models.Membership{
		UserID:         actorUserID,
		OrganizationID: org.ID,
		Role:           models.MembershipRoleAdmin,
	}
	if err := s.memberships.Create(membership); err != nil {
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	if err := s.sessions.Set(actorUserID, org.ID); err != nil {
		return nil, err
	}

	return toOrganizationResponse(org), nil
}

// GetBySlug retrieves an organization the user is a member of. Non-members are
// refused outright; organizations are membership-filtered, not tenant-scoped.
// An unknown slug gets the same Forbidden as a foreign one, so the response
// never reveals which slugs exist.
func (s *OrganizationService) GetBySlug(userID uuid.UUID, slug string) (*OrganizationResponse, error) {
	org, err := s.repo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewForbiddenError("you do not have access to this organization")
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if _, err := s.memberships.GetByUserAndOrg(userID, org.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewForbiddenError("you do not have access to this organization")
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	return toOrganizationResponse(org), nil
}

// Update renames an organization. Only the owner may do this; the permission
// gate has already required the manage-organization action.
func (s *OrganizationService) Update(actorUserID, orgID uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperrors.NewValidationError("slug", "must contain only lowercase letters, digits and hyphens")
	}

	org, err := s.repo.GetByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if org.OwnerUserID != actorUserID {
		return nil, apperrors.NewForbiddenError("you do not have permission to edit this organization")
	}

	if req.Slug != org.Slug {
		exists, err := s.repo.SlugExists(req.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if exists {
			return nil, apperrors.NewValidationError("slug", "is already taken")
		}
	}

	org.Name = req.Name
	org.Slug = req.Slug
	if err := s.repo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return toOrganizationResponse(org), nil
}

// Delete removes an organization and everything it owns. Only the owner may
// delete, and never their sole organization. The actor's session is repointed
// to their oldest remaining membership.
func (s *OrganizationService) Delete(actorUserID, orgID uuid.UUID) error {
	org, err := s.repo.GetByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to get organization: %w", err)
	}

	if org.OwnerUserID != actorUserID {
		return apperrors.NewForbiddenError("you do not have permission to delete this organization")
	}

	count, err := s.memberships.CountByUser(actorUserID)
	if err != nil {
		return fmt.Errorf("failed to count memberships: %w", err)
	}
	if count <= 1 {
		return apperrors.ErrLastOrganization
	}

	if err := s.repo.DeleteCascade(orgID); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	// Successor selection: oldest remaining membership, if any.
	next, err := s.memberships.FirstByUser(actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.sessions.Clear(actorUserID)
		}
		return fmt.Errorf("failed to pick next organization: %w", err)
	}
	return s.sessions.Set(actorUserID, next.OrganizationID)
}

// InviteUser attaches an existing user (by email) to the organization with
// the given role.
func (s *OrganizationService) InviteUser(orgID uuid.UUID, req *InviteUserRequest) (*MembershipResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	role := models.MembershipRole(req.Role)
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role", "must be Admin or Member")
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if _, err := s.memberships.GetByUserAndOrg(user.ID, orgID); err == nil {
		return nil, apperrors.ErrMembershipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	membership := &models.Membership{
		UserID:         user.ID,
		OrganizationID: orgID,
		Role:           role,
	}
	if err := s.memberships.Create(membership); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	return &MembershipResponse{
		OrganizationID: orgID,
		Role:           string(membership.Role),
		JoinedAt:       membership.CreatedAt.Format(time.RFC3339),
	}, nil
}

// RemoveUser detaches a user from the organization. The owner cannot be
// removed. If the removed user's session pointed at this organization it is
// cleared; the resolver re-establishes a valid selection on their next request.
func (s *OrganizationService) RemoveUser(orgID, userID uuid.UUID) error {
	org, err := s.repo.GetByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org.OwnerUserID == userID {
		return apperrors.ErrOwnerRemoval
	}

	if err := s.memberships.Delete(userID, orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to remove membership: %w", err)
	}

	if active, ok, err := s.sessions.Get(userID); err == nil && ok && active == orgID {
		_ = s.sessions.Clear(userID)
	}
	return nil
}

func toOrganizationResponse(org *models.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:          org.ID,
		Name:        org.Name,
		Slug:        org.Slug,
		OwnerUserID: org.OwnerUserID,
		CreatedAt:   org.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   org.UpdatedAt.Format(time.RFC3339),
	}
}
