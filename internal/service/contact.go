package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"contact-directory-backend/internal/audit"
	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	contactEmailIndex = "idx_contacts_org_email_ci"
	contactMetaIndex  = "idx_contact_meta_contact_key"

	pgUniqueViolation = "23505"
)

// ContactService is the transactional write pipeline for contacts. It
// enforces per-organization case-insensitive email uniqueness (pre-check plus
// storage-constraint translation), the custom-attribute cap, and full-replace
// attribute semantics. All operations take the resolved organization id and
// the acting user id explicitly.
type ContactService struct {
	contacts  repository.ContactRepositoryInterface
	validator *validator.Validate
	audit     audit.Recorder
}

// NewContactService creates a new contact service
func NewContactService(contacts repository.ContactRepositoryInterface, validator *validator.Validate, recorder audit.Recorder) *ContactService {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &ContactService{
		contacts:  contacts,
		validator: validator,
		audit:     recorder,
	}
}

// MetaInput is one custom attribute in a contact write request
type MetaInput struct {
	Key   string `json:"key" validate:"required,max=255"`
	Value string `json:"value" validate:"required,max=1000"`
}

// CreateContactRequest represents the request to create a contact
type CreateContactRequest struct {
	FirstName  string      `json:"first_name" validate:"required,max=255"`
	LastName   string      `json:"last_name" validate:"required,max=255"`
	Email      string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone      string      `json:"phone,omitempty" validate:"max=255"`
	Address    string      `json:"address,omitempty" validate:"max=2000"`
	AvatarPath string      `json:"avatar_path,omitempty" validate:"max=255"`
	Meta       []MetaInput `json:"meta,omitempty" validate:"dive"`
}

// UpdateContactRequest represents the request to update a contact. The meta
// set replaces the stored one wholesale.
type UpdateContactRequest struct {
	FirstName  string      `json:"first_name" validate:"required,max=255"`
	LastName   string      `json:"last_name" validate:"required,max=255"`
	Email      string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone      string      `json:"phone,omitempty" validate:"max=255"`
	Address    string      `json:"address,omitempty" validate:"max=2000"`
	AvatarPath string      `json:"avatar_path,omitempty" validate:"max=255"`
	Meta       []MetaInput `json:"meta,omitempty" validate:"dive"`
}

// MetaResponse is one custom attribute of a contact
type MetaResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ContactResponse represents the response for contact operations
type ContactResponse struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	FullName       string         `json:"full_name"`
	Email          *string        `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Address        string         `json:"address,omitempty"`
	AvatarPath     string         `json:"avatar_path,omitempty"`
	CreatedBy      uuid.UUID      `json:"created_by"`
	UpdatedBy      uuid.UUID      `json:"updated_by"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
	Meta           []MetaResponse `json:"meta"`
}

// ContactListResponse represents a paginated list of contacts
type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ContactDraft is a not-yet-persisted copy of an existing contact, used to
// prefill a create form. It carries no ids and writes nothing.
type ContactDraft struct {
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      *string     `json:"email,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Address    string      `json:"address,omitempty"`
	AvatarPath string      `json:"avatar_path,omitempty"`
	Meta       []MetaInput `json:"meta,omitempty"`
}

// validateMeta enforces the attribute cap and per-contact key uniqueness
// before anything touches storage.
func validateMeta(meta []MetaInput) error {
	if len(meta) > models.MaxMetaPerContact {
		return apperrors.ErrAttributeLimitExceeded
	}
	seen := make(map[string]bool, len(meta))
	for _, m := range meta {
		if seen[m.Key] {
			return apperrors.NewValidationError("meta", fmt.Sprintf("duplicate key %q", m.Key))
		}
		seen[m.Key] = true
	}
	return nil
}

func metaRows(meta []MetaInput) []models.ContactMeta {
	rows := make([]models.ContactMeta, len(meta))
	for i, m := range meta {
		rows[i] = models.ContactMeta{Key: m.Key, Value: m.Value}
	}
	return rows
}

// uniqueViolation reports whether err is a Postgres unique-constraint
// violation on the named index.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// Create creates a contact with its attributes in one transaction. A
// case-insensitive email match in the same organization blocks the create and
// returns DuplicateEmailError with the existing contact's id; the storage
// unique index is the final authority under concurrent submissions, and its
// violation translates to the same error.
func (s *ContactService) Create(orgID, actorUserID uuid.UUID, req *CreateContactRequest) (*ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateMeta(req.Meta); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		existing, err := s.contacts.FindByEmail(orgID, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for duplicate email: %w", err)
		}
		if existing != nil {
			s.recordDuplicateBlocked(orgID, actorUserID, email, existing.ID)
			return nil, apperrors.NewDuplicateEmailError(existing.ID)
		}
	}

	contact := &models.Contact{
		OrganizationID: orgID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Address:        req.Address,
		AvatarPath:     req.AvatarPath,
		CreatedBy:      actorUserID,
		UpdatedBy:      actorUserID,
	}
	if email != "" {
		contact.Email = &email
	}

	if err := s.contacts.CreateWithMeta(contact, metaRows(req.Meta)); err != nil {
		if translated := s.translateConstraint(err, orgID, actorUserID, email); translated != nil {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return toContactResponse(contact), nil
}

// Update applies field changes and replaces the attribute set in one
// transaction. The email-uniqueness check excludes the contact's own row;
// updated_by is stamped to the actor.
func (s *ContactService) Update(orgID, contactID, actorUserID uuid.UUID, req *UpdateContactRequest) (*ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateMeta(req.Meta); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByID(orgID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		existing, err := s.contacts.FindByEmail(orgID, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for duplicate email: %w", err)
		}
		if existing != nil && existing.ID != contact.ID {
			s.recordDuplicateBlocked(orgID, actorUserID, email, existing.ID)
			return nil, apperrors.NewDuplicateEmailError(existing.ID)
		}
	}

	contact.FirstName = req.FirstName
	contact.LastName = req.LastName
	contact.Phone = req.Phone
	contact.Address = req.Address
	contact.AvatarPath = req.AvatarPath
	contact.UpdatedBy = actorUserID
	if email != "" {
		contact.Email = &email
	} else {
		contact.Email = nil
	}

	if err := s.contacts.UpdateWithMeta(orgID, contact, metaRows(req.Meta)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		if translated := s.translateConstraint(err, orgID, actorUserID, email); translated != nil {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return toContactResponse(contact), nil
}

// translateConstraint maps storage unique-violations to domain errors so no
// raw constraint error escapes the pipeline. Returns nil when err is not a
// recognized constraint violation.
func (s *ContactService) translateConstraint(err error, orgID, actorUserID uuid.UUID, email string) error {
	if uniqueViolation(err, contactEmailIndex) {
		// Lost the race to a concurrent insert. The winner is the existing
		// contact now; fetch it for the error payload. If that lookup fails
		// too, report the conflict without naming a contact rather than
		// pointing at a zero id.
		existing, lookupErr := s.contacts.FindByEmail(orgID, email)
		if lookupErr != nil {
			return apperrors.NewValidationError("email", "is already taken in this organization")
		}
		s.recordDuplicateBlocked(orgID, actorUserID, email, existing.ID)
		return apperrors.NewDuplicateEmailError(existing.ID)
	}
	if uniqueViolation(err, contactMetaIndex) {
		return apperrors.NewValidationError("meta", "duplicate key")
	}
	return nil
}

func (s *ContactService) recordDuplicateBlocked(orgID, actorUserID uuid.UUID, email string, existingID uuid.UUID) {
	s.audit.Record("duplicate_contact_blocked", audit.Fields{
		"org_id":              orgID,
		"user_id":             actorUserID,
		"email":               email,
		"existing_contact_id": existingID,
	})
}

// Get retrieves a contact with its attributes. Cross-tenant ids surface as
// not found.
func (s *ContactService) Get(orgID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contacts.GetByID(orgID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return toContactResponse(contact), nil
}

// List retrieves the organization's contacts with optional search and pagination.
func (s *ContactService) List(orgID uuid.UUID, search string, page, pageSize int) (*ContactListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 15
	}

	offset := (page - 1) * pageSize
	contacts, total, err := s.contacts.List(orgID, search, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = *toContactResponse(&contacts[i])
	}

	return &ContactListResponse{
		Contacts: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Delete removes a contact with its attributes and notes in one transaction.
func (s *ContactService) Delete(orgID, contactID uuid.UUID) error {
	if err := s.contacts.DeleteWithChildren(orgID, contactID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// Duplicate reads a contact as a template for a new one. Nothing is persisted
// until the caller submits the draft through Create.
func (s *ContactService) Duplicate(orgID, contactID uuid.UUID) (*ContactDraft, error) {
	contact, err := s.contacts.GetByID(orgID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	draft := &ContactDraft{
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Email:      contact.Email,
		Phone:      contact.Phone,
		Address:    contact.Address,
		AvatarPath: contact.AvatarPath,
	}
	for _, m := range contact.Meta {
		draft.Meta = append(draft.Meta, MetaInput{Key: m.Key, Value: m.Value})
	}
	return draft, nil
}

func toContactResponse(contact *models.Contact) *ContactResponse {
	meta := make([]MetaResponse, len(contact.Meta))
	for i, m := range contact.Meta {
		meta[i] = MetaResponse{Key: m.Key, Value: m.Value}
	}
	return &ContactResponse{
		ID:             contact.ID,
		OrganizationID: contact.OrganizationID,
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		FullName:       contact.FullName(),
		Email:          contact.Email,
		Phone:          contact.Phone,
		Address:        contact.Address,
		AvatarPath:     contact.AvatarPath,
		CreatedBy:      contact.CreatedBy,
		UpdatedBy:      contact.UpdatedBy,
		CreatedAt:      contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      contact.UpdatedAt.Format(time.RFC3339),
		Meta:           meta,
	}
}
