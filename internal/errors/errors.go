package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError represents an error when an entity is not found. Cross-tenant
// lookups deliberately surface as NotFoundError as well, so callers cannot
// distinguish absence from another organization's data.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ForbiddenError represents an authorization failure. The message must never
// explain policy internals.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "forbidden"
}

// ValidationError represents a validation error with field-level detail
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// DuplicateEmailError is returned when a contact create or update collides
// with an existing contact's email in the same organization. It always carries
// the id of the contact that already owns the address.
type DuplicateEmailError struct {
	ExistingContactID uuid.UUID
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("a contact with this email already exists in the organization (existing contact %s)", e.ExistingContactID)
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// Entity Not Found Errors
var (
	ErrOrganizationNotFound = &NotFoundError{Entity: "organization"}
	ErrUserNotFound         = &NotFoundError{Entity: "user"}
	ErrMembershipNotFound   = &NotFoundError{Entity: "membership"}
	ErrContactNotFound      = &NotFoundError{Entity: "contact"}
	ErrContactNoteNotFound  = &NotFoundError{Entity: "contact note"}
)

// Already Exists Errors
var (
	ErrMembershipExists = &AlreadyExistsError{Entity: "membership", Context: "for this user in the organization"}
	ErrUserExists       = &AlreadyExistsError{Entity: "user", Context: "with this email"}
)

// Business Logic Errors
var (
	// ErrNoOrganization is returned by the membership resolver when the user
	// belongs to no organization at all.
	ErrNoOrganization = errors.New("user belongs to no organization")

	// ErrAttributeLimitExceeded rejects writes that would push a contact past
	// the custom-attribute cap.
	ErrAttributeLimitExceeded = &ValidationError{Field: "meta", Message: "a contact can have a maximum of 5 custom fields"}

	// ErrLastOrganization blocks deletion of the owner's sole organization.
	ErrLastOrganization = errors.New("cannot delete your only organization")

	// ErrOwnerRemoval blocks removing the organization owner's membership.
	ErrOwnerRemoval = errors.New("the organization owner cannot be removed")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsForbidden checks if an error is a ForbiddenError
func IsForbidden(err error) bool {
	var forbiddenErr *ForbiddenError
	return errors.As(err, &forbiddenErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsDuplicateEmail checks if an error is a DuplicateEmailError
func IsDuplicateEmail(err error) bool {
	var dupErr *DuplicateEmailError
	return errors.As(err, &dupErr)
}

// AsDuplicateEmail extracts a DuplicateEmailError, if present.
func AsDuplicateEmail(err error) (*DuplicateEmailError, bool) {
	var dupErr *DuplicateEmailError
	if errors.As(err, &dupErr) {
		return dupErr, true
	}
	return nil, false
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewForbiddenError creates a new ForbiddenError
func NewForbiddenError(message string) error {
	return &ForbiddenError{Message: message}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewDuplicateEmailError creates a DuplicateEmailError referencing the
// contact that already owns the email.
func NewDuplicateEmailError(existingContactID uuid.UUID) error {
	return &DuplicateEmailError{ExistingContactID: existingContactID}
}
