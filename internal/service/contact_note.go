package service

import (
	"errors"
	"fmt"
	"time"

	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactNoteService handles notes on contacts. Notes are append-only except
// that an author may delete their own.
type ContactNoteService struct {
	notes     repository.ContactNoteRepositoryInterface
	contacts  repository.ContactRepositoryInterface
	validator *validator.Validate
}

// NewContactNoteService creates a new contact note service
func NewContactNoteService(
	notes repository.ContactNoteRepositoryInterface,
	contacts repository.ContactRepositoryInterface,
	validator *validator.Validate,
) *ContactNoteService {
	return &ContactNoteService{
		notes:     notes,
		contacts:  contacts,
		validator: validator,
	}
}

// CreateNoteRequest represents the request to add a note to a contact
type CreateNoteRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// NoteResponse represents the response for note operations
type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	ContactID uuid.UUID `json:"contact_id"`
	UserID    uuid.UUID `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
}

// Create adds a note to a contact, stamped with the acting user as author.
// The contact lookup goes through the tenant scope, so a cross-tenant contact
// id is not found.
func (s *ContactNoteService) Create(orgID, contactID, actorUserID uuid.UUID, req *CreateNoteRequest) (*NoteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contact, err := s.contacts.GetByID(orgID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	note := &models.ContactNote{
		ContactID: contact.ID,
		UserID:    actorUserID,
		Body:      req.Body,
	}
	if err := s.notes.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return toNoteResponse(note), nil
}

// ListByContact retrieves a contact's notes, newest first.
func (s *ContactNoteService) ListByContact(orgID, contactID uuid.UUID) ([]NoteResponse, error) {
	if _, err := s.contacts.GetByID(orgID, contactID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	notes, err := s.notes.ListByContact(orgID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	responses := make([]NoteResponse, len(notes))
	for i := range notes {
		responses[i] = *toNoteResponse(&notes[i])
	}
	return responses, nil
}

// Delete removes a note. The note must belong to the given contact (else not
// found, the same as a cross-tenant id) and only its author may delete it.
func (s *ContactNoteService) Delete(orgID, contactID, noteID, actorUserID uuid.UUID) error {
	note, err := s.notes.GetByID(orgID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrContactNoteNotFound
		}
		return fmt.Errorf("failed to get note: %w", err)
	}

	if note.ContactID != contactID {
		return apperrors.ErrContactNoteNotFound
	}
	if note.UserID != actorUserID {
		return apperrors.NewForbiddenError("only the author can delete this note")
	}

	if err := s.notes.Delete(orgID, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func toNoteResponse(note *models.ContactNote) *NoteResponse {
	return &NoteResponse{
		ID:        note.ID,
		ContactID: note.ContactID,
		UserID:    note.UserID,
		Body:      note.Body,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
	}
}
