package repository

import (
	"contact-directory-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactNoteRepository handles database operations for contact notes. Notes
// reach their tenant through the owning contact, so reads join contacts and
// filter on its organization id.
type ContactNoteRepository struct {
	db *gorm.DB
}

// NewContactNoteRepository creates a new contact note repository
func NewContactNoteRepository(db *gorm.DB) *ContactNoteRepository {
	return &ContactNoteRepository{db: db}
}

// Create creates a new note. The service layer resolves the contact through
// the tenant-scoped contact repository first, so the contact id is already
// proven to belong to the caller's organization.
func (r *ContactNoteRepository) Create(note *models.ContactNote) error {
	return r.db.Create(note).Error
}

// GetByID retrieves a note by ID within the organization
func (r *ContactNoteRepository) GetByID(orgID, id uuid.UUID) (*models.ContactNote, error) {
	var note models.ContactNote
	err := r.db.
		Scopes(contactTenantScope(orgID, "contact_notes")).
		First(&note, "contact_notes.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// ListByContact retrieves the notes of a contact in the organization, newest first
func (r *ContactNoteRepository) ListByContact(orgID, contactID uuid.UUID) ([]models.ContactNote, error) {
	var notes []models.ContactNote
	err := r.db.
		Scopes(contactTenantScope(orgID, "contact_notes")).
		Preload("Author").
		Where("contact_notes.contact_id = ?", contactID).
		Order("contact_notes.created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Delete removes a note by ID within the organization
func (r *ContactNoteRepository) Delete(orgID, id uuid.UUID) error {
	// Resolve through the tenant scope first; DELETE with a JOIN is not
	// portable, and the lookup already guarantees the row is in-tenant.
	note, err := r.GetByID(orgID, id)
	if err != nil {
		return err
	}
	return r.db.Delete(&models.ContactNote{}, "id = ?", note.ID).Error
}
