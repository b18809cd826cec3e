package handlers

import (
	"net/http"

	"contact-directory-backend/internal/logger"
	"contact-directory-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactNoteHandler handles note endpoints under a contact
type ContactNoteHandler struct {
	notes service.ContactNoteServiceInterface
	gate  service.AuthorizerInterface
}

// NewContactNoteHandler creates a new contact note handler
func NewContactNoteHandler(notes service.ContactNoteServiceInterface, gate service.AuthorizerInterface) *ContactNoteHandler {
	return &ContactNoteHandler{
		notes: notes,
		gate:  gate,
	}
}

// Create adds a note to a contact
// @Summary Add a note
// @Tags notes
// @Accept json
// @Produce json
// @Param organization path string true "Organization slug"
// @Param id path string true "Contact ID"
// @Param note body service.CreateNoteRequest true "Note data"
// @Success 201 {object} service.NoteResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/contacts/{id}/notes [post]
func (h *ContactNoteHandler) Create(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionViewContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	note, err := h.notes.Create(orgID, contactID, userID, &req)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("note_id", note.ID).Info("note added")
	c.JSON(http.StatusCreated, note)
}

// List retrieves a contact's notes, newest first
// @Summary List notes
// @Tags notes
// @Produce json
// @Param organization path string true "Organization slug"
// @Param id path string true "Contact ID"
// @Success 200 {array} service.NoteResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/contacts/{id}/notes [get]
func (h *ContactNoteHandler) List(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionViewContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	notes, err := h.notes.ListByContact(orgID, contactID)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Delete removes a note; only its author may do so
// @Summary Delete note
// @Tags notes
// @Produce json
// @Param organization path string true "Organization slug"
// @Param id path string true "Contact ID"
// @Param note_id path string true "Note ID"
// @Success 204 "Note deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/contacts/{id}/notes/{note_id} [delete]
func (h *ContactNoteHandler) Delete(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionViewContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	noteID, ok := pathUUID(c, "note_id")
	if !ok {
		return
	}

	if err := h.notes.Delete(orgID, contactID, noteID, userID); err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("note_id", noteID).Info("note deleted")
	c.Status(http.StatusNoContent)
}
