package handlers

import (
	"net/http"
	"strconv"

	"contact-directory-backend/internal/api/middleware"
	"contact-directory-backend/internal/auth"
	"contact-directory-backend/internal/logger"
	"contact-directory-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler handles contact endpoints within the active organization
type ContactHandler struct {
	contacts service.ContactServiceInterface
	gate     service.AuthorizerInterface
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts service.ContactServiceInterface, gate service.AuthorizerInterface) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		gate:     gate,
	}
}

// List retrieves the organization's contacts
// @Summary List contacts
// @Description List the active organization's contacts with optional search and pagination
// @Tags contacts
// @Produce json
// @Param organization path string true "Organization slug"
// @Param search query string false "Search in name, email and phone"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(15)
// @Success 200 {object} service.ContactListResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionViewContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "15"))

	list, err := h.contacts.List(orgID, c.Query("search"), page, pageSize)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Create creates a contact in the active organization
// @Summary Create contact
// @Description Create a contact with up to 5 custom attributes; the email must be unique within the organization, case-insensitively
// @Tags contacts
// @Accept json
// @Produce json
// @Param organization path string true "Organization slug"
// @Param contact body service.CreateContactRequest true "Contact data"
// @Success 201 {object} service.ContactResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} DuplicateEmailResponse "Duplicate email in organization"
// @Security BearerAuth
// @Router /organizations/{organization}/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionCreateContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contact, err := h.contacts.Create(orgID, userID, &req)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("contact_id", contact.ID).Info("contact created")
	c.JSON(http.StatusCreated, contact)
}

// Get retrieves a contact with its custom attributes
// @Summary Get contact
// @Tags contacts
// @Produce json
// @Param organization path string true "Organization slug"
// @Param id path string true "Contact ID"
// @Success 200 {object} service.ContactResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
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

	contact, err := h.contacts.Get(orgID, contactID)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Update updates a contact and replaces its custom attributes
// @Summary Update contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param organization path string true "Organization slug"
// @Param id path string true "Contact ID"
// @Param contact body service.UpdateContactRequest true "Contact data"
// @Success 200 {object} service.ContactResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} DuplicateEmailResponse "Duplicate email in organization"
// @Security BearerAuth
// @Router /organizations/{organization}/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionEditContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contact, err := h.contacts.Update(orgID, contactID, userID, &req)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("contact_id", contact.ID).Info("contact updated")
	c.JSON(http.StatusOK, contact)
}

// Delete deletes a contact with its attributes and notes
// @Summary Delete contact
// @Tags contacts
// @Produce json
// @Param organization path string true "Organization slug"
// @Param id path string true "Contact ID"
// @Success 204 "Contact deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionDeleteContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.contacts.Delete(orgID, contactID); err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("contact_id", contactID).Info("contact deleted")
	c.Status(http.StatusNoContent)
}

// Duplicate returns a draft copy of a contact for prefilling a create form
// @Summary Duplicate contact
// @Description Return an unsaved copy of the contact; nothing is persisted
// @Tags contacts
// @Produce json
// @Param organization path string true "Organization slug"
// @Param id path string true "Contact ID"
// @Success 200 {object} service.ContactDraft
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/contacts/{id}/duplicate [get]
func (h *ContactHandler) Duplicate(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionCreateContacts); err != nil {
		respondWithError(c, log, err)
		return
	}

	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	draft, err := h.contacts.Duplicate(orgID, contactID)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// principal reads the authenticated user and the resolved active organization
// from the request context.
func principal(c *gin.Context) (userID, orgID uuid.UUID, ok bool) {
	userID, ok = auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return uuid.Nil, uuid.Nil, false
	}
	orgID, ok = middleware.ActiveOrgID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Organization not resolved"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, orgID, true
}

// pathUUID parses a uuid path parameter, responding 400 itself on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}
