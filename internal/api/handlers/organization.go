package handlers

import (
	"net/http"

	"contact-directory-backend/internal/auth"
	"contact-directory-backend/internal/logger"
	"contact-directory-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrganizationHandler handles organization lifecycle and membership endpoints
type OrganizationHandler struct {
	organizations service.OrganizationServiceInterface
	memberships   service.MembershipServiceInterface
	gate          service.AuthorizerInterface
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(
	organizations service.OrganizationServiceInterface,
	memberships service.MembershipServiceInterface,
	gate service.AuthorizerInterface,
) *OrganizationHandler {
	return &OrganizationHandler{
		organizations: organizations,
		memberships:   memberships,
		gate:          gate,
	}
}

// Create creates a new organization owned by the caller
// @Summary Create organization
// @Description Create an organization; the caller becomes its owner and admin, and it becomes their active organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body service.CreateOrganizationRequest true "Organization data"
// @Success 201 {object} service.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req service.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.organizations.Create(userID, &req)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("organization_id", org.ID).Info("organization created")
	c.JSON(http.StatusCreated, org)
}

// Get retrieves an organization by slug
// @Summary Get organization
// @Tags organizations
// @Produce json
// @Param organization path string true "Organization slug"
// @Success 200 {object} service.OrganizationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization} [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	org, err := h.organizations.GetBySlug(userID, c.Param("organization"))
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

// Update updates an organization's name and slug
// @Summary Update organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization path string true "Organization slug"
// @Param organization body service.UpdateOrganizationRequest true "Organization data"
// @Success 200 {object} service.OrganizationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization} [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionManageOrganization); err != nil {
		respondWithError(c, log, err)
		return
	}

	var req service.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.organizations.Update(userID, orgID, &req)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("organization_id", org.ID).Info("organization updated")
	c.JSON(http.StatusOK, org)
}

// Delete deletes an organization and everything it owns
// @Summary Delete organization
// @Tags organizations
// @Produce json
// @Param organization path string true "Organization slug"
// @Success 204 "Organization deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization} [delete]
func (h *OrganizationHandler) Delete(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionManageOrganization); err != nil {
		respondWithError(c, log, err)
		return
	}

	if err := h.organizations.Delete(userID, orgID); err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("organization_id", orgID).Info("organization deleted")
	c.Status(http.StatusNoContent)
}

// Switch makes the given organization the caller's active one
// @Summary Switch active organization
// @Tags organizations
// @Produce json
// @Param organization path string true "Organization slug"
// @Success 200 {object} service.OrganizationResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/switch [post]
func (h *OrganizationHandler) Switch(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	org, err := h.memberships.SwitchOrganization(userID, c.Param("organization"))
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithField("organization_id", org.ID).Info("active organization switched")
	c.JSON(http.StatusOK, org)
}

// InviteMember attaches an existing user to the organization
// @Summary Invite a user
// @Description Attach an existing user to the organization with a role
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization path string true "Organization slug"
// @Param invite body service.InviteUserRequest true "Invite data"
// @Success 201 {object} service.MembershipResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/members [post]
func (h *OrganizationHandler) InviteMember(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionInviteUsers); err != nil {
		respondWithError(c, log, err)
		return
	}

	var req service.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	membership, err := h.organizations.InviteUser(orgID, &req)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithFields(map[string]interface{}{
		"organization_id": orgID,
		"invited_email":   req.Email,
	}).Info("user invited to organization")
	c.JSON(http.StatusCreated, membership)
}

// RemoveMember detaches a user from the organization
// @Summary Remove a member
// @Tags organizations
// @Produce json
// @Param organization path string true "Organization slug"
// @Param user_id path string true "User ID"
// @Success 204 "Membership removed"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization}/members/{user_id} [delete]
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, orgID, ok := principal(c)
	if !ok {
		return
	}

	if err := h.gate.Authorize(userID, orgID, service.ActionRemoveUsers); err != nil {
		respondWithError(c, log, err)
		return
	}

	memberID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID format"})
		return
	}

	if err := h.organizations.RemoveUser(orgID, memberID); err != nil {
		respondWithError(c, log, err)
		return
	}

	log.WithFields(map[string]interface{}{
		"organization_id": orgID,
		"removed_user_id": memberID,
	}).Info("user removed from organization")
	c.Status(http.StatusNoContent)
}
