package handlers

import (
	"errors"
	"net/http"

	"contact-directory-backend/internal/auth"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/logger"
	"contact-directory-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MeHandler handles endpoints about the authenticated user
type MeHandler struct {
	memberships service.MembershipServiceInterface
}

// NewMeHandler creates a new me handler
func NewMeHandler(memberships service.MembershipServiceInterface) *MeHandler {
	return &MeHandler{memberships: memberships}
}

// MeResponse represents the authenticated user and their active organization
type MeResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	ActiveOrganizationID *uuid.UUID `json:"active_organization_id,omitempty"`
}

// Me returns the authenticated user's profile and active organization
// @Summary Current user
// @Tags me
// @Produce json
// @Success 200 {object} MeResponse
// @Security BearerAuth
// @Router /me [get]
func (h *MeHandler) Me(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	resp := MeResponse{
		ID:    userID,
		Name:  c.GetString("name"),
		Email: c.GetString("email"),
	}

	orgID, err := h.memberships.ResolveActiveOrganization(userID, "")
	if err == nil {
		resp.ActiveOrganizationID = &orgID
	} else if !errors.Is(err, apperrors.ErrNoOrganization) {
		respondWithError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Organizations lists the organizations the authenticated user belongs to
// @Summary Current user's organizations
// @Tags me
// @Produce json
// @Success 200 {array} service.MembershipResponse
// @Security BearerAuth
// @Router /me/organizations [get]
func (h *MeHandler) Organizations(c *gin.Context) {
	log := logger.FromGinContext(c)

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	memberships, err := h.memberships.ListMemberships(userID)
	if err != nil {
		respondWithError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, memberships)
}
