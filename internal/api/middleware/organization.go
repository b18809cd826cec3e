package middleware

import (
	"errors"
	"net/http"

	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrgIDKey is the context key the resolved active organization id is stored
// under.
const OrgIDKey = "org_id"

// RequireOrganization resolves the active organization for the request from
// the route slug and the user's memberships, and aborts with 403 when the
// user does not belong to the requested organization. Handlers downstream
// read the resolved id with ActiveOrgID; nothing else writes it.
func RequireOrganization(memberships service.MembershipServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		slug := c.Param("organization")
		orgID, err := memberships.ResolveActiveOrganization(userID, slug)
		if err != nil {
			if apperrors.IsForbidden(err) {
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			} else if errors.Is(err, apperrors.ErrNoOrganization) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no organization available"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve organization"})
			}
			c.Abort()
			return
		}

		c.Set(OrgIDKey, orgID)
		c.Next()
	}
}

// ActiveOrgID returns the organization id resolved for this request.
func ActiveOrgID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(OrgIDKey)
	if !ok {
		return uuid.Nil, false
	}
	orgID, ok := v.(uuid.UUID)
	return orgID, ok
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}
