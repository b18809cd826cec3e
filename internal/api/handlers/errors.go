package handlers

import (
	"errors"
	"net/http"

	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DuplicateEmailResponse is the contract for a blocked duplicate-email write.
type DuplicateEmailResponse struct {
	Code              string `json:"code" example:"DUPLICATE_EMAIL"`
	ExistingContactID string `json:"existing_contact_id"`
}

// respondWithError translates domain errors to HTTP responses. Anything not
// recognized is a 500 with a generic body; the detail goes to the log only.
func respondWithError(c *gin.Context, log *logger.Logger, err error) {
	if dup, ok := apperrors.AsDuplicateEmail(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":                "DUPLICATE_EMAIL",
			"existing_contact_id": dup.ExistingContactID,
		})
		return
	}

	switch {
	case apperrors.IsNotFound(err), errors.Is(err, apperrors.ErrNoOrganization):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case apperrors.IsValidation(err),
		errors.Is(err, apperrors.ErrLastOrganization),
		errors.Is(err, apperrors.ErrOwnerRemoval),
		isValidatorError(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		log.WithField("error", err.Error()).Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func isValidatorError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
