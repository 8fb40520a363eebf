// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/isows-india/worklicense-backend/internal/i18n"
	"github.com/isows-india/worklicense-backend/internal/models"
	"github.com/isows-india/worklicense-backend/internal/services"
	"github.com/isows-india/worklicense-backend/internal/utils"
)

// respondError maps service errors onto the API envelope. resource names
// the i18n namespace used for not-found messages.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	var validationErr *services.ValidationError
	var rejected *services.PlagiarismRejectedError

	switch {
	case errors.As(err, &validationErr):
		utils.ValidationErrorResponse(c, []utils.ValidationError{{
			Field:   validationErr.Field,
			Tag:     "invalid",
			Message: validationErr.Message,
		}})
	case errors.As(err, &rejected):
		utils.UnprocessableResponse(c, "PLAGIARISM_DETECTED", i18n.T(lang, i18n.KeyWorkPlagiarismDetected), rejected.Result)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrWorkLicensed):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyWorkLicensed))
	case errors.Is(err, services.ErrUnsupportedFormat):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyWorkUnsupportedFormat), nil)
	case errors.Is(err, services.ErrFileTooLarge):
		utils.PayloadTooLargeResponse(c, i18n.T(lang, i18n.KeyWorkFileTooLarge))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

func parseIDParam(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// malformed ids cannot exist
		utils.NotFoundResponse(c, resource)
		return uuid.Nil, false
	}
	return id, true
}

func requireIdentity(c *gin.Context) (*models.Identity, bool) {
	identity, ok := utils.GetIdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthRequired))
		return nil, false
	}
	return identity, true
}
