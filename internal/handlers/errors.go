// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/keebmarket-backend/internal/i18n"
	"github.com/javajoker/keebmarket-backend/internal/services"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

// respondError maps a service error onto a status code and envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var fieldErrs validator.ValidationErrors
	var verr *services.ValidationError

	switch {
	case errors.As(err, &fieldErrs):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(fieldErrs))
	case errors.As(err, &verr):
		utils.ValidationErrorResponse(c, []utils.ValidationError{{
			Field:   verr.Field,
			Tag:     "invalid",
			Message: verr.Error(),
		}})
	case errors.Is(err, services.ErrListingNotFound):
		utils.NotFoundResponse(c, i18n.KeyListingNotFound)
	case errors.Is(err, services.ErrProfileNotFound):
		utils.NotFoundResponse(c, i18n.KeyUserNotFound)
	case errors.Is(err, services.ErrUsernameTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyUsernameTaken))
	case errors.Is(err, services.ErrUsernameImmutable):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUsernameImmutable), nil)
	case errors.Is(err, services.ErrUsernameRequired):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUsernameRequired), nil)
	case errors.Is(err, services.ErrProfileIncomplete):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProfileIncomplete), nil)
	case errors.Is(err, services.ErrNoContactMethod):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyContactMethodRequired), nil)
	case errors.Is(err, services.ErrInvalidImage):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)
	case errors.Is(err, services.ErrImageTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
	case errors.Is(err, services.ErrTooManyImages):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooMany), nil)
	default:
		_ = c.Error(err)
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c)
	}
}

// currentUserID reads the authenticated identity set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthInvalidToken))
		return uuid.Nil, false
	}
	return userID, true
}

func bindError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
}
