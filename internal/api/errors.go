package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/recipedium/backend/internal/types"
)

// statusFor maps error codes to HTTP statuses in one place. Conflicts
// (duplicate email, double like) and failed credential checks are client
// errors the caller can correct, so they surface as 400 like the validation
// class. Missing or invalid tokens never reach here; the auth middleware
// responds 401 directly.
func statusFor(code string) int {
	switch code {
	case types.CodeValidation, types.CodeConflict, types.CodeCredentials:
		return http.StatusBadRequest
	case types.CodeAuthorization:
		return http.StatusForbidden
	case types.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error response for a service error. Internal
// errors are logged and reported with a generic message; detail is included
// only in development mode.
func respondError(c *gin.Context, log *logrus.Logger, development bool, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		appErr = types.NewInternalError(err)
	}

	status := statusFor(appErr.Code)
	body := gin.H{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}

	if appErr.Code == types.CodeInternal {
		log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(appErr.Err).Error("request failed")
		if development && appErr.Err != nil {
			body["detail"] = appErr.Err.Error()
		}
	}

	c.JSON(status, body)
}

// bindError turns gin binding failures into the structured per-field shape,
// so malformed auth payloads report every invalid field at once.
func bindError(err error) *types.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &types.AppError{
			Code:    types.CodeValidation,
			Message: "Invalid request body",
		}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// Struct field names fold directly onto the json names here.
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "This field is required"
		case "email":
			fields[name] = "Must be a valid email address"
		case "min":
			fields[name] = "Must be at least " + fe.Param() + " characters"
		case "max":
			fields[name] = "Must be at most " + fe.Param() + " characters"
		default:
			fields[name] = "Invalid value"
		}
	}
	return types.NewValidationError(fields)
}
