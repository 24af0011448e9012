package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"resource-board/internal/app"
	"resource-board/internal/transport/http/response"
	"resource-board/internal/validation"
)

// writeError maps a service error onto the wire. Anything it does not
// recognise is logged and answered with a generic 500.
func writeError(c *gin.Context, log logrus.FieldLogger, err error, fallback string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, verr.Message)
	case errors.Is(err, validation.ErrInvalid):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, app.ErrDuplicateEmail):
		response.Error(c, http.StatusConflict, response.CodeEmailExists, "User already exists with this email")
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Not authorized, no token")
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, "User not found")
	case errors.Is(err, app.ErrResourceNotFound):
		response.Error(c, http.StatusNotFound, response.CodeResourceNotFound, "Resource not found")
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error(fallback)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "Server error")
	}
}

func bindError(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Invalid request payload")
}
