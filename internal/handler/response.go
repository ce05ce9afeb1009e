package handler

import (
	"errors"
	"net/http"
	"strconv"

	"crowdsight/internal/authz"
	"crowdsight/internal/middleware"
	"crowdsight/internal/service"
	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var errInvalidID = errors.New("id must be a positive integer")

// respondError maps a service error onto the error envelope. Unexpected
// errors are logged and answered with a generic message.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, "Authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		utils.AbortWithError(c, http.StatusForbidden, utils.CodeForbidden, err.Error())
	case errors.Is(err, authz.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		utils.AbortWithError(c, http.StatusNotFound, utils.CodeNotFound, err.Error())
	case errors.Is(err, authz.ErrValidation):
		utils.AbortWithError(c, http.StatusBadRequest, utils.CodeValidation, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		utils.AbortWithError(c, http.StatusConflict, utils.CodeConflict, err.Error())
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.Request.URL.Path,
		}).Error("Unhandled error")
		_ = c.Error(err)
		utils.AbortWithError(c, http.StatusInternalServerError, utils.CodeInternal, "Internal server error")
	}
}

func respondInvalid(c *gin.Context, message string) {
	utils.AbortWithError(c, http.StatusBadRequest, utils.CodeValidation, message)
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondInvalid(c, errInvalidID.Error())
		return 0, false
	}
	return id, true
}
