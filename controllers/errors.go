package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

var ErrNoPermission = errors.New("you do not have permission")

// respondServiceError maps a service error onto the error envelope. Internal
// errors are logged and their details are not returned.
func respondServiceError(c *gin.Context, err error) {
	re := services.AsReservationError(err)
	switch re.Kind {
	case services.KindValidation, services.KindIllegalTransition:
		utils.RespondErrorCode(c, http.StatusBadRequest, re.Code, re.Message)
	case services.KindNotFound:
		utils.RespondErrorCode(c, http.StatusNotFound, re.Code, re.Message)
	case services.KindConflict:
		utils.RespondRetryableError(c, http.StatusConflict, re.Code, re.Message)
	default:
		utils.ErrorLogger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Errorf("%s: %v", re.Message, err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}

func respondBindError(c *gin.Context, err error) {
	utils.RespondErrorCode(c, http.StatusBadRequest, utils.CodeInvalidRequest, err.Error())
}

// paramID parses a positive integer path parameter. It writes the error
// response itself and reports false on failure.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondErrorCode(c, http.StatusBadRequest, utils.CodeInvalidRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the authenticated staff id, or 0 for anonymous calls.
func currentUserID(c *gin.Context) uint {
	return c.GetUint(middlewares.ContextUserID)
}
