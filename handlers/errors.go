package handlers

import (
	"context"
	"errors"
	"net/http"

	"viyarschedule/database"
	"viyarschedule/services/normalize"
	"viyarschedule/services/schedule"
	"viyarschedule/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, schedule.ErrInvalidArgument), errors.Is(err, normalize.ErrInvalidDate):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, database.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, notFoundMsg, "")
	case errors.Is(err, database.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		utils.JSONError(c, http.StatusServiceUnavailable, "Storage temporarily unavailable", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
