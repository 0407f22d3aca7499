package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/rs/zerolog/log"
)

// Status maps an error kind onto the HTTP status the API reports for it.
func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.External:
		return http.StatusBadGateway
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Server-side failures are
// logged with their cause; the client only sees the outermost message.
func RespondError(ctx *gin.Context, op string, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msgf("%s: service error", op)
	} else {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msgf("%s: request rejected", op)
	}

	ctx.JSON(status, dto.ErrorResponse{Message: clientMessage(err, status)})
}

func clientMessage(err error, status int) string {
	if status < http.StatusInternalServerError {
		return err.Error()
	}
	var e *apperr.Error
	if status == http.StatusInternalServerError || !errors.As(err, &e) || e.Message == "" {
		return "Internal server error"
	}
	return e.Message
}

// BindError reports a request that failed gin binding.
func BindError(ctx *gin.Context, op string, err error) {
	log.Warn().Err(err).Msgf("%s: failed to bind request", op)
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

// ParseID reads a positive uint path parameter. It writes the 400 response
// itself and returns false when the value is malformed.
func ParseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
