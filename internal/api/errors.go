package api

import (
	"alcyxob/fitcoach/internal/domain"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrBadPayload marks request bodies or query strings the adapters could not
// turn into service input.
var ErrBadPayload = domain.NewError(domain.KindValidation, "BadPayload", "invalid request")

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError maps typed domain errors to their status and message.
// Anything else is a 500 with a generic message; the cause goes to the
// request log through c.Error.
func respondWithError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindDispatch {
		c.AbortWithStatusJSON(statusForKind(de.Kind), gin.H{"error": de.Message, "code": de.Code})
		return
	}
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
}
