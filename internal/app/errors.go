package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rawen554/mijikaku/internal/logic"
	"github.com/rawen554/mijikaku/internal/models"
)

const internalErrorMessage = "Internal Server Error"

func statusFor(kind logic.Kind) int {
	switch kind {
	case logic.KindInvalidURL:
		return http.StatusUnprocessableEntity
	case logic.KindNotFound:
		return http.StatusNotFound
	case logic.KindStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with the JSON body {message, status_code}.
func (a *App) writeError(c *gin.Context, err error) {
	var appErr *logic.Error
	if !errors.As(err, &appErr) {
		a.logger.Errorf("unclassified error: %v", err)
		abortWithError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	abortWithError(c, statusFor(appErr.Kind), appErr.Message)
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, models.APIError{
		Message:    message,
		StatusCode: code,
	})
}
