package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/blog-api/internal/apperror"
)

const (
	StatusOK   = "OK"
	StatusFail = "FAIL"
)

// Envelope wraps every response body.
type Envelope struct {
	Status       string      `json:"status"`
	Data         interface{} `json:"data,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: StatusOK, Data: data})
}

// statusFor maps an error kind to an HTTP status and a client facing message.
func statusFor(err error, legacy bool) (int, string) {
	var (
		notFound    *apperror.NotFoundError
		validation  *apperror.ValidationError
		persistence *apperror.PersistenceError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &validation):
		if legacy {
			return http.StatusInternalServerError, validation.Error()
		}
		return http.StatusBadRequest, validation.Error()
	case errors.As(err, &persistence):
		return http.StatusInternalServerError, fmt.Sprintf("Failed to %s.", persistence.Op)
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}
