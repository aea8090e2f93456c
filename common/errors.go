package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"paperpaints/logs"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Error is an expected failure with a status and a message that is safe to
// show to the client.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

func NotFound() *Error {
	return &Error{Status: http.StatusNotFound, Message: "Not found"}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

func Misconfigured(msg string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// Respond writes err as {"error": message}. Anything that is not an
// expected failure is logged with the route and answered with fallback.
func Respond(c *gin.Context, err error, fallback string) {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr) && apiErr.Status != http.StatusInternalServerError:
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	case errors.Is(err, ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Record already exists"})
		return
	}

	logs.Logger.WithFields(logrus.Fields{
		"reqid":  RequestIDFrom(c),
		"method": c.Request.Method,
		"route":  c.FullPath(),
	}).WithError(err).Error(fallback)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
