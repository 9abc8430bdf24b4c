package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx response from the remote API. Callers can
// branch on the code without string matching.
type StatusError struct {
	Code    int
	Op      string
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("gateway: %s: %d %s", e.Op, e.Code, msg)
}

// StatusCode reports the HTTP status carried by the error.
func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// IsNotFound reports whether err is a 404 from the remote API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}
