package api

import (
	"errors"
	"fmt"
)

// Error represents an EDMS API error response.
type Error struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsStatus checks if the error is an API error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
