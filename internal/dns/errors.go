package dns

import (
	"errors"
	"fmt"
)

// ErrZoneNotFound is returned when the API reports that a zone does not exist.
var ErrZoneNotFound = errors.New("zone not found")

// TransportError reports that an API call failed before a response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a structured error returned by the API in place of the
// expected resource.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Message)
}
