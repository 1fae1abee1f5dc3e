package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested entity does not exist on the
// service. Callers surface it as an explicit empty/absent state.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response from the service.
type StatusError struct {
	Operation string
	Status    int
	Body      string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: service returned %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s: service returned %d: %s", e.Operation, e.Status, e.Body)
}

// InvalidPayloadError marks a response body that failed schema validation
// or could not be decoded. Callers treat it like a transport failure: the
// triggering transition is abandoned with no partial state.
type InvalidPayloadError struct {
	Operation string
	Err       error
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("%s: invalid response payload: %v", e.Operation, e.Err)
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Err
}
