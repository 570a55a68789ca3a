package hue

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned by operations the bridge supports but this client does not
	// model yet (scene recall).
	ErrNotImplemented = errors.New("hue: operation not implemented")

	// ErrDeleted is returned when an operation is attempted on an entity after Delete succeeded.
	ErrDeleted = errors.New("hue: entity was deleted")

	// ErrInvalidID is returned before any request when an identifier cannot name a single resource.
	ErrInvalidID = errors.New("hue: invalid identifier")

	// ErrMissingField is wrapped by DecodeError when a response lacks a required field.
	ErrMissingField = errors.New("missing required field")
)

// TransportError means the call to the bridge did not complete: connectivity, TLS, timeout or a
// non-success HTTP status.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("hue: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the response body did not have the expected resource shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("hue: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// asTransportError wraps err unless it already is a TransportError.
func asTransportError(method, path string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Method: method, Path: path, Err: err}
}
