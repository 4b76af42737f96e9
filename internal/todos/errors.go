package todos

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse matches every *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError reports a network failure or a non-success HTTP status.
// StatusCode is zero when no response was received.
type TransportError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: api %s %s returned status %d", e.Op, e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// MalformedResponseError reports a response body that could not be decoded
// or that broke the record contract.
type MalformedResponseError struct {
	Op   string
	Path string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response from %s: %v", e.Op, e.Path, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }
