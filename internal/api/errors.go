package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated indicates a missing, expired, or revoked token.
var ErrUnauthenticated = errors.New("not authenticated")

// RequestError is a non-success HTTP response carrying the server's
// machine-readable code and human message.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// ClientError reports whether the failure is the caller's fault (4xx).
func (e *RequestError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// TransportError is a network failure or a response the client could not parse.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
