package domain

import (
	"errors"
	"fmt"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrUnauthenticated = errors.New("authentication required")
var ErrSessionExpired = errors.New("session expired")
var ErrUpstreamUnreachable = errors.New("upstream API unreachable")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidFiliere = errors.New("unknown filiere")
var ErrRoleRequired = errors.New("role must be selected first")
var ErrInvalidTransition = errors.New("invalid export status transition")

// APIError carries a structured error returned by the upstream API.
// Code is the machine-readable detail (e.g. "identifiants_invalides")
// that the message table translates for display.
type APIError struct {
	Status int
	Code   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("upstream API error (status %d)", e.Status)
	}
	return fmt.Sprintf("upstream API error %q (status %d)", e.Code, e.Status)
}

// DecodeError signals that an upstream response did not match the expected
// schema. Failing fast here keeps malformed payloads out of the UI.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
