package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAnonymous indicates no authenticated identity on the request.
	ErrAnonymous = errors.New("anonymous")
	// ErrForbidden indicates the actor is not entitled to the resource.
	ErrForbidden = errors.New("forbidden")
)
