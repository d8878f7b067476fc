package domain

import "errors"

// Lookup errors
var (
	ErrLeadNotFound        = errors.New("lead not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrTeamNotFound        = errors.New("team not found")
)

// Authorization errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
	ErrForbidden    = errors.New("forbidden")
)

// Constraint errors
var (
	ErrConstraintViolation = errors.New("constraint violation")
)
