package auth

import (
	"errors"
	"net/http"

	"github.com/iliyamo/catalog-backend/internal/repository"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token's signature or algorithm
	// does not match the verifier's.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a correctly signed token is past its exp claim.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed is returned when a token cannot be decoded or lacks a subject.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrForbidden is returned by a RoleGate when the account's role is not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrAdminSelfRegistration is returned when a registration asks for the
	// admin role. It is a policy rejection raised before any persistence.
	ErrAdminSelfRegistration = errors.New("admin accounts cannot self-register")

	// ErrValidation is returned for registration input that fails basic checks.
	ErrValidation = errors.New("validation failed")

	// Data layer failures surfaced unchanged so errors.Is works against either name.
	ErrAccountNotFound   = repository.ErrAccountNotFound
	ErrDuplicateEmail    = repository.ErrEmailExists
	ErrRoleNotConfigured = repository.ErrRoleNotConfigured
)

// Outcome is the caller-visible class of an auth failure.
type Outcome int

const (
	OutcomeInternal        Outcome = iota // unexpected failure, 500
	OutcomeInvalid                        // malformed client input, 400
	OutcomeUnauthenticated                // no valid identity, 401
	OutcomeUnauthorized                   // identity lacks permission, 403
	OutcomeConflict                       // duplicate email, 409
	OutcomeMisconfigured                  // server setup problem, 500
)

// Classify maps an error returned by this package to its Outcome.
func Classify(err error) Outcome {
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrAccountNotFound):
		return OutcomeUnauthenticated
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrAdminSelfRegistration):
		return OutcomeUnauthorized
	case errors.Is(err, ErrDuplicateEmail):
		return OutcomeConflict
	case errors.Is(err, ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, ErrRoleNotConfigured):
		return OutcomeMisconfigured
	}
	return OutcomeInternal
}

// HTTPStatus returns the response status for o.
func (o Outcome) HTTPStatus() int {
	switch o {
	case OutcomeInvalid:
		return http.StatusBadRequest
	case OutcomeUnauthenticated:
		return http.StatusUnauthorized
	case OutcomeUnauthorized:
		return http.StatusForbidden
	case OutcomeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
