package domain

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a terminal verification failure. Every kind maps to
// its own user-facing message and remediation text.
type ErrorKind string

const (
	KindProviderError             ErrorKind = "provider_error"
	KindInvalidToken              ErrorKind = "invalid_token"
	KindEmailMismatch             ErrorKind = "email_mismatch"
	KindMissingPatientReference   ErrorKind = "missing_patient"
	KindGuardianNotRegistered     ErrorKind = "guardian_not_registered"
	KindInvalidCallbackParameters ErrorKind = "invalid_callback_parameters"
	KindUnexpected                ErrorKind = "unexpected_error"
)

// FlowError is a categorized, terminal failure of a verification attempt.
// InvitedEmail and AuthenticatedEmail are set only for email mismatches so
// the user can self-correct.
type FlowError struct {
	Kind               ErrorKind
	InvitedEmail       string
	AuthenticatedEmail string
	Err                error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *FlowError) Unwrap() error { return e.Err }

// NewFlowError wraps err with a kind.
func NewFlowError(kind ErrorKind, err error) *FlowError {
	return &FlowError{Kind: kind, Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to KindUnexpected.
func KindOf(err error) ErrorKind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return KindProviderError
	}
	return KindUnexpected
}

// ProviderError is a failed call to the identity provider. Body carries the
// provider response for server-side diagnosis; it never contains the client
// secret.
type ProviderError struct {
	Op         string // "exchange", "userinfo" or "id_token"
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("provider %s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Details is what the API surfaces to the client about a provider failure.
func (e *ProviderError) Details() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "provider unreachable"
}

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrGuardianNotFound      = errors.New("guardian not found")
	ErrVerificationNotFound  = errors.New("verification not found")
	ErrMissingPatientID      = errors.New("invitation has no patient reference")
	ErrEmailNotInvited       = errors.New("authenticated email does not match invited email")
	ErrMissingCallbackParams = errors.New("missing code or state parameter")
)
