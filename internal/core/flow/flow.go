// Package flow models the verification journey a guardian walks through:
// a strictly sequential pass from the invite landing page, out to the
// provider, back through the callback, and into a terminal screen. The only
// cycle is an explicit user retry.
package flow

import (
	"errors"
	"fmt"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

type State string

const (
	StateIdle                     State = "idle"
	StateAwaitingProviderRedirect State = "awaiting_provider_redirect"
	StateProcessingCallback       State = "processing_callback"
	StateVerified                 State = "verified"
	StateFailed                   State = "failed"
)

type Event string

const (
	EventVerifyRequested  Event = "verify_requested"
	EventCallbackReceived Event = "callback_received"
	EventSucceeded        Event = "succeeded"
	EventFailed           Event = "failed"
	EventRetry            Event = "retry"
)

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventVerifyRequested: StateAwaitingProviderRedirect,
	},
	StateAwaitingProviderRedirect: {
		EventCallbackReceived: StateProcessingCallback,
	},
	StateProcessingCallback: {
		EventSucceeded: StateVerified,
		EventFailed:    StateFailed,
	},
	StateFailed: {
		EventRetry: StateIdle,
	},
}

// Next applies an event to a state. Undefined transitions are an error;
// StateVerified accepts nothing.
func Next(s State, ev Event) (State, error) {
	next, ok := transitions[s][ev]
	if !ok {
		return s, fmt.Errorf("no transition from %q on %q", s, ev)
	}
	return next, nil
}

// Outcome is a terminal (or intermediate) flow rendering: the state plus
// everything the user-facing layer needs to display it.
type Outcome struct {
	State              State            `json:"state"`
	Token              string           `json:"token,omitempty"`
	Email              string           `json:"email,omitempty"`
	PatientID          string           `json:"patient_id,omitempty"`
	Kind               domain.ErrorKind `json:"kind,omitempty"`
	Message            string           `json:"message,omitempty"`
	Remediation        string           `json:"remediation,omitempty"`
	InvitedEmail       string           `json:"invited_email,omitempty"`
	AuthenticatedEmail string           `json:"authenticated_email,omitempty"`
	AuthorizationURL   string           `json:"authorization_url,omitempty"`
	RetryURL           string           `json:"retry_url,omitempty"`
}

// Verified builds the terminal success outcome.
func Verified(token, email, patientID string) Outcome {
	return Outcome{
		State:     StateVerified,
		Token:     token,
		Email:     email,
		PatientID: patientID,
		Message:   "Your email has been successfully verified as a guardian.",
	}
}

// Failed builds the terminal failure outcome for err, keeping the original
// token so the retry affordance can preserve it.
func Failed(token string, err error) Outcome {
	kind := domain.KindOf(err)
	out := Outcome{
		State:   StateFailed,
		Token:   token,
		Kind:    kind,
		Message: messages[kind],
	}
	if fe := flowError(err); fe != nil {
		out.InvitedEmail = fe.InvitedEmail
		out.AuthenticatedEmail = fe.AuthenticatedEmail
	}
	out.Remediation = remediation(kind, out.InvitedEmail, out.AuthenticatedEmail)
	return out
}

// RetryPreservesToken reports whether retrying with the same token can ever
// succeed. An invalid token or an unregistered guardian needs out-of-band
// action first.
func RetryPreservesToken(kind domain.ErrorKind) bool {
	switch kind {
	case domain.KindInvalidToken, domain.KindGuardianNotRegistered:
		return false
	}
	return true
}

var messages = map[domain.ErrorKind]string{
	domain.KindProviderError:             "Signing in with Google failed.",
	domain.KindInvalidToken:              "This invitation link is invalid or has expired.",
	domain.KindEmailMismatch:             "The email you verified with doesn't match the invited email address.",
	domain.KindMissingPatientReference:   "Patient information is missing from this invitation.",
	domain.KindGuardianNotRegistered:     "No guardian account is registered for this email.",
	domain.KindInvalidCallbackParameters: "Invalid or missing authentication parameters.",
	domain.KindUnexpected:                "An unexpected error occurred during verification.",
}

func remediation(kind domain.ErrorKind, invited, authenticated string) string {
	switch kind {
	case domain.KindInvalidToken:
		return "Please ask the patient or administrator to send you a new invitation."
	case domain.KindEmailMismatch:
		return fmt.Sprintf(
			"You signed in with %s, but this invitation was sent to %s. Sign in with the invited address, or ask for a new invitation to be sent to your current email.",
			authenticated, invited,
		)
	case domain.KindMissingPatientReference:
		return "There was an issue with the patient information in this invitation. Contact the person who invited you."
	case domain.KindGuardianNotRegistered:
		return "Create an account first on Smart Wearable, then come back to this link for acceptance."
	case domain.KindInvalidCallbackParameters:
		return "Return to the invitation link and start the verification again."
	case domain.KindProviderError:
		return "Try signing in with Google again. If the problem persists, request a fresh invitation link."
	default:
		return "Please try again later or contact support."
	}
}

func flowError(err error) *domain.FlowError {
	var fe *domain.FlowError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
