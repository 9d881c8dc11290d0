package http

import (
	"encoding/json"
	"net/http"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorResponse struct {
	Error              string           `json:"error"`
	Details            string           `json:"details,omitempty"`
	Kind               domain.ErrorKind `json:"kind,omitempty"`
	InvitedEmail       string           `json:"invited_email,omitempty"`
	AuthenticatedEmail string           `json:"authenticated_email,omitempty"`
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidCallbackParameters:
		return http.StatusBadRequest
	case domain.KindInvalidToken:
		return http.StatusNotFound
	case domain.KindEmailMismatch:
		return http.StatusForbidden
	case domain.KindGuardianNotRegistered:
		return http.StatusConflict
	case domain.KindMissingPatientReference:
		return http.StatusUnprocessableEntity
	case domain.KindProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
