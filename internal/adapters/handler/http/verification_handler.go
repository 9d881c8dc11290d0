package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type VerificationHandler struct {
	verification ports.VerificationService
	linking      ports.LinkingService
}

func NewVerificationHandler(verification ports.VerificationService, linking ports.LinkingService) *VerificationHandler {
	return &VerificationHandler{verification: verification, linking: linking}
}

type verifyEmailRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// VerifyEmail records that token was verified for email. Intentionally
// permissive: the invite checks run in the completion step, not here.
func (h *VerificationHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Token == "" || req.Email == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Token and email are required"})
		return
	}

	if _, err := h.verification.Record(r.Context(), req.Token, req.Email); err != nil {
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to verify email"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Token required"})
		return
	}

	record, err := h.verification.Status(r.Context(), token)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to look up verification"})
		return
	}
	if record == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Not verified"})
		return
	}

	respondJSON(w, http.StatusOK, record)
}

type completeVerificationRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type completeVerificationResponse struct {
	Status    string `json:"status"`
	PatientID string `json:"patient_id"`
}

// CompleteVerification runs the invite checks and links the guardian to the
// invite's patient.
func (h *VerificationHandler) CompleteVerification(w http.ResponseWriter, r *http.Request) {
	var req completeVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Token == "" || req.Email == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Token and email are required"})
		return
	}

	result, err := h.linking.CompleteVerification(r.Context(), req.Token, req.Email)
	if err != nil {
		var fe *domain.FlowError
		if errors.As(err, &fe) {
			respondJSON(w, statusForKind(fe.Kind), errorResponse{
				Error:              err.Error(),
				Kind:               fe.Kind,
				InvitedEmail:       fe.InvitedEmail,
				AuthenticatedEmail: fe.AuthenticatedEmail,
			})
			return
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to complete verification"})
		return
	}

	respondJSON(w, http.StatusOK, completeVerificationResponse{Status: "linked", PatientID: result.PatientID})
}
