package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type OAuthHandler struct {
	verification ports.VerificationService
	log          zerolog.Logger
}

func NewOAuthHandler(verification ports.VerificationService, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{verification: verification, log: log}
}

type exchangeRequest struct {
	Code string `json:"code"`
}

// ExchangeToken trades an authorization code for the provider token
// response. The exchange happens here so the client secret stays
// server-side.
func (h *OAuthHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Code == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "authorization code is required"})
		return
	}

	tokens, err := h.verification.ExchangeCode(r.Context(), req.Code)
	if err != nil {
		var pe *domain.ProviderError
		if errors.As(err, &pe) {
			h.log.Error().Int("status", pe.StatusCode).Str("body", pe.Body).Msg("token exchange rejected")
			respondJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   "Failed to exchange authorization code",
				Details: pe.Details(),
			})
			return
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to exchange authorization code"})
		return
	}

	respondJSON(w, http.StatusOK, tokens)
}
