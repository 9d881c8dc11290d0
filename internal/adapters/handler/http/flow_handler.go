package http

import (
	"net/http"
	"net/url"

	"github.com/smartwearable/guardian-verify/internal/core/flow"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

// FlowHandler drives the verification journey over HTTP: the invite landing
// step, the hand-off to the provider, and the callback that completes (or
// fails) the attempt.
type FlowHandler struct {
	flow ports.FlowService
}

func NewFlowHandler(flowService ports.FlowService) *FlowHandler {
	return &FlowHandler{flow: flowService}
}

// Landing renders the idle step for the token in the query string, including
// the authorization URL the client should navigate to.
func (h *FlowHandler) Landing(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Token required"})
		return
	}

	respondJSON(w, http.StatusOK, h.flow.Begin(token))
}

// Start navigates the browser to the provider. This transition cannot fail
// locally; the redirect is unconditional.
func (h *FlowHandler) Start(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Token required"})
		return
	}

	outcome := h.flow.Begin(token)
	http.Redirect(w, r, outcome.AuthorizationURL, http.StatusFound)
}

// Callback receives the provider redirect and runs the whole verification
// sequence. Every outcome, success or failure, carries a retry URL that
// preserves the original token.
func (h *FlowHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	outcome := h.flow.HandleCallback(r.Context(), code, state)
	if outcome.State == flow.StateFailed {
		outcome.RetryURL = retryURL(outcome.Token)
		respondJSON(w, statusForKind(outcome.Kind), outcome)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func retryURL(token string) string {
	if token == "" {
		return "/verify"
	}
	return "/verify?token=" + url.QueryEscape(token)
}
