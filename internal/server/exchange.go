package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdir/internal/auth"
)

// ExchangeHandler is the trusted token-exchange endpoint.
//
// It accepts {code, code_verifier} and answers {access_token}. The client secret stays inside the
// wrapped [auth.Exchanger] and never reaches the CLI.
type ExchangeHandler struct {
	exchanger auth.Exchanger
	logger    *log.Logger
}

// NewExchangeHandler creates an [ExchangeHandler] that delegates to exchanger.
func NewExchangeHandler(exchanger auth.Exchanger, logger *log.Logger) *ExchangeHandler {
	return &ExchangeHandler{exchanger: exchanger, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ExchangeHandler) Routes() []string {
	return []string{"/api/token"}
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (h *ExchangeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method_not_allowed"})
		return
	}

	var req auth.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", Description: "body must be JSON"})
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.CodeVerifier = strings.TrimSpace(req.CodeVerifier)
	if req.Code == "" || req.CodeVerifier == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", Description: "code and code_verifier are required"})
		return
	}

	cred, err := h.exchanger.Exchange(r.Context(), req.Code, req.CodeVerifier)
	if err != nil {
		h.logger.Warn("token exchange failed", "error", err)

		status := http.StatusBadGateway
		var texErr *auth.TokenExchangeError
		if errors.As(err, &texErr) && texErr.Status >= 400 && texErr.Status < 500 {
			status = texErr.Status
		}
		writeJSON(w, status, errorBody{Error: "exchange_failed", Description: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, auth.ExchangeResponse{
		AccessToken: cred.AccessToken,
		TokenType:   cred.TokenType,
		Scope:       cred.Scope,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
