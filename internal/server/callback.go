package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/spotdir/internal/auth"
	"github.com/desertthunder/spotdir/internal/shared"
)

// LoginCompleter finishes a PKCE login from the redirect parameters. [auth.Broker] implements it.
type LoginCompleter interface {
	CheckState(ctx context.Context, state string) error
	CompleteLogin(ctx context.Context, code string) (*auth.Credential, error)
}

// CallbackResult contains the result of an authorization redirect.
type CallbackResult struct {
	Credential *auth.Credential
	err        error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler receives the authorization redirect and completes the login.
//
// Only the first request carrying a valid state is processed. Later requests are rejected so a code cannot be replayed.
type CallbackHandler struct {
	completer   LoginCompleter
	resultChan  chan CallbackResult
	once        sync.Once
	mu          sync.Mutex
	callbackHit bool
}

// NewCallbackHandler creates a new [CallbackHandler] backed by completer.
func NewCallbackHandler(completer LoginCompleter) *CallbackHandler {
	return &CallbackHandler{
		completer:  completer,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP validates state, completes the login, and publishes the result.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.processed() {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()

	// A stray request with a bad state leaves the handler armed for the real redirect.
	if err := h.completer.CheckState(r.Context(), query.Get("state")); err != nil {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if !h.claim() {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: %s - %s", shared.ErrAuthorization, query.Get("error"), query.Get("error_description"))
		h.Send(CallbackResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	cred, err := h.completer.CompleteLogin(r.Context(), code)
	if err != nil {
		h.Send(CallbackResult{err: err})
		http.Error(w, "Token exchange failed", http.StatusBadGateway)
		return
	}

	h.Send(CallbackResult{Credential: cred})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = successPage.Execute(w, nil)
}

func (h *CallbackHandler) processed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.callbackHit
}

// claim marks the callback as taken, reporting false when another request got there first.
func (h *CallbackHandler) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.callbackHit {
		return false
	}
	h.callbackHit = true
	return true
}

// Send publishes the result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving login completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>spotdir: logged in</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Logged in to Spotify</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`))
