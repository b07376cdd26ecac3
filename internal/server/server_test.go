package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/spotdir/internal/auth"
	"github.com/desertthunder/spotdir/internal/shared"
)

type stubCompleter struct {
	state    string
	cred     *auth.Credential
	err      error
	complete int
}

func (s *stubCompleter) CheckState(_ context.Context, state string) error {
	if state != s.state {
		return shared.ErrStateMismatch
	}
	return nil
}

func (s *stubCompleter) CompleteLogin(_ context.Context, code string) (*auth.Credential, error) {
	s.complete++
	return s.cred, s.err
}

type stubExchanger struct {
	cred *auth.Credential
	err  error
}

func (s *stubExchanger) Exchange(_ context.Context, code, verifier string) (*auth.Credential, error) {
	return s.cred, s.err
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		completer := &stubCompleter{state: "s1", cred: &auth.Credential{AccessToken: "tok"}}
		handler := NewCallbackHandler(completer)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Logged in") {
			t.Error("expected success page")
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Credential.AccessToken != "tok" {
			t.Errorf("unexpected credential %+v", result.Credential)
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		completer := &stubCompleter{state: "s1", cred: &auth.Credential{AccessToken: "tok"}}
		handler := NewCallbackHandler(completer)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if completer.complete != 0 {
			t.Error("login must not complete on state mismatch")
		}
		select {
		case result := <-handler.Result():
			t.Fatalf("state mismatch must not publish a result, got %+v", result)
		default:
		}

		t.Run("Handler Stays Armed", func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200 for the genuine redirect, got %d", rec.Code)
			}
			result := <-handler.Result()
			if result.Error() != nil || result.Credential.AccessToken != "tok" {
				t.Errorf("unexpected result %+v", result)
			}
			if completer.complete != 1 {
				t.Errorf("expected one completion, got %d", completer.complete)
			}
		})
	})

	t.Run("Provider Denied", func(t *testing.T) {
		handler := NewCallbackHandler(&stubCompleter{state: "s1"})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&error=access_denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-handler.Result()
		if !shared.IsAuthorization(result.Error()) || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected authorization error with reason, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		handler := NewCallbackHandler(&stubCompleter{state: "s1", err: &auth.TokenExchangeError{Status: 400}})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange, got %v", result.Error())
		}
	})

	t.Run("Only Once", func(t *testing.T) {
		completer := &stubCompleter{state: "s1", cred: &auth.Credential{AccessToken: "tok"}}
		handler := NewCallbackHandler(completer)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))
		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected replay to be rejected, got %d", second.Code)
		}
		if completer.complete != 1 {
			t.Errorf("expected one completion, got %d", completer.complete)
		}
	})
}

func TestExchangeHandler(t *testing.T) {
	post := func(h http.Handler, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(body)))
		return rec
	}
	logger := shared.NewLogger(io.Discard)

	t.Run("Success", func(t *testing.T) {
		h := NewExchangeHandler(&stubExchanger{cred: &auth.Credential{AccessToken: "tok", TokenType: "Bearer"}}, logger)
		rec := post(h, `{"code":"c","code_verifier":"v"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp auth.ExchangeResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp.AccessToken != "tok" {
			t.Errorf("unexpected response %+v", resp)
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Error("expected no-store")
		}
	})

	t.Run("Bad Requests", func(t *testing.T) {
		h := NewExchangeHandler(&stubExchanger{}, logger)
		for _, body := range []string{`not json`, `{"code":"c"}`, `{"code_verifier":"v"}`} {
			if rec := post(h, body); rec.Code != http.StatusBadRequest {
				t.Errorf("body %q: expected 400, got %d", body, rec.Code)
			}
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		h := NewExchangeHandler(&stubExchanger{}, logger)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/token", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Upstream Rejects Code", func(t *testing.T) {
		h := NewExchangeHandler(&stubExchanger{err: &auth.TokenExchangeError{Status: 400, Body: "invalid_grant"}}, logger)
		if rec := post(h, `{"code":"c","code_verifier":"v"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("expected upstream 400 to pass through, got %d", rec.Code)
		}
	})

	t.Run("Upstream Unreachable", func(t *testing.T) {
		h := NewExchangeHandler(&stubExchanger{err: &auth.TokenExchangeError{Err: errors.New("dial tcp")}}, logger)
		if rec := post(h, `{"code":"c","code_verifier":"v"}`); rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("Round Trip With BackendExchanger", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewExchangeHandler(&stubExchanger{cred: &auth.Credential{AccessToken: "tok"}}, logger))
		server := httptest.NewServer(router)
		defer server.Close()

		cred, err := auth.NewBackendExchanger(server.URL+"/api/token", server.Client()).Exchange(context.Background(), "c", "v")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cred.AccessToken != "tok" {
			t.Errorf("unexpected credential %+v", cred)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("expected Allow header, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("Routes", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewCallbackHandler(&stubCompleter{}))
		router.Handler(NewExchangeHandler(&stubExchanger{}, shared.NewLogger(io.Discard)))

		routes := router.Routes()
		if strings.Join(routes, ",") != "/api/token,/callback" {
			t.Errorf("unexpected routes %v", routes)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})

	t.Run("Logging Middleware", func(t *testing.T) {
		var buf bytes.Buffer
		router := NewBasicRouter()
		router.Use(LoggingMiddleware(shared.NewLogger(&buf)))
		router.Handle(http.MethodGet, "/callback", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=secret", nil))

		out := buf.String()
		if !strings.Contains(out, "/callback") || !strings.Contains(out, "418") {
			t.Errorf("expected path and status in log, got %q", out)
		}
		if strings.Contains(out, "secret") {
			t.Error("query string must not be logged")
		}
	})

	t.Run("Max Body", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(MaxBodyMiddleware(8))
		router.Handler(NewExchangeHandler(&stubExchanger{cred: &auth.Credential{AccessToken: "t"}}, shared.NewLogger(io.Discard)))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(`{"code":"c","code_verifier":"v"}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected oversized body to be rejected, got %d", rec.Code)
		}
	})
}
