package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/spotdir/internal/shared"
	"golang.org/x/oauth2"
)

// maxErrorBody bounds how much of a failed response body is kept on [TokenExchangeError].
const maxErrorBody = 512

// Credential is the bearer token obtained from a completed login.
type Credential struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	Scope       string    `json:"scope,omitempty"`
	ObtainedAt  time.Time `json:"obtained_at"`
}

// Exchanger trades an authorization code and PKCE verifier for a [Credential].
type Exchanger interface {
	Exchange(ctx context.Context, code, verifier string) (*Credential, error)
}

// TokenExchangeError describes a failed code exchange.
//
// Status is zero when the request never produced a response.
type TokenExchangeError struct {
	Status int
	Body   string
	Err    error
}

func (e *TokenExchangeError) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("%s: status %d: %s", shared.ErrTokenExchange, e.Status, e.Body)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", shared.ErrTokenExchange, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", shared.ErrTokenExchange, e.Err)
	default:
		return shared.ErrTokenExchange.Error()
	}
}

// Unwrap exposes both [shared.ErrTokenExchange] and the underlying cause.
func (e *TokenExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrTokenExchange}
	}
	return []error{shared.ErrTokenExchange, e.Err}
}

// ExchangeRequest is the body posted to a trusted exchange backend.
type ExchangeRequest struct {
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
}

// ExchangeResponse is what a trusted exchange backend returns.
type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

// BackendExchanger posts the code and verifier to a backend that holds the client secret.
type BackendExchanger struct {
	URL        string
	HTTPClient *http.Client
}

// NewBackendExchanger creates a [BackendExchanger]. A nil client means [http.DefaultClient].
func NewBackendExchanger(url string, client *http.Client) *BackendExchanger {
	if client == nil {
		client = http.DefaultClient
	}
	return &BackendExchanger{URL: url, HTTPClient: client}
}

func (b *BackendExchanger) Exchange(ctx context.Context, code, verifier string) (*Credential, error) {
	payload, err := json.Marshal(ExchangeRequest{Code: code, CodeVerifier: verifier})
	if err != nil {
		return nil, &TokenExchangeError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, &TokenExchangeError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return nil, &TokenExchangeError{Err: fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TokenExchangeError{Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TokenExchangeError{Status: resp.StatusCode, Body: snippet(body)}
	}

	var out ExchangeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TokenExchangeError{Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)}
	}
	if out.AccessToken == "" {
		return nil, &TokenExchangeError{
			Status: resp.StatusCode,
			Body:   snippet(body),
			Err:    fmt.Errorf("%w: access_token missing", shared.ErrMalformedResponse),
		}
	}

	return &Credential{
		AccessToken: out.AccessToken,
		TokenType:   out.TokenType,
		Scope:       out.Scope,
		ObtainedAt:  time.Now().UTC(),
	}, nil
}

// DirectExchanger exchanges against the provider token endpoint as a PKCE public client.
type DirectExchanger struct {
	Config     *oauth2.Config
	HTTPClient *http.Client
}

// NewDirectExchanger creates a [DirectExchanger]. A nil client lets oauth2 pick its default.
func NewDirectExchanger(cfg *oauth2.Config, client *http.Client) *DirectExchanger {
	return &DirectExchanger{Config: cfg, HTTPClient: client}
}

func (d *DirectExchanger) Exchange(ctx context.Context, code, verifier string) (*Credential, error) {
	if d.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, d.HTTPClient)
	}

	tok, err := d.Config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return nil, &TokenExchangeError{Status: rerr.Response.StatusCode, Body: snippet(rerr.Body), Err: err}
		}
		return nil, &TokenExchangeError{Err: err}
	}

	return CredentialFromToken(tok), nil
}

// CredentialFromToken converts an [oauth2.Token] into a [Credential].
func CredentialFromToken(tok *oauth2.Token) *Credential {
	cred := &Credential{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ObtainedAt:  time.Now().UTC(),
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	return cred
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
