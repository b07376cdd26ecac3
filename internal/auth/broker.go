package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdir/internal/models"
	"github.com/desertthunder/spotdir/internal/shared"
	"golang.org/x/oauth2"
)

// State is the position of a [Broker] in the login sequence.
type State int

const (
	Unauthenticated State = iota
	AwaitingCode
	Exchanging
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AwaitingCode:
		return "awaiting_code"
	case Exchanging:
		return "exchanging"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// BrokerOpts configures a [Broker].
type BrokerOpts struct {
	Config    *oauth2.Config
	Store     VerifierStore
	Exchanger Exchanger
	Navigate  shared.Navigator // nil leaves navigation to the caller
	Logger    *log.Logger
}

// Broker runs one PKCE login session.
type Broker struct {
	config    *oauth2.Config
	store     VerifierStore
	exchanger Exchanger
	navigate  shared.Navigator
	logger    *log.Logger

	mu    sync.RWMutex
	state State
}

// NewBroker creates a [Broker] in the Unauthenticated state.
func NewBroker(opts BrokerOpts) *Broker {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}

	return &Broker{
		config:    opts.Config,
		store:     store,
		exchanger: opts.Exchanger,
		navigate:  opts.Navigate,
		logger:    logger,
		state:     Unauthenticated,
	}
}

// State returns the current session state.
func (b *Broker) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Broker) setState(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
}

// BeginLogin persists a fresh verifier and state, builds the authorize URL and navigates to it.
//
// A navigation failure still returns the URL so the caller can present it.
func (b *Broker) BeginLogin(ctx context.Context) (string, error) {
	if b.config == nil {
		return "", fmt.Errorf("%w: oauth2 config is required", shared.ErrMissingConfig)
	}

	pair := NewChallenge()
	if err := b.store.Put(ctx, models.AuthKeyVerifier, pair.Verifier); err != nil {
		return "", fmt.Errorf("failed to persist verifier: %w", err)
	}

	state := shared.GenerateID()
	if err := b.store.Put(ctx, models.AuthKeyState, state); err != nil {
		return "", fmt.Errorf("failed to persist state: %w", err)
	}

	authURL := b.config.AuthCodeURL(state, oauth2.S256ChallengeOption(pair.Verifier))
	b.setState(AwaitingCode)
	b.logger.Debug("login started", "challenge", pair.Challenge)

	if b.navigate != nil {
		if err := b.navigate(authURL); err != nil {
			return authURL, fmt.Errorf("failed to open authorization page: %w", err)
		}
	}

	return authURL, nil
}

// CheckState verifies the state echoed by the authorization redirect.
func (b *Broker) CheckState(ctx context.Context, state string) error {
	expected, ok, err := b.store.Get(ctx, models.AuthKeyState)
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	if !ok || state == "" || state != expected {
		return shared.ErrStateMismatch
	}
	return nil
}

// CompleteLogin trades code and the stored verifier for a [Credential] and persists the access token.
//
// The verifier and state slots are cleared once the exchange has run, whatever its outcome.
func (b *Broker) CompleteLogin(ctx context.Context, code string) (*Credential, error) {
	if code == "" {
		b.setState(Failed)
		return nil, fmt.Errorf("%w: authorization code is empty", shared.ErrAuthorization)
	}

	verifier, ok, err := b.store.Get(ctx, models.AuthKeyVerifier)
	if err != nil {
		b.setState(Failed)
		return nil, fmt.Errorf("failed to read verifier: %w", err)
	}
	if !ok || verifier == "" {
		b.setState(Failed)
		return nil, shared.ErrMissingVerifier
	}

	if b.exchanger == nil {
		b.setState(Failed)
		return nil, fmt.Errorf("%w: no token exchanger configured", shared.ErrMissingConfig)
	}

	b.setState(Exchanging)
	cred, err := b.exchanger.Exchange(ctx, code, verifier)
	if err != nil {
		b.setState(Failed)
		b.clear(ctx, models.AuthKeyVerifier, models.AuthKeyState)

		var texErr *TokenExchangeError
		if !errors.As(err, &texErr) {
			err = &TokenExchangeError{Err: err}
		}
		b.logger.Error("token exchange failed", "error", err)
		return nil, err
	}

	b.clear(ctx, models.AuthKeyVerifier, models.AuthKeyState)
	if err := b.store.Put(ctx, models.AuthKeyAccessToken, cred.AccessToken); err != nil {
		b.setState(Failed)
		return nil, fmt.Errorf("failed to persist access token: %w", err)
	}

	b.setState(Authenticated)
	b.logger.Info("login complete", "scope", cred.Scope)
	return cred, nil
}

// AccessToken returns the persisted access token from a previous login.
func (b *Broker) AccessToken(ctx context.Context) (string, error) {
	token, ok, err := b.store.Get(ctx, models.AuthKeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to read access token: %w", err)
	}
	if !ok || token == "" {
		return "", shared.ErrNotAuthenticated
	}
	return token, nil
}

// Logout clears every session slot and resets the broker.
func (b *Broker) Logout(ctx context.Context) error {
	for _, key := range []string{models.AuthKeyVerifier, models.AuthKeyState, models.AuthKeyAccessToken} {
		if err := b.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	b.setState(Unauthenticated)
	return nil
}

func (b *Broker) clear(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := b.store.Delete(ctx, key); err != nil {
			b.logger.Warn("failed to clear auth slot", "key", key, "error", err)
		}
	}
}
