package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/spotdir/internal/models"
	"github.com/desertthunder/spotdir/internal/server"
	"github.com/desertthunder/spotdir/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	loginTimeout    = 2 * time.Minute
	shutdownTimeout = 5 * time.Second
)

// AuthLogin performs the PKCE authorization flow for Spotify.
//
// Starts a local HTTP server on the redirect address, opens the browser for user authorization, and completes
// the login when the redirect arrives. With --manual no server is started and the login is finished later by
// [Runner.AuthComplete].
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	manual := cmd.Bool("manual")

	navigate := r.navigate
	if manual || cmd.Bool("no-browser") {
		navigate = nil
	}

	broker, err := r.broker(navigate)
	if err != nil {
		return err
	}

	if manual {
		authURL, err := broker.BeginLogin(ctx)
		if err != nil {
			return err
		}
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
		r.writePlain("After approving, copy the code and state parameters from the redirect URL and run:\n")
		r.writePlain("  spotdir auth complete --code <code> --state <state>\n")
		return nil
	}

	handler := server.NewCallbackHandler(broker)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(shared.WithLogger(r.logger, "component", "callback")))
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	listener, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serverAddr, err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	if navigate != nil {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
	}
	authURL, err := broker.BeginLogin(ctx)
	switch {
	case authURL == "":
		return err
	case err != nil:
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	case navigate == nil:
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = loginTimeout
	}
	r.writePlain("→ Waiting for authorization (%v timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	if result.Error() != nil {
		return fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Credential == nil {
		return fmt.Errorf("%w: no token received", shared.ErrTokenExchange)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", r.config.Database.Path)
	r.writePlain("You can now use: spotdir sync run <folder>\n")
	return nil
}

// AuthComplete finishes a login started with `auth login --manual`.
func (r *Runner) AuthComplete(ctx context.Context, cmd *cli.Command) error {
	broker, err := r.broker(nil)
	if err != nil {
		return err
	}

	if state := cmd.String("state"); state != "" {
		if err := broker.CheckState(ctx, state); err != nil {
			return err
		}
	}

	if _, err := broker.CompleteLogin(ctx, cmd.String("code")); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	return r.writePlain("✓ Authorization successful\n")
}

// AuthStatus reports whether an access token is stored and whether a login is pending.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	broker, err := r.broker(nil)
	if err != nil {
		return err
	}

	token, err := broker.AccessToken(ctx)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		r.writePlain("Authentication: ✗ Not authenticated\n")
	case err != nil:
		return err
	default:
		r.writePlain("Authentication: ✓ Authenticated (token %s)\n", maskToken(token))
	}

	store, err := r.authStore()
	if err != nil {
		return err
	}
	if _, pending, err := store.Get(ctx, models.AuthKeyVerifier); err == nil && pending {
		r.writePlain("Pending login: finish it with 'spotdir auth complete --code <code>'\n")
	}
	return nil
}

// AuthLogout clears the stored token and any pending login.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	broker, err := r.broker(nil)
	if err != nil {
		return err
	}
	if err := broker.Logout(ctx); err != nil {
		return err
	}
	r.logger.Info("logged out")
	return r.writePlain("✓ Logged out\n")
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
