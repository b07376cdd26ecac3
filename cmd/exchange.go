package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/spotdir/internal/auth"
	"github.com/desertthunder/spotdir/internal/server"
	"github.com/desertthunder/spotdir/internal/shared"
	"github.com/urfave/cli/v3"
)

// maxExchangeBody caps POST /api/token bodies; a code and verifier fit comfortably.
const maxExchangeBody = 8 << 10

// ExchangeServe runs the trusted token-exchange backend until interrupted.
//
// It holds the client secret and trades {code, code_verifier} for {access_token} with the token endpoint.
func (r *Runner) ExchangeServe(ctx context.Context, cmd *cli.Command) error {
	secret := cmd.String("client-secret")
	if secret == "" {
		secret = r.config.Exchange.ClientSecret
	}
	if secret == "" {
		return fmt.Errorf("%w: exchange.client_secret or --client-secret is required", shared.ErrMissingCredentials)
	}
	if r.config.Credentials.Spotify.ClientID == "" {
		return fmt.Errorf("%w: credentials.spotify.client_id is required", shared.ErrInvalidConfig)
	}

	listen := cmd.String("listen")
	if listen == "" {
		listen = r.config.Exchange.Listen
	}

	oauthConfig := r.oauthConfig()
	oauthConfig.ClientSecret = secret

	logger := shared.WithLogger(r.logger, "component", "exchange")
	router := r.exchangeRouter(auth.NewDirectExchanger(oauthConfig, r.timedClient()))

	httpServer := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("exchange backend listening", "addr", listen, "routes", router.Routes())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

func (r *Runner) exchangeRouter(exchanger auth.Exchanger) *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(
		server.LoggingMiddleware(shared.WithLogger(r.logger, "component", "exchange")),
		server.MaxBodyMiddleware(maxExchangeBody),
	)
	router.Handler(server.NewExchangeHandler(exchanger, r.logger))
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	}))
	return router
}
