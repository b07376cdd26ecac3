package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdir/internal/auth"
	"github.com/desertthunder/spotdir/internal/repositories"
	"github.com/desertthunder/spotdir/internal/services"
	"github.com/desertthunder/spotdir/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	store      auth.VerifierStore
	navigate   shared.Navigator
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Store      auth.VerifierStore // nil opens the configured SQLite database on first use
	Navigate   shared.Navigator   // nil uses [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Navigate == nil {
		opts.Navigate = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
		navigate:   opts.Navigate,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, syncCommand, normalizeCommand, tuiCommand, exchangeCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before reloads the configuration when --config is given and applies --verbose.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if !cmd.IsSet("config") {
		return ctx, nil
	}

	path := cmd.String("config")
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	r.config = config
	r.configPath = path
	r.logger.Debug("configuration loaded", "path", path)
	return ctx, nil
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// authStore returns the injected store or the SQLite-backed [repositories.AuthStateRepository].
func (r *Runner) authStore() (auth.VerifierStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	r.db = db
	r.store = repositories.NewAuthStateRepository(db)
	return r.store, nil
}

// oauthConfig builds the public PKCE client settings. No client secret is involved.
func (r *Runner) oauthConfig() *oauth2.Config {
	spotify := r.config.Credentials.Spotify
	return &oauth2.Config{
		ClientID:    spotify.ClientID,
		RedirectURL: spotify.RedirectURI,
		Scopes:      spotify.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   spotify.AuthURL,
			TokenURL:  spotify.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// exchanger prefers the trusted backend and falls back to the public-client exchange.
func (r *Runner) exchanger() auth.Exchanger {
	if url := r.config.Exchange.URL; url != "" {
		return auth.NewBackendExchanger(url, r.timedClient())
	}
	return auth.NewDirectExchanger(r.oauthConfig(), r.timedClient())
}

// timedClient copies the runner's client, applying the configured timeout when it has none.
func (r *Runner) timedClient() *http.Client {
	client := *r.httpClient
	if client.Timeout == 0 {
		client.Timeout = r.config.Catalog.Timeout()
	}
	return &client
}

func (r *Runner) broker(navigate shared.Navigator) (*auth.Broker, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	store, err := r.authStore()
	if err != nil {
		return nil, err
	}

	return auth.NewBroker(auth.BrokerOpts{
		Config:    r.oauthConfig(),
		Store:     store,
		Exchanger: r.exchanger(),
		Navigate:  navigate,
		Logger:    shared.WithLogger(r.logger, "component", "auth"),
	}), nil
}

// catalog builds a [services.CatalogClient] authorized with the stored access token.
func (r *Runner) catalog(ctx context.Context) (*services.CatalogClient, error) {
	broker, err := r.broker(nil)
	if err != nil {
		return nil, err
	}
	token, err := broker.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: run `spotdir auth login` first", err)
	}

	cfg := r.config.Catalog
	return services.NewCatalogClient(services.CatalogOpts{
		BaseURL:           cfg.BaseURL,
		Token:             token,
		HTTPClient:        r.timedClient(),
		MaxRetries:        cfg.MaxRetries,
		MaxRetryWait:      cfg.RetryWait(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            shared.WithLogger(r.logger, "component", "catalog"),
	}), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
