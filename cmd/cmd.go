// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
			Sources: cli.EnvVars("SPOTDIR_CONFIG"),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write config.toml from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the PKCE login session.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify using OAuth2 PKCE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
					&cli.BoolFlag{
						Name:  "manual",
						Usage: "Do not start the callback server; finish with `auth complete`",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the authorization redirect",
						Value: loginTimeout,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "complete",
				Usage: "Finish a manual login with the code from the redirect URL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "code",
						Usage:    "Authorization code",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "state",
						Usage: "State parameter from the redirect URL (checked when given)",
					},
				},
				Action: r.AuthComplete,
			},
			{
				Name:   "status",
				Usage:  "Show whether an access token is stored",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored access token and any pending login",
				Action: r.AuthLogout,
			},
		},
	}
}

// syncCommand handles folder → playlist synchronization.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Synchronize a folder of audio files into a new playlist",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Search every file on Spotify and add the matches to a new private playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "folder"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Playlist name (defaults to the folder name)",
					},
					&cli.StringFlag{
						Name:    "report",
						Aliases: []string{"o"},
						Usage:   "Write a sync report to this file",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format (json, yaml, csv, markdown, txt); inferred from --report when omitted",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON instead of a summary",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:  "preview",
				Usage: "Show the search query for every file without calling Spotify",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "folder"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SyncPreview,
			},
		},
	}
}

// normalizeCommand prints the search query derived from each name.
func normalizeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Print the search query for each file name",
		ArgsUsage: "<name> [name...]",
		Action:    r.Normalize,
	}
}

// tuiCommand returns the top-level TUI command for an interactive sync.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for a folder sync",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "folder"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/spotdir-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// exchangeCommand runs the trusted token-exchange backend.
func exchangeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "exchange",
		Usage: "Trusted token-exchange backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve POST /api/token, trading {code, code_verifier} for {access_token}",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Listen address (defaults to exchange.listen)",
					},
					&cli.StringFlag{
						Name:    "client-secret",
						Usage:   "Spotify client secret (defaults to exchange.client_secret)",
						Sources: cli.EnvVars("SPOTDIR_CLIENT_SECRET"),
					},
				},
				Action: r.ExchangeServe,
			},
		},
	}
}
