package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotdir/internal/formatter"
	"github.com/desertthunder/spotdir/internal/intake"
	"github.com/desertthunder/spotdir/internal/shared"
	"github.com/desertthunder/spotdir/internal/tasks"
	"github.com/urfave/cli/v3"
)

// previewEntry is one row of `sync preview --json`.
type previewEntry struct {
	File   string `json:"file"`
	Artist string `json:"artist,omitempty"`
	Title  string `json:"title"`
	Query  string `json:"query"`
}

// SyncRun synchronizes a folder into a new private playlist, streaming the progress log.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	folder, err := r.readFolder(cmd.StringArg("folder"))
	if err != nil {
		return err
	}

	name := cmd.String("name")
	if name == "" {
		name = folder.Name
	}

	reportPath := cmd.String("report")
	format := formatter.FormatFromPath(reportPath)
	if f := cmd.String("format"); f != "" {
		if format, err = formatter.ParseFormat(f); err != nil {
			return err
		}
	}

	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "folder", folder.Name)
	pipeline := tasks.NewSyncPipeline(catalog).WithLogger(logger)
	asJSON := cmd.Bool("json")

	logger.Info("starting sync", "files", len(folder.Files), "playlist", name)
	if !asJSON {
		r.writePlain("Syncing %d files from %s into %q...\n\n", len(folder.Files), folder.Path, name)
	}

	progressCh := make(chan tasks.ProgressUpdate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if !asJSON {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, runErr := pipeline.Run(ctx, folder.Files, name, progressCh)
	close(progressCh)
	<-done

	if reportPath != "" && result != nil {
		if err := formatter.WriteReport(result, reportPath, format); err != nil {
			if runErr == nil {
				return err
			}
			logger.Error("failed to write report", "path", reportPath, "error", err)
		} else if !asJSON {
			r.writePlain("\n✓ Report written to %s (%s)\n", reportPath, format)
		}
	}

	if runErr != nil {
		return runErr
	}
	if asJSON {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Playlist: %s\n", result.Collection.Name)
	r.writePlain("URL: %s\n", result.Collection.URL)
	r.writePlain("Matched: %d/%d\n", len(result.Matched), result.Total())

	if n := result.Missing + result.Failed; n > 0 {
		r.writePlain("\nNot matched (%d):\n", n)
		for _, item := range result.Items {
			if item.Outcome != tasks.OutcomeFound {
				r.writePlain("  - %s\n", item.Name)
			}
		}
	}
	return nil
}

// SyncPreview prints the query each file would be searched with. No network calls are made.
func (r *Runner) SyncPreview(ctx context.Context, cmd *cli.Command) error {
	folder, err := r.readFolder(cmd.StringArg("folder"))
	if err != nil {
		return err
	}

	entries := make([]previewEntry, len(folder.Files))
	for i, file := range folder.Files {
		artist, title := shared.SplitArtistTitle(file)
		entries[i] = previewEntry{File: file, Artist: artist, Title: title, Query: shared.SearchQuery(file)}
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d files)", folder.Name, len(folder.Files)))
	for i, e := range entries {
		r.writePlain("%3d. %s\n     → %s\n", i+1, e.File, e.Query)
	}
	return nil
}

// Normalize prints the search query for each argument, one per line.
func (r *Runner) Normalize(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one name", shared.ErrMissingArgument)
	}

	for _, name := range names {
		if err := r.writePlain("%s\n", shared.SearchQuery(name)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) readFolder(path string) (*intake.Folder, error) {
	folder, err := intake.ReadFolder(path, r.config.Intake.Extensions)
	if err != nil {
		return nil, err
	}
	if len(folder.Files) == 0 {
		return nil, fmt.Errorf("%w: no audio files in %s", shared.ErrEmptyInput, folder.Path)
	}
	return folder, nil
}
