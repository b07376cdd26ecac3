package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotdir/internal/shared"
	"github.com/desertthunder/spotdir/internal/tasks"
	"github.com/desertthunder/spotdir/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for a folder sync.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	folder, err := r.readFolder(cmd.StringArg("folder"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}

	pipeline := tasks.NewSyncPipeline(catalog).WithLogger(shared.WithLogger(fileLogger, "folder", folder.Name))
	model := ui.NewModel(ctx, folder, pipeline)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
