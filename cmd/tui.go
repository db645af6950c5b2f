package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/desertthunder/ytcat/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultTUILog = "./tmp/ytcat-tui.log"

// TUI opens the search browser. The catalog logs to --log for the lifetime of the program.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}

	logPath := cmd.String("log")
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to open TUI log %s: %w", logPath, err)
	}
	previous := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(previous)

	program := tea.NewProgram(ui.NewModel(ctx, r.catalog), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}
