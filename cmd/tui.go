package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vibevault/internal/shared"
	"github.com/desertthunder/vibevault/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI against the gateway.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Client.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	client := r.gatewayClient(cmd)
	if _, err := client.Health(ctx); err != nil {
		r.logger.Warn("gateway health check failed", "error", err)
	}

	model := ui.NewModel(ctx, client, ui.Options{Logger: fileLogger, ExportDir: cmd.String("export-dir")})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
