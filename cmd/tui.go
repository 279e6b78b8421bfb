package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ncmx/internal/server"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/desertthunder/ncmx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if level, err := shared.ParseLogLevel(r.config.Logging.Level); err == nil {
		shared.SetLogLevel(fileLogger, level)
	}
	r.SetLogger(fileLogger)
	r.toasts = nil

	engine, err := r.boot(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, engine)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// Serve runs the state inspector until the context is canceled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.boot(ctx)
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	return server.Serve(ctx, addr, server.NewRouter(engine, r.logger), r.logger)
}
