package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"distrotui/internal/ui"
)

func newTUICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [location]",
		Short: "Start the interactive dashboard (default)",
		Example: `  distrotui tui
  distrotui tui "/packages?search=kernel&size=50"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) == 1 {
				location = args[0]
			}
			return a.runTUI(cmd, location)
		},
	}
	return cmd
}

// runTUI runs the dashboard until the user quits or the process is signalled
func (a *app) runTUI(cmd *cobra.Command, location string) error {
	if location == "" {
		location = a.cfg.UI.StartLocation
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := ui.NewModel(ctx, ui.Options{
		Client:        a.client,
		Session:       a.session,
		Bus:           a.bus,
		Logger:        a.logger,
		PageSize:      a.cfg.UI.PageSize,
		Debounce:      a.cfg.UI.Debounce,
		StartLocation: location,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	a.logger.Info("starting TUI", "location", location)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	a.logger.Info("TUI exited")
	return nil
}
