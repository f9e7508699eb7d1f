package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/chihirosctl/internal/config"
)

// Run starts the TUI application.
// Verbose debug output is discarded while the TUI owns the screen.
func Run(ctx context.Context, cfg *config.File, timeout time.Duration) error {
	config.SetOutput(io.Discard)
	defer config.SetOutput(nil)

	m := NewModel(ctx, bleBackend{cfg: cfg, timeout: timeout}, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	if fm, ok := final.(Model); ok {
		fm.disconnect()
	}
	return nil
}
