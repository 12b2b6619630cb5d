// Package tui provides the terminal view of a running pool.
package tui

import (
	"errors"
	"time"

	"github.com/anisan-cli/mediapool/scenario"
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Runner *scenario.Runner

	// Refresh is how often the pool state is redrawn.
	Refresh time.Duration
}

func (o *Options) refreshInterval() time.Duration {
	if o.Refresh <= 0 {
		return 250 * time.Millisecond
	}
	return o.Refresh
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(options *Options) error {
	if options == nil || options.Runner == nil {
		return errors.New("tui: runner is required")
	}

	_, err := tea.NewProgram(newBubble(options), tea.WithAltScreen()).Run()
	return err
}
