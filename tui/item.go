// Package tui provides the terminal view of a running pool.
package tui

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
)

// listItem implements list.Item for a media item and what the pool currently does with it.
type listItem struct {
	item     *media.Item
	index    int
	cursor   bool
	attached bool
	engine   mo.Option[pool.ResourceState]
}

func (t *listItem) Title() string {
	var sb strings.Builder

	switch t.item.Type() {
	case media.Audio:
		sb.WriteString(icon.Get(icon.Audio))
	case media.Video:
		sb.WriteString(icon.Get(icon.Video))
	}
	sb.WriteString(" ")
	sb.WriteString(t.item.Name())

	if t.cursor {
		sb.WriteString(" ")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Cursor)))
	}

	return sb.String()
}

func (t *listItem) Description() string {
	parts := []string{style.Faint(fmt.Sprintf("#%d", t.index))}

	if !t.attached {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render("detached"))
	}

	state, ok := t.engine.Get()
	if !ok {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Subtext).Render(icon.Get(icon.Idle)+" no engine"))
		return strings.Join(parts, " • ")
	}

	parts = append(parts, lipgloss.NewStyle().Foreground(style.Green).Render(state.ID))
	if state.Paused {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Yellow).Render(icon.Get(icon.Pause)+" paused"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Green).Render(icon.Get(icon.Play)+" playing"))
	}

	if state.Muted {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(icon.Get(icon.Muted)+" muted"))
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	return t.item.ID()
}
