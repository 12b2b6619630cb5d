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
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	panelStyle            = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(style.BorderColor)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case watchState:
		output = b.viewWatch()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewWatch() string {
	items := listExtraPaddingStyle.Render(b.itemsC.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, items, b.viewEngines())
}

// viewEngines renders one line per pooled engine followed by the run status.
func (b *statefulBubble) viewEngines() string {
	width := b.width - lipgloss.Width(b.itemsC.View()) - panelStyle.GetHorizontalFrameSize()
	if width < 20 {
		width = 20
	}
	fit := func(s string) string {
		return truncate.StringWithTail(s, uint(width), "…")
	}

	lines := []string{style.Title("Engines"), ""}
	for _, r := range b.snapshot.Resources {
		lines = append(lines, fit(engineLine(r)))
	}

	steps := len(b.runner.Scenario().Steps)
	status := []string{
		fmt.Sprintf("%s cursor at %d", icon.Get(icon.Cursor), b.runner.Cursor().At()),
		fmt.Sprintf("step %d/%d", b.step, steps),
	}
	if b.snapshot.Blessed {
		status = append(status, icon.Get(icon.Blessed)+" blessed")
	}

	lines = append(lines, "", style.Faint(fit(strings.Join(status, " • "))))
	if b.last != "" {
		lines = append(lines, style.Faint(fit("last: "+b.last)))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func engineLine(r pool.ResourceState) string {
	kind := icon.Get(icon.Video)
	if r.Type == media.Audio {
		kind = icon.Get(icon.Audio)
	}

	handle := style.Fg(style.FaintColor)("idle")
	if r.Allocated {
		handle = style.Fg(style.Green)(r.Handle)
	}

	var flags []string
	if !r.Paused {
		flags = append(flags, icon.Get(icon.Play))
	}
	if r.Muted {
		flags = append(flags, icon.Get(icon.Muted))
	}
	if r.Blessed {
		flags = append(flags, icon.Get(icon.Blessed))
	}
	if r.Pending > 0 {
		flags = append(flags, style.Fg(style.Yellow)(fmt.Sprintf("%d queued", r.Pending)))
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s %s %s", kind, r.ID, handle, strings.Join(flags, " ")))
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
