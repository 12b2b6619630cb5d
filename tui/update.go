// Package tui provides the terminal view of a running pool.
package tui

import (
	"fmt"

	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/internal/ui"
	"github.com/anisan-cli/mediapool/scenario"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// actionDoneMsg reports a step that finished in the background.
type actionDoneMsg struct {
	step scenario.Step
	err  error
}

func (b *statefulBubble) Init() tea.Cmd {
	return b.tick()
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.NotificationMsg, ui.ClearNotificationMsg:
		return b, b.notifier.Update(msg)
	case error:
		b.raiseError(msg)
		return b, nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case refreshMsg:
		return b, tea.Batch(b.refresh(), b.tick())
	case actionDoneMsg:
		b.busy = false
		b.last = msg.step.String()

		text := fmt.Sprintf("%s %s", icon.Get(icon.Success), b.last)
		if msg.err != nil {
			text = fmt.Sprintf("%s %s: %v", icon.Get(icon.Fail), b.last, msg.err)
		}
		return b, tea.Batch(b.refresh(), ui.Notify(text))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case watchState:
		return b.updateWatch(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

// do runs step in the background and reports back with an actionDoneMsg.
func (b *statefulBubble) do(step scenario.Step) tea.Cmd {
	b.busy = true
	runner := b.runner

	return func() tea.Msg {
		return actionDoneMsg{step: step, err: runner.Do(step)}
	}
}

func (b *statefulBubble) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || b.busy {
		var cmd tea.Cmd
		b.itemsC, cmd = b.itemsC.Update(msg)
		return b, cmd
	}

	itemStep := func(action scenario.Action) tea.Cmd {
		selected, ok := b.selected()
		if !ok {
			return nil
		}
		return b.do(scenario.Step{Action: action, Item: selected.item.ID()})
	}

	cursor := b.runner.Cursor()

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.play):
		return b, itemStep(scenario.ActionPlay)
	case bubblesKey.Matches(keyMsg, b.keymap.preload):
		return b, itemStep(scenario.ActionPreload)
	case bubblesKey.Matches(keyMsg, b.keymap.pause):
		return b, itemStep(scenario.ActionPause)
	case bubblesKey.Matches(keyMsg, b.keymap.pauseRewind):
		selected, ok := b.selected()
		if !ok {
			return b, nil
		}
		return b, b.do(scenario.Step{Action: scenario.ActionPause, Item: selected.item.ID(), Rewind: true})
	case bubblesKey.Matches(keyMsg, b.keymap.rewind):
		return b, itemStep(scenario.ActionRewind)
	case bubblesKey.Matches(keyMsg, b.keymap.mute):
		return b, itemStep(scenario.ActionMute)
	case bubblesKey.Matches(keyMsg, b.keymap.unmute):
		return b, itemStep(scenario.ActionUnmute)
	case bubblesKey.Matches(keyMsg, b.keymap.reregister):
		return b, itemStep(scenario.ActionReregister)
	case bubblesKey.Matches(keyMsg, b.keymap.bless):
		return b, b.do(scenario.Step{Action: scenario.ActionBless})
	case bubblesKey.Matches(keyMsg, b.keymap.cursorHere):
		selected, ok := b.selected()
		if !ok {
			return b, nil
		}
		return b, b.do(scenario.Step{Action: scenario.ActionCursor, At: float64(selected.index)})
	case bubblesKey.Matches(keyMsg, b.keymap.cursorPrev):
		return b, b.do(scenario.Step{Action: scenario.ActionCursor, At: float64(cursor.At() - 1)})
	case bubblesKey.Matches(keyMsg, b.keymap.cursorNext):
		return b, b.do(scenario.Step{Action: scenario.ActionCursor, At: float64(cursor.At() + 1)})
	case bubblesKey.Matches(keyMsg, b.keymap.nextStep):
		steps := b.runner.Scenario().Steps
		if b.step >= len(steps) {
			return b, ui.Notify("no more steps")
		}

		step := steps[b.step]
		b.step++
		return b, b.do(step)
	}

	var cmd tea.Cmd
	b.itemsC, cmd = b.itemsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	return b, nil
}
