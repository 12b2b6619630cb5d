// Package tui provides the terminal view of a running pool.
package tui

import (
	"github.com/anisan-cli/mediapool/color"
	"github.com/anisan-cli/mediapool/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

// statefulKeymap defines the keyboard interactions available in each state.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	play, preload, pause, pauseRewind, rewind,
	mute, unmute, bless,
	cursorHere, cursorPrev, cursorNext,
	nextStep, reregister,
	back,
	up, down, left, right,
	top, bottom,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		play: key.NewBinding(
			key.WithKeys("enter", "p"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("play")),
		),
		preload: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "preload"),
		),
		pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause"),
		),
		pauseRewind: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		rewind: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rewind"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		unmute: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unmute"),
		),
		bless: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bless all"),
		),
		cursorHere: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "move cursor here"),
		),
		cursorPrev: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "cursor back"),
		),
		cursorNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "cursor forward"),
		),
		nextStep: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next step"),
		),
		reregister: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reregister"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case watchState:
		return h(k.play, k.pause, k.nextStep, k.bless),
			h(k.play, k.preload, k.pause, k.pauseRewind, k.rewind, k.mute, k.unmute, k.reregister, k.bless, k.cursorHere, k.cursorPrev, k.cursorNext, k.nextStep)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:      k.up,
		CursorDown:    k.down,
		NextPage:      k.right,
		PrevPage:      k.left,
		GoToStart:     k.top,
		GoToEnd:       k.bottom,
		ShowFullHelp:  k.showHelp,
		CloseFullHelp: k.showHelp,
		Quit:          k.quit,
		ForceQuit:     k.forceQuit,
	}
}
