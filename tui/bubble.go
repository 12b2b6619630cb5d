// Package tui provides the terminal view of a running pool.
package tui

import (
	"time"

	"github.com/anisan-cli/mediapool/internal/ui"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/scenario"
	"github.com/anisan-cli/mediapool/style"
	"github.com/anisan-cli/mediapool/util"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// statefulBubble holds the view state of a watched scenario run.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	busy          bool // Protects against rapid input during async ops

	keymap *statefulKeymap

	// components
	itemsC   list.Model
	helpC    help.Model
	notifier *ui.Model

	runner   *scenario.Runner
	snapshot pool.Snapshot
	step     int
	last     string

	lastError error

	width, height int

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// newState switches to s and remembers the current state for back navigation.
func (b *statefulBubble) newState(s state) {
	if b.state != s {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// resize propagates terminal dimension changes to the child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	styledWidth := width - x
	styledHeight := height - y

	listWidth := (width - xx) * 3 / 5
	listHeight := height - yy

	b.itemsC.SetSize(listWidth, listHeight)
	b.itemsC.Help.Width = listWidth

	b.width = styledWidth
	b.height = styledHeight
	b.helpC.Width = width - xx
}

// refresh captures the pool state and rebuilds the item list from it.
func (b *statefulBubble) refresh() tea.Cmd {
	b.snapshot = b.runner.Pool().Snapshot()

	cursor := b.runner.Cursor()
	at := cursor.At()
	host := b.runner.Host()

	items := lo.Map(b.runner.Items(), func(item *media.Item, _ int) list.Item {
		index, _ := cursor.Index(item.ID())

		engine := mo.None[pool.ResourceState]()
		if id, ok := b.snapshot.Bindings[item.ID()]; ok {
			if state, ok := b.snapshot.Resource(id); ok {
				engine = mo.Some(state)
			}
		}

		return &listItem{
			item:     item,
			index:    index,
			cursor:   index == at,
			attached: engine.IsPresent() || host.Connected(item),
			engine:   engine,
		}
	})

	return b.itemsC.SetItems(items)
}

// selected returns the highlighted item.
func (b *statefulBubble) selected() (*listItem, bool) {
	item, ok := b.itemsC.SelectedItem().(*listItem)
	return item, ok
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		keymap:   keymap,
		runner:   options.Runner,
		notifier: &ui.Model{},
		options:  options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.itemsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.itemsC.KeyMap = keymap.forList()
	bubble.itemsC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.itemsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.itemsC.Title = options.Runner.Scenario().Title()
	bubble.itemsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)
	bubble.itemsC.Styles.NoItems = paddingStyle
	bubble.itemsC.SetFilteringEnabled(false)
	bubble.itemsC.SetShowStatusBar(false)
	bubble.itemsC.SetStatusBarItemName("item", "items")

	bubble.helpC = help.New()
	bubble.setState(watchState)
	bubble.refresh()

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}

type refreshMsg time.Time

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.options.refreshInterval(), func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}
