package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/studiocommand/console/internal/engine"
	"github.com/studiocommand/console/internal/meter"
	"github.com/studiocommand/console/internal/monitor"
	"github.com/studiocommand/console/internal/playhead"
	"github.com/studiocommand/console/internal/queue"
	"github.com/studiocommand/console/internal/state"
)

// Commander accepts operator gestures. Implemented by app.Commander.
type Commander interface {
	Move(ctx context.Context, g queue.Gesture) error
	Undo(ctx context.Context) error
	Transport(ctx context.Context, action string) error
	Remove(ctx context.Context, index int) error
	Insert(ctx context.Context, after int, item engine.InsertItem) error
}

// Monitor controls the receive-only audio monitor session.
type Monitor interface {
	Start(ctx context.Context) error
	Stop()
	Active() bool
	Phase() monitor.Phase
	States() monitor.SubStates
}

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Commander Commander
	Selector  *meter.Selector
	Monitor   Monitor
	PollTick  time.Duration
	MeterTick time.Duration
	ThemeName string
	ShowVU    bool
	// AutoStartMonitor mirrors the loaded preference so toggling other
	// settings round-trips it unchanged.
	AutoStartMonitor bool
	PrefsPath        string
}

const (
	defaultUITick    = time.Second
	defaultMeterTick = 120 * time.Millisecond

	// How long a confirmed reorder highlights the rows that moved.
	flashFor = 900 * time.Millisecond
	// How long command feedback stays on the footer.
	alertFor = 4 * time.Second
)

type (
	tickMsg      time.Time
	meterTickMsg time.Time

	// cmdDoneMsg reports a finished operator command.
	cmdDoneMsg struct {
		verb string
		err  error
	}
)

// dragState tracks an in-flight mouse drag over the queue table.
type dragState struct {
	active  bool
	id      uuid.UUID
	fromRow int
	overRow int
}

// Model is the bubbletea application state. Server truth lives in the
// store; the model keeps only presentation state on top of the latest
// snapshot it pulled.
type Model struct {
	opts   Options
	keys   keyMap
	help   help.Model
	theme  Theme
	styles Styles

	width  int
	height int

	snapshot   state.Snapshot
	anchor     playhead.Anchor
	anchoredAt time.Time
	hasAnchor  bool
	selected   int
	flash      map[uuid.UUID]struct{}
	flashUntil time.Time

	drag           dragState
	refreshPending bool

	inserting bool
	insert    textinput.Model

	alert      string
	alertErr   bool
	alertUntil time.Time

	showVU   bool
	showHelp bool
}

// Run blocks until the context is cancelled or the operator quits.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	p := tea.NewProgram(newModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(opts.Context),
	)
	_, err := p.Run()
	if err == tea.ErrProgramKilled && opts.Context.Err() != nil {
		// Cancelled from outside; a clean shutdown, not a failure.
		return nil
	}
	return err
}

func newModel(opts Options) Model {
	if opts.PollTick <= 0 {
		opts.PollTick = defaultUITick
	}
	if opts.MeterTick <= 0 {
		opts.MeterTick = defaultMeterTick
	}
	theme := ThemeByName(opts.ThemeName)

	insert := textinput.New()
	insert.Placeholder = "cart number"
	insert.CharLimit = 16
	insert.Width = 20

	return Model{
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     help.New(),
		theme:    theme,
		styles:   theme.Styles(),
		selected: 1,
		showVU:   opts.ShowVU,
		insert:   insert,
	}
}

// Init implements tea.Model. The immediate pull emits the first
// tickMsg, whose handler schedules the next; adding tickCmd here too
// would run a second tick chain at double cadence.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pullSnapshot(), m.meterTickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.PollTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) meterTickCmd() tea.Cmd {
	return tea.Tick(m.opts.MeterTick, func(t time.Time) tea.Msg { return meterTickMsg(t) })
}

// pullSnapshot reads the store once, outside the tick cadence.
func (m Model) pullSnapshot() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.drag.active {
			// Never reshuffle rows under the operator's cursor.
			m.refreshPending = true
		} else {
			m.applySnapshot()
		}
		return m, m.tickCmd()

	case meterTickMsg:
		// Meters and the playhead read live state in View; the tick
		// only forces a repaint between status polls.
		return m, m.meterTickCmd()

	case cmdDoneMsg:
		if msg.err != nil {
			m.setAlert(fmt.Sprintf("%s failed: %v", msg.verb, msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) applySnapshot() {
	snap := m.opts.Store.Snapshot()
	if ids := m.opts.Store.ConsumeFlash(); len(ids) > 0 {
		m.flash = make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			m.flash[id] = struct{}{}
		}
		m.flashUntil = time.Now().Add(flashFor)
	}
	m.snapshot = snap
	m.refreshPending = false
	// Re-anchor only on fresh data. While polls fail, Now.Pos is frozen
	// server truth; re-anchoring from it would reset the interpolation
	// base every tick and stall the displayed position.
	if snap.HasStatus {
		switch {
		case snap.Demo:
			m.anchor = playhead.AnchorFrom(snap.Status.Now, time.Now())
			m.hasAnchor = true
		case snap.LastSuccess.After(m.anchoredAt):
			m.anchor = playhead.AnchorFrom(snap.Status.Now, snap.LastSuccess)
			m.anchoredAt = snap.LastSuccess
			m.hasAnchor = true
		}
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.Status.Log)
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) setAlert(text string, isErr bool) {
	m.alert = text
	m.alertErr = isErr
	m.alertUntil = time.Now().Add(alertFor)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inserting {
		return m.handleInsertKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.snapshot.Status.Log) - 1
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		return m.stepSelected(-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m.stepSelected(1)
	case key.Matches(msg, m.keys.Undo):
		return m, m.runCommand("undo", func(ctx context.Context) error {
			return m.opts.Commander.Undo(ctx)
		})

	case key.Matches(msg, m.keys.Skip):
		return m, m.transportCmd(engine.ActionSkip)
	case key.Matches(msg, m.keys.Dump):
		return m, m.transportCmd(engine.ActionDump)
	case key.Matches(msg, m.keys.Reload):
		return m, m.transportCmd(engine.ActionReload)

	case key.Matches(msg, m.keys.Remove):
		return m.removeSelected()

	case key.Matches(msg, m.keys.Insert):
		m.inserting = true
		m.insert.SetValue("")
		return m, m.insert.Focus()

	case key.Matches(msg, m.keys.Monitor):
		return m.toggleMonitor()
	case key.Matches(msg, m.keys.Meters):
		m.showVU = !m.showVU
		m.savePrefs()
		return m, nil
	}
	return m, nil
}

func (m Model) handleInsertKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.inserting = false
		m.insert.Blur()
		return m, nil
	case tea.KeyEnter:
		cart := m.insert.Value()
		after := m.selected
		m.inserting = false
		m.insert.Blur()
		if cart == "" {
			return m, nil
		}
		return m, m.runCommand("insert", func(ctx context.Context) error {
			return m.opts.Commander.Insert(ctx, after, engine.InsertItem{Cart: cart})
		})
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.insert, cmd = m.insert.Update(msg)
	return m, cmd
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

// stepSelected nudges the selected item by one slot. The selection
// follows the item so repeated presses keep moving the same cart.
func (m Model) stepSelected(delta int) (tea.Model, tea.Cmd) {
	log := m.snapshot.Status.Log
	if m.selected <= 0 || m.selected >= len(log) {
		return m, nil
	}
	id := log[m.selected].ID
	dest := m.selected + delta
	if dest >= 1 && dest < len(log) {
		m.selected = dest
	}
	return m, m.runCommand("reorder", func(ctx context.Context) error {
		return m.opts.Commander.Move(ctx, queue.Gesture{
			Kind:  queue.GestureStep,
			ID:    id,
			Delta: delta,
		})
	})
}

// removeSelected drops the selected upcoming item. The head row is
// pinned, so removal there is a silent no-op like other head gestures.
func (m Model) removeSelected() (tea.Model, tea.Cmd) {
	index := m.selected
	if index <= 0 || index >= len(m.snapshot.Status.Log) {
		return m, nil
	}
	return m, m.runCommand("remove", func(ctx context.Context) error {
		return m.opts.Commander.Remove(ctx, index)
	})
}

func (m Model) toggleMonitor() (tea.Model, tea.Cmd) {
	if m.opts.Monitor == nil {
		return m, nil
	}
	if m.opts.Monitor.Active() {
		m.opts.Monitor.Stop()
		m.setAlert("monitor stopped", false)
		return m, nil
	}
	return m, m.runCommand("monitor", func(ctx context.Context) error {
		return m.opts.Monitor.Start(ctx)
	})
}

func (m Model) transportCmd(action string) tea.Cmd {
	return m.runCommand(action, func(ctx context.Context) error {
		return m.opts.Commander.Transport(ctx, action)
	})
}

func (m Model) runCommand(verb string, fn func(context.Context) error) tea.Cmd {
	ctx := m.opts.Context
	return func() tea.Msg {
		return cmdDoneMsg{verb: verb, err: fn(ctx)}
	}
}

func (m *Model) savePrefs() {
	// Preferences persist best-effort; the toggle already took effect.
	savePrefs(m.opts.PrefsPath, m.currentPrefs())
}
