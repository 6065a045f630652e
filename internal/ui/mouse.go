package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiocommand/console/internal/queue"
)

// Screen rows above the first queue line. Header, now-playing line and
// the column header are each one row high.
const queueTop = 3

func (m Model) rowAt(y int) int {
	row := y - queueTop
	if row < 0 || row >= len(m.snapshot.Status.Log) {
		return -1
	}
	return row
}

// handleMouse implements click-to-select, wheel scroll and drag-drop
// reordering. Snapshot refreshes are deferred for the duration of a
// drag so rows cannot shift under the cursor; the deferred snapshot is
// applied once on release.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.inserting || m.showHelp {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveSelection(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.moveSelection(1)
		return m, nil
	}

	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		row := m.rowAt(msg.Y)
		if row < 0 {
			return m, nil
		}
		m.selected = row
		m.drag = dragState{
			active:  true,
			id:      m.snapshot.Status.Log[row].ID,
			fromRow: row,
			overRow: row,
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.active {
			if row := m.rowAt(msg.Y); row >= 0 {
				m.drag.overRow = row
			}
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.drag.active {
			return m, nil
		}
		drag := m.drag
		m.drag = dragState{}
		cmd := m.dropCmd(drag)
		if m.refreshPending {
			m.applySnapshot()
		}
		return m, cmd
	}
	return m, nil
}

// dropCmd turns a completed drag into a reorder gesture, or nil when
// the drag cannot produce one.
func (m Model) dropCmd(drag dragState) tea.Cmd {
	log := m.snapshot.Status.Log
	n := len(log)
	if n <= 1 || drag.fromRow == 0 || drag.overRow == drag.fromRow {
		return nil
	}

	// The head row is pinned; a drop onto it lands just below.
	target := drag.overRow
	if target < 1 {
		target = 1
	}
	if target >= n {
		target = n - 1
	}
	if target == drag.fromRow {
		return nil
	}

	g := queue.Gesture{
		Kind:   queue.GestureDrop,
		ID:     drag.id,
		Target: log[target].ID,
		// Queue rows are one line tall, so there is no midpoint to
		// resolve: dragging downward lands after the target, upward
		// lands before it.
		After: target > drag.fromRow,
	}
	return m.runCommand("reorder", func(ctx context.Context) error {
		return m.opts.Commander.Move(ctx, g)
	})
}
