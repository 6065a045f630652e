package app

import (
	"context"
	"fmt"
	"time"

	"github.com/studiocommand/console/internal/engine"
	"github.com/studiocommand/console/internal/playhead"
	"github.com/studiocommand/console/internal/queue"
	"github.com/studiocommand/console/internal/state"
)

// Commander turns operator gestures into engine commands. It never
// mutates server-reflected state directly: a live command is followed
// by an immediate re-poll, and the view keeps last-known-server-truth
// until the engine confirms. While offline it rehearses against the
// local simulation instead.
type Commander struct {
	client engine.API
	store  *state.Store
	rec    *Reconciler
}

// NewCommander builds a Commander around the shared store and
// reconciler.
func NewCommander(client engine.API, store *state.Store, rec *Reconciler) *Commander {
	return &Commander{client: client, store: store, rec: rec}
}

// Move computes and submits the new upcoming order for a gesture.
// Gestures on the pinned head and gestures whose computed order equals
// the current order are silent no-ops, never errors: the UI affordances
// already disable those controls.
func (c *Commander) Move(ctx context.Context, g queue.Gesture) error {
	snap := c.store.Snapshot()
	items := snap.Status.Log
	if len(items) <= 1 || queue.IsHead(items, g.ID) {
		return nil
	}

	upcoming := queue.UpcomingIDs(items)
	next, changed := queue.Apply(upcoming, g)
	if !changed {
		return nil
	}

	if c.offline(snap) {
		c.store.ArmUndo(upcoming)
		c.store.ApplyLocalReorder(next)
		c.store.CommitUndo()
		return nil
	}

	// Arm against the current order, not the new one: the diff runs
	// when the next successful poll confirms what actually happened.
	c.store.ArmFlash(queue.AllIDs(items))
	c.store.ArmUndo(upcoming)

	if err := c.client.Reorder(ctx, next); err != nil {
		c.store.DisarmFlash()
		c.store.DiscardPendingUndo()
		return fmt.Errorf("reorder: %w", err)
	}

	c.store.CommitUndo()
	c.rec.Kick()
	return nil
}

// Undo replays the saved upcoming order. With no snapshot it is a
// no-op; a successful undo consumes the snapshot, so a second undo
// does nothing further.
func (c *Commander) Undo(ctx context.Context) error {
	saved, ok := c.store.PeekUndo()
	if !ok {
		return nil
	}
	snap := c.store.Snapshot()

	if c.offline(snap) {
		c.store.ApplyLocalReorder(saved)
		c.store.ClearUndo()
		return nil
	}

	c.store.ArmFlash(queue.AllIDs(snap.Status.Log))
	if err := c.client.Reorder(ctx, saved); err != nil {
		c.store.DisarmFlash()
		return fmt.Errorf("undo reorder: %w", err)
	}

	c.store.ClearUndo()
	c.rec.Kick()
	return nil
}

// Transport fires a transport action. Offline, skip is rehearsed
// locally and the rest are no-ops.
func (c *Commander) Transport(ctx context.Context, action string) error {
	snap := c.store.Snapshot()
	if c.offline(snap) {
		if action == engine.ActionSkip && snap.Demo {
			st := snap.Status
			playhead.Skip(&st)
			c.store.ApplyRehearsal(&st)
		}
		return nil
	}

	if err := c.client.Transport(ctx, action); err != nil {
		return fmt.Errorf("transport %s: %w", action, err)
	}
	c.rec.Kick()
	return nil
}

// Remove drops the upcoming item at the given log index. The playing
// head cannot be removed; like head gestures, that is a silent no-op.
// Offline, removal is rehearsed against the local simulation.
func (c *Commander) Remove(ctx context.Context, index int) error {
	snap := c.store.Snapshot()
	if index <= 0 || index >= len(snap.Status.Log) {
		return nil
	}

	if c.offline(snap) {
		if snap.Demo {
			st := snap.Status
			st.Log = append(st.Log[:index:index], st.Log[index+1:]...)
			playhead.Normalize(&st)
			c.store.ApplyRehearsal(&st)
		}
		return nil
	}

	if err := c.client.Remove(ctx, index); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	c.rec.Kick()
	return nil
}

// Insert asks the engine to place a cart after the given log index.
func (c *Commander) Insert(ctx context.Context, after int, item engine.InsertItem) error {
	snap := c.store.Snapshot()
	if c.offline(snap) {
		return nil
	}

	if err := c.client.Insert(ctx, after, item); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	c.rec.Kick()
	return nil
}

func (c *Commander) offline(snap state.Snapshot) bool {
	return snap.Mode(time.Now(), 0) == state.ModeOffline
}
