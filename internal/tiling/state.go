// Package tiling implements the tiling engine: the single-threaded,
// synchronous state machine that owns every pane's geometry and exposes
// the split/close/resize/focus/fullscreen/reflow verbs. It performs no
// I/O; callers register a capability per pane (enginecontracts.Pane) and
// the engine calls SetGeom on exactly the panes whose rectangle changed
// as a side effect of a verb.
package tiling

import (
	"fmt"

	"cogentcore.org/core/base/ordmap"

	"github.com/1broseidon/paned/internal/enginecontracts"
	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/paneid"
)

const (
	baseMinRows    = 5
	baseMinCols    = 5
	frameOverhead  = 2 // extra cells reserved per axis when draw_frames is set
	focusHistoryCap = 32
)

// ClientID identifies one focus/move consumer. Several clients can share
// one pane set, each with its own focus and history; a single-client
// caller can use the zero value throughout.
type ClientID string

// snapshot is the saved pane set taken on entering fullscreen.
type snapshot struct {
	panes  *ordmap.Map[paneid.ID, paneid.Geom]
	target paneid.ID
}

// State is the tiling engine's owned state: the pane set, per-client focus
// and history, any active fullscreen snapshot, and the screen extent.
type State struct {
	Panes *ordmap.Map[paneid.ID, paneid.Geom]
	caps  map[paneid.ID]enginecontracts.Pane

	active  map[ClientID]paneid.ID
	history map[ClientID][]paneid.ID

	fullscreen *snapshot

	Rows, Cols int
	DrawFrames bool

	nextLogicalPosition int
}

// NewState builds an empty engine for the given screen size. Callers seed
// it via the layout applier rather than splitting from nothing.
func NewState(rows, cols int, drawFrames bool) *State {
	return &State{
		Panes:      ordmap.New[paneid.ID, paneid.Geom](),
		caps:       make(map[paneid.ID]enginecontracts.Pane),
		active:     make(map[ClientID]paneid.ID),
		history:    make(map[ClientID][]paneid.ID),
		Rows:       rows,
		Cols:       cols,
		DrawFrames: drawFrames,
	}
}

// MinRows and MinCols return the interior size floor every pane must
// satisfy, inflated by frame overhead when draw_frames is set.
func (s *State) MinRows() int {
	if s.DrawFrames {
		return baseMinRows + frameOverhead
	}
	return baseMinRows
}

func (s *State) MinCols() int {
	if s.DrawFrames {
		return baseMinCols + frameOverhead
	}
	return baseMinCols
}

// RegisterPane associates a capability with a pane id so future verbs can
// push geometry to it. A pane with no registered capability is tracked
// normally but never receives a SetGeom call.
func (s *State) RegisterPane(id paneid.ID, cap enginecontracts.Pane) {
	s.caps[id] = cap
}

// UnregisterPane drops a capability association, e.g. once the owning
// terminal has fully torn down after a close.
func (s *State) UnregisterPane(id paneid.ID) {
	delete(s.caps, id)
}

// Geom returns the current record for id.
func (s *State) Geom(id paneid.ID) (paneid.Geom, bool) {
	return s.Panes.ValueByKeyTry(id)
}

// SetGeom overwrites the record for id, preserving its position in
// iteration order if it already existed.
func (s *State) SetGeom(id paneid.ID, g paneid.Geom) {
	s.Panes.Add(id, g)
}

// IDs returns every pane id in deterministic iteration order.
func (s *State) IDs() []paneid.ID {
	return s.Panes.Keys()
}

// InFullscreen reports whether a fullscreen snapshot is currently held.
func (s *State) InFullscreen() bool {
	return s.fullscreen != nil
}

// Active returns the focused pane for a client.
func (s *State) Active(client ClientID) (paneid.ID, bool) {
	id, ok := s.active[client]
	return id, ok
}

// SetActive assigns a client's focus directly and records it in history.
func (s *State) SetActive(client ClientID, id paneid.ID) {
	s.active[client] = id
	s.pushHistory(client, id)
}

func (s *State) pushHistory(client ClientID, id paneid.ID) {
	h := s.history[client]
	// Move id to the front if already present.
	for i, existing := range h {
		if existing == id {
			h = append(h[:i], h[i+1:]...)
			break
		}
	}
	h = append([]paneid.ID{id}, h...)
	if len(h) > focusHistoryCap {
		h = h[:focusHistoryCap]
	}
	s.history[client] = h
}

// History returns a client's focus history, most-recent first.
func (s *State) History(client ClientID) []paneid.ID {
	return s.history[client]
}

// nextPosition returns the logical_position the next new pane should
// receive: one more than the current maximum.
func (s *State) nextPosition() int {
	max := -1
	for _, kv := range s.Panes.Order {
		if kv.Value.LogicalPosition > max {
			max = kv.Value.LogicalPosition
		}
	}
	return max + 1
}

// reserveNextPosition assigns and records a fresh logical position.
func (s *State) reserveNextPosition() int {
	p := s.nextPosition()
	s.nextLogicalPosition = p + 1
	return p
}

// snapshotRects captures every current pane's rectangle, used to diff
// against the post-mutation state so SetGeom is only called on panes
// whose rectangle actually moved.
func (s *State) snapshotRects() map[paneid.ID]paneid.Rect {
	out := make(map[paneid.ID]paneid.Rect, s.Panes.Len())
	for _, kv := range s.Panes.Order {
		out[kv.Key] = kv.Value.Rect()
	}
	return out
}

// notifyChanged pushes SetGeom to every registered capability whose
// rectangle differs from before.
func (s *State) notifyChanged(before map[paneid.ID]paneid.Rect) {
	for _, kv := range s.Panes.Order {
		after := kv.Value.Rect()
		b, existed := before[kv.Key]
		if existed && b == after {
			continue
		}
		if cap, ok := s.caps[kv.Key]; ok {
			cap.SetGeom(after)
		}
	}
}

// SnapshotRects and NotifyChanged expose the change-notification pair to
// the stacking and layout packages, which mutate engine state through the
// same diff-then-notify discipline the verbs in this package use.
func (s *State) SnapshotRects() map[paneid.ID]paneid.Rect {
	return s.snapshotRects()
}

func (s *State) NotifyChanged(before map[paneid.ID]paneid.Rect) {
	s.notifyChanged(before)
}

// ReservePosition assigns a fresh logical position for a pane created
// outside the split verbs, e.g. one seeded directly with SetGeom. The
// layout applier numbers its panes by leaf order instead.
func (s *State) ReservePosition() int {
	return s.reserveNextPosition()
}

// ReplaceAll atomically swaps the entire pane set for the given placements,
// in order. Used by the layout applier, which builds a complete candidate
// set first so a mid-tree failure never leaves partial state behind.
func (s *State) ReplaceAll(placements []Placement) {
	s.Panes = ordmap.New[paneid.ID, paneid.Geom]()
	for _, p := range placements {
		s.Panes.Add(p.ID, p.Geom)
	}
}

// Placement pairs a pane id with its geometry for bulk operations.
type Placement struct {
	ID   paneid.ID
	Geom paneid.Geom
}

// resolveFocusAfterRemoval fixes up active/history entries once a pane has
// been removed from the map, moving focus to the most recent surviving
// history entry.
func (s *State) resolveFocusAfterRemoval(removed paneid.ID) {
	for client, h := range s.history {
		filtered := h[:0:0]
		for _, id := range h {
			if id != removed {
				filtered = append(filtered, id)
			}
		}
		s.history[client] = filtered
	}
	for client, active := range s.active {
		if active != removed {
			continue
		}
		if h := s.history[client]; len(h) > 0 {
			s.active[client] = h[0]
		} else {
			delete(s.active, client)
		}
	}
}

func notFound(id paneid.ID) error {
	return fmt.Errorf("pane %s: %w", id, engineerr.NotFound)
}
