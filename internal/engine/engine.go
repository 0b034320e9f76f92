// Package engine is the verb surface of the geometry engine: one type
// wiring the tiling engine, the stacking engine, and the layout applier
// behind the inbound verbs of the system. The engine itself is
// single-threaded and run-to-completion; the mutex here exists only so a
// transport (IPC server, MCP server) may host it off the caller's thread,
// which needs nothing finer than one lock around each verb.
package engine

import (
	"fmt"
	"sync"

	"github.com/1broseidon/paned/internal/enginecontracts"
	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/layoutdef"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/spatial"
	"github.com/1broseidon/paned/internal/stack"
	"github.com/1broseidon/paned/internal/tiling"
)

// Direction re-exports the focus/move directions so transports do not
// import the spatial package directly.
type Direction = spatial.Direction

const (
	Up    = spatial.Up
	Down  = spatial.Down
	Left  = spatial.Left
	Right = spatial.Right
)

// ResizeDirection re-exports the resize directions.
type ResizeDirection = tiling.ResizeDirection

const (
	ResizeUp       = tiling.ResizeUp
	ResizeDown     = tiling.ResizeDown
	ResizeLeft     = tiling.ResizeLeft
	ResizeRight    = tiling.ResizeRight
	ResizeIncrease = tiling.ResizeIncrease
	ResizeDecrease = tiling.ResizeDecrease
)

// ClientID identifies one focus consumer.
type ClientID = tiling.ClientID

// Engine owns the pane geometry for one tab.
type Engine struct {
	mu sync.Mutex
	st *tiling.State
}

// New builds an engine for the given screen size.
func New(rows, cols int, drawFrames bool) *Engine {
	return &Engine{st: tiling.NewState(rows, cols, drawFrames)}
}

// RegisterPane associates a capability with a pane id; the engine pushes
// geometry changes to it after each verb.
func (e *Engine) RegisterPane(id paneid.ID, cap enginecontracts.Pane) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.RegisterPane(id, cap)
}

// PaneInfo is one entry of the rendering iteration.
type PaneInfo struct {
	ID              paneid.ID
	Rect            paneid.Rect
	LogicalPosition int
	Stacked         *paneid.StackID
	Flexible        bool // meaningful only when Stacked is set
}

// Panes returns every pane's current geometry in deterministic order for
// rendering. The returned slice is a snapshot; mutating verbs may run
// after it is taken.
func (e *Engine) Panes() []PaneInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]PaneInfo, 0, len(e.st.IDs()))
	for _, id := range e.st.IDs() {
		g, _ := e.st.Geom(id)
		out = append(out, PaneInfo{
			ID:              id,
			Rect:            g.Rect(),
			LogicalPosition: g.LogicalPosition,
			Stacked:         g.Stacked,
			Flexible:        g.Stacked != nil && g.Rows.IsPercent(),
		})
	}
	return out
}

// ScreenSize returns the current tab extent.
func (e *Engine) ScreenSize() (rows, cols int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Rows, e.st.Cols
}

// Active returns a client's focused pane.
func (e *Engine) Active(client ClientID) (paneid.ID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Active(client)
}

// SetActive focuses a pane for a client directly (e.g. on mouse click).
func (e *Engine) SetActive(client ClientID, id paneid.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.st.Geom(id); !ok {
		return fmt.Errorf("set_active: pane %s: %w", id, engineerr.NotFound)
	}
	e.st.SetActive(client, id)
	return nil
}

// InFullscreen reports whether a fullscreen snapshot is held.
func (e *Engine) InFullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.InFullscreen()
}

func (e *Engine) SplitHorizontal(parent, newID paneid.ID) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.SplitHorizontal(parent, newID)
}

func (e *Engine) SplitVertical(parent, newID paneid.ID) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.SplitVertical(parent, newID)
}

func (e *Engine) SplitLargest(newID paneid.ID) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.SplitLargest(newID)
}

func (e *Engine) Close(pane paneid.ID) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Close(pane)
}

func (e *Engine) ToggleFullscreen(pane paneid.ID) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.ToggleFullscreen(pane)
}

func (e *Engine) Resize(pane paneid.ID, dir ResizeDirection, step int) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Resize(pane, dir, step)
}

func (e *Engine) MoveFocus(client ClientID, dir Direction) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.MoveFocus(client, dir)
}

func (e *Engine) MovePane(client ClientID, dir Direction) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.MovePane(client, dir)
}

// StackOrientation selects how CombineToStack interprets its inputs.
type StackOrientation = stack.Orientation

const (
	StackVertical   = stack.Vertical
	StackHorizontal = stack.Horizontal
)

func (e *Engine) CombineToStack(root paneid.ID, others []paneid.ID, o StackOrientation) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return stack.CombineToStack(e.st, root, others, o)
}

func (e *Engine) BreakOut(pane paneid.ID) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return stack.BreakOut(e.st, pane)
}

func (e *Engine) FocusWithinStack(pane paneid.ID) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return stack.FocusWithin(e.st, pane)
}

func (e *Engine) Reflow(rows, cols int) (engineerr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Reflow(rows, cols)
}

// ApplyLayout materializes a declarative tree, reserving one pane per
// leaf from pending in depth-first order. Focus lands on the first pane
// for the default client ("") if it had none; other clients' focus is not
// touched.
func (e *Engine) ApplyLayout(root layoutdef.Node, pending []paneid.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := layoutdef.Apply(e.st, root, pending); err != nil {
		return err
	}
	if len(pending) > 0 {
		if _, ok := e.st.Active(""); !ok {
			e.st.SetActive("", pending[0])
		}
	}
	return nil
}

// SwapLayout re-resolves the existing pane set against a new tree.
func (e *Engine) SwapLayout(root layoutdef.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return layoutdef.Swap(e.st, root)
}

// State exposes the underlying tiling state for tests and in-process
// callers that need queries the verb surface does not carry.
func (e *Engine) State() *tiling.State {
	return e.st
}
