// Package enginecontracts defines the narrow capability surface the engine
// consumes for each pane it manages. The engine never touches a terminal,
// PTY, or plugin directly — it only ever calls through this interface, so
// no I/O concern leaks into the geometry packages.
package enginecontracts

import "github.com/1broseidon/paned/internal/paneid"

// Pane is the capability an external system registers per PaneId so the
// engine can push geometry changes and read display metadata. Backends
// implement this over a real terminal, a plugin surface, or (in tests) a
// plain struct literal.
type Pane interface {
	// SetGeom is called once per verb for every pane whose rectangle
	// changed; panes whose geometry is unaffected must not receive a
	// call.
	SetGeom(r paneid.Rect)
	// CurrentGeom returns the effective rectangle, taking any
	// fullscreen override into account.
	CurrentGeom() paneid.Rect
	// Title returns display text for stack titlebars and rendering.
	Title() string
	// PID returns the backing process id, or 0 if the pane has none
	// (e.g. a plugin pane).
	PID() int
}

// Stub is a minimal Pane used by tests and by callers that only need to
// track geometry without a backing process.
type Stub struct {
	Geom      paneid.Rect
	PaneTitle string
	Pid       int
}

func (s *Stub) SetGeom(r paneid.Rect)    { s.Geom = r }
func (s *Stub) CurrentGeom() paneid.Rect { return s.Geom }
func (s *Stub) Title() string            { return s.PaneTitle }
func (s *Stub) PID() int                 { return s.Pid }
