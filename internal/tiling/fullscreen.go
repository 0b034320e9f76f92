package tiling

import (
	"fmt"

	"cogentcore.org/core/base/ordmap"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/paneid"
)

// ToggleFullscreen enters fullscreen for pane (snapshotting every current
// geometry first) or, if a snapshot is already held, restores it and leaves
// fullscreen. While the snapshot exists the split, resize, focus, move and
// stack verbs are soft no-ops, so toggling twice restores the pane set
// exactly. Closing the fullscreen pane leaves fullscreen first, and reflow
// rescales both the snapshot and the visible pane.
func (s *State) ToggleFullscreen(pane paneid.ID) (engineerr.Result, error) {
	before := s.snapshotRects()

	if s.InFullscreen() {
		if err := s.exitFullscreenLocked(); err != nil {
			return engineerr.NoOp, fmt.Errorf("toggle_fullscreen: %w", err)
		}
		s.notifyChanged(before)
		return engineerr.Applied, nil
	}

	g, ok := s.Geom(pane)
	if !ok {
		return engineerr.NoOp, fmt.Errorf("toggle_fullscreen: %w", notFound(pane))
	}

	saved := ordmap.New[paneid.ID, paneid.Geom]()
	for _, kv := range s.Panes.Order {
		saved.Add(kv.Key, kv.Value.Clone())
	}
	s.fullscreen = &snapshot{panes: saved, target: pane}

	g.X = 0
	g.Y = 0
	g.Cols = percentOf(s.Cols, s.Cols)
	g.Rows = percentOf(s.Rows, s.Rows)
	s.SetGeom(pane, g)

	s.notifyChanged(before)
	return engineerr.Applied, nil
}

// FullscreenPane returns the pane currently shown fullscreen, if any.
func (s *State) FullscreenPane() (paneid.ID, bool) {
	if s.fullscreen == nil {
		return paneid.ID{}, false
	}
	return s.fullscreen.target, true
}

// exitFullscreenLocked restores the saved pane set and drops the snapshot.
// Callers are responsible for the before/after SetGeom diff.
func (s *State) exitFullscreenLocked() error {
	if s.fullscreen == nil {
		return fmt.Errorf("exit fullscreen: no snapshot held")
	}
	s.Panes = s.fullscreen.panes
	s.fullscreen = nil
	return nil
}
