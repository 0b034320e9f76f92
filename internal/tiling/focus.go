package tiling

import (
	"fmt"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/spatial"
)

// MoveFocus shifts a client's focus to the best pane on the given side of
// its active pane: the most recently focused neighbor if any appears in
// the client's focus history, otherwise the neighbor whose center is
// nearest on the parallel axis. With no neighbor on that side the verb is
// a no-op.
func (s *State) MoveFocus(client ClientID, dir spatial.Direction) (engineerr.Result, error) {
	if s.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("move_focus: %w", engineerr.FullscreenBlocked)
	}
	active, ok := s.active[client]
	if !ok {
		return engineerr.NoOp, fmt.Errorf("move_focus: no active pane for client %q: %w", client, engineerr.NotFound)
	}
	target, ok := s.chooseCandidate(client, active, dir)
	if !ok {
		return engineerr.NoOp, nil
	}
	s.SetActive(client, target)
	return engineerr.Applied, nil
}

// MovePane swaps the active pane's geometry with the candidate chosen the
// same way MoveFocus chooses, keeping each pane's logical position so UI
// ordering is unaffected by the move. Focus follows the moved pane.
func (s *State) MovePane(client ClientID, dir spatial.Direction) (engineerr.Result, error) {
	if s.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("move_pane: %w", engineerr.FullscreenBlocked)
	}
	active, ok := s.active[client]
	if !ok {
		return engineerr.NoOp, fmt.Errorf("move_pane: no active pane for client %q: %w", client, engineerr.NotFound)
	}
	target, ok := s.chooseCandidate(client, active, dir)
	if !ok {
		return engineerr.NoOp, nil
	}

	before := s.snapshotRects()

	ag, _ := s.Geom(active)
	tg, _ := s.Geom(target)
	ag.X, tg.X = tg.X, ag.X
	ag.Y, tg.Y = tg.Y, ag.Y
	ag.Cols, tg.Cols = tg.Cols, ag.Cols
	ag.Rows, tg.Rows = tg.Rows, ag.Rows
	ag.Stacked, tg.Stacked = tg.Stacked, ag.Stacked
	s.SetGeom(active, ag)
	s.SetGeom(target, tg)

	s.notifyChanged(before)
	return engineerr.Applied, nil
}

// chooseCandidate picks the neighbor of pane on the given side per the
// focus-move tie-break: recency in the client's focus history first, then
// nearest center on the axis parallel to the shared edge.
func (s *State) chooseCandidate(client ClientID, pane paneid.ID, dir spatial.Direction) (paneid.ID, bool) {
	g, ok := s.Geom(pane)
	if !ok {
		return paneid.ID{}, false
	}
	candidates := spatial.Neighbors(s.allPanesExcept(pane), g.Rect(), dir)
	if len(candidates) == 0 {
		return paneid.ID{}, false
	}
	if len(candidates) == 1 {
		return candidates[0].ID, true
	}

	inCandidates := func(id paneid.ID) bool {
		for _, c := range candidates {
			if c.ID == id {
				return true
			}
		}
		return false
	}
	for _, h := range s.history[client] {
		if h == pane {
			continue
		}
		if inCandidates(h) {
			return h, true
		}
	}

	ref := g.Rect()
	best := candidates[0]
	bestDist := centerDistance(best.Rect, ref, dir)
	for _, c := range candidates[1:] {
		if d := centerDistance(c.Rect, ref, dir); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best.ID, true
}

// centerDistance measures how far a candidate's center is from the
// reference pane's center along the axis parallel to the shared edge.
func centerDistance(c, ref paneid.Rect, dir spatial.Direction) int {
	var d int
	if dir == spatial.Up || dir == spatial.Down {
		d = c.CenterX() - ref.CenterX()
	} else {
		d = c.CenterY() - ref.CenterY()
	}
	if d < 0 {
		return -d
	}
	return d
}
