package tiling

import (
	"fmt"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/geom"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/spatial"
)

// Reflow recomputes every pane's geometry for a new screen size. Edges are
// mapped proportionally (both endpoints of the screen map exactly), which
// keeps shared edges shared — the layout stays gap-free and overlap-free by
// construction. Fixed-size tiles are then nudged back to their exact cell
// count where their neighbors can absorb the difference, and a final pass
// grows any pane the rounding pushed below the minimum. Reflowing to the
// current size is a no-op.
func (s *State) Reflow(newRows, newCols int) (engineerr.Result, error) {
	if newRows <= 0 || newCols <= 0 {
		return engineerr.NoOp, fmt.Errorf("reflow: invalid screen size %dx%d", newCols, newRows)
	}
	if newRows == s.Rows && newCols == s.Cols {
		return engineerr.NoOp, nil
	}

	before := s.snapshotRects()
	oldRows, oldCols := s.Rows, s.Cols
	s.Rows, s.Cols = newRows, newCols

	if s.InFullscreen() {
		// Reflow the hidden snapshot so leaving fullscreen lands on a
		// layout matching the new screen, then stretch the visible pane.
		visible := s.Panes
		s.Panes = s.fullscreen.panes
		s.reflowPanes(oldRows, oldCols)
		s.fullscreen.panes = s.Panes
		s.Panes = visible

		g, ok := s.Geom(s.fullscreen.target)
		if ok {
			g.X, g.Y = 0, 0
			g.Cols = percentOf(newCols, newCols)
			g.Rows = percentOf(newRows, newRows)
			s.SetGeom(s.fullscreen.target, g)
		}
		s.notifyChanged(before)
		return engineerr.Applied, nil
	}

	s.reflowPanes(oldRows, oldCols)
	s.notifyChanged(before)
	return engineerr.Applied, nil
}

// reflowPanes rescales s.Panes from the old extent to the current
// s.Rows/s.Cols. The caller has already updated the screen fields.
func (s *State) reflowPanes(oldRows, oldCols int) {
	type fixedIntent struct {
		id   paneid.ID
		cols int // 0 = not fixed on this axis
		rows int
	}
	var intents []fixedIntent
	for _, kv := range s.Panes.Order {
		fi := fixedIntent{id: kv.Key}
		if kv.Value.Cols.IsFixed() {
			fi.cols = kv.Value.Cols.AsUsize()
		}
		if kv.Value.Rows.IsFixed() && kv.Value.Stacked == nil {
			fi.rows = kv.Value.Rows.AsUsize()
		}
		if fi.cols > 0 || fi.rows > 0 {
			intents = append(intents, fi)
		}
	}

	for _, u := range s.allUnits() {
		x := scaleEdge(u.rect.X, oldCols, s.Cols)
		right := scaleEdge(u.rect.Right(), oldCols, s.Cols)
		y := scaleEdge(u.rect.Y, oldRows, s.Rows)
		bottom := scaleEdge(u.rect.Bottom(), oldRows, s.Rows)
		s.setUnitHorz(u, x, right-x)
		s.setUnitVert(u, y, bottom-y)
	}

	// Nudge fixed-size tiles back to their exact cell count where the
	// adjacent panes can give or take the difference, then re-mark the
	// restored axis as fixed (the edge moves above rewrote it as percent).
	for _, fi := range intents {
		u, ok := s.unitFor(fi.id)
		if !ok {
			continue
		}
		if fi.cols > 0 {
			s.adjustToWidth(u, fi.cols)
			if g, ok := s.Geom(fi.id); ok && g.Cols.AsUsize() == fi.cols {
				g.Cols = geom.Fixed(fi.cols)
				s.SetGeom(fi.id, g)
			}
		}
		if fi.rows > 0 {
			u, _ = s.unitFor(fi.id)
			s.adjustToHeight(u, fi.rows)
			if g, ok := s.Geom(fi.id); ok && g.Rows.AsUsize() == fi.rows {
				g.Rows = geom.Fixed(fi.rows)
				s.SetGeom(fi.id, g)
			}
		}
	}

	s.restoreMinimums()
	s.normalizePercents()
}

// scaleEdge maps an edge coordinate from the old extent to the new one,
// rounding to nearest. Monotone, and exact at both screen boundaries, so
// two rectangles sharing an edge before still share it after.
func scaleEdge(edge, oldTotal, newTotal int) int {
	if oldTotal == 0 {
		return 0
	}
	return (edge*newTotal + oldTotal/2) / oldTotal
}

// adjustToWidth grows or shrinks a unit toward an exact column count,
// stopping early when no aligned neighbor can absorb the change.
func (s *State) adjustToWidth(u unit, want int) {
	diff := want - u.rect.Cols
	switch {
	case diff > 0:
		if s.growDirectional(u, spatial.Right, diff) == 0 {
			s.growDirectional(u, spatial.Left, diff)
		}
	case diff < 0:
		if s.shrinkDirectional(u, spatial.Right, -diff) == 0 {
			s.shrinkDirectional(u, spatial.Left, -diff)
		}
	}
}

func (s *State) adjustToHeight(u unit, want int) {
	diff := want - u.rect.Rows
	switch {
	case diff > 0:
		if s.growDirectional(u, spatial.Down, diff) == 0 {
			s.growDirectional(u, spatial.Up, diff)
		}
	case diff < 0:
		if s.shrinkDirectional(u, spatial.Down, -diff) == 0 {
			s.shrinkDirectional(u, spatial.Up, -diff)
		}
	}
}

// restoreMinimums grows panes the rescale left below the size floor, taking
// cells from neighbors with slack. Best effort: on a screen too small to
// fit every pane at minimum size some panes stay undersized until a later
// reflow gives them room back.
func (s *State) restoreMinimums() {
	for pass := 0; pass < 4; pass++ {
		changed := false
		for _, kv := range s.Panes.Order {
			u, ok := s.unitFor(kv.Key)
			if !ok {
				continue
			}
			if need := s.MinCols() - u.rect.Cols; need > 0 {
				got := s.growDirectional(u, spatial.Right, need)
				if got < need {
					u, _ = s.unitFor(kv.Key)
					got += s.growDirectional(u, spatial.Left, need-got)
				}
				changed = changed || got > 0
			}
			u, _ = s.unitFor(kv.Key)
			if need := s.unitMinRows(u) - u.rect.Rows; need > 0 {
				got := s.growDirectional(u, spatial.Down, need)
				if got < need {
					u, _ = s.unitFor(kv.Key)
					got += s.growDirectional(u, spatial.Up, need-got)
				}
				changed = changed || got > 0
			}
		}
		if !changed {
			return
		}
	}
}

// normalizePercents refreshes every percent dimension's share from its
// resolved inner against the current screen, so intent and geometry agree
// going into the next reflow.
func (s *State) normalizePercents() {
	for _, kv := range s.Panes.Order {
		g := kv.Value
		touched := false
		if g.Cols.IsPercent() {
			g.Cols = percentOf(g.Cols.AsUsize(), s.Cols)
			touched = true
		}
		if g.Rows.IsPercent() {
			g.Rows = percentOf(g.Rows.AsUsize(), s.Rows)
			touched = true
		}
		if touched {
			s.SetGeom(kv.Key, g)
		}
	}
}
