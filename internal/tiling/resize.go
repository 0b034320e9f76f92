package tiling

import (
	"fmt"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/spatial"
)

// ResizeDirection selects which edge a resize moves, or the all-sides
// Increase/Decrease modes.
type ResizeDirection int

const (
	ResizeUp ResizeDirection = iota
	ResizeDown
	ResizeLeft
	ResizeRight
	ResizeIncrease
	ResizeDecrease
)

func (d ResizeDirection) String() string {
	switch d {
	case ResizeUp:
		return "up"
	case ResizeDown:
		return "down"
	case ResizeLeft:
		return "left"
	case ResizeRight:
		return "right"
	case ResizeIncrease:
		return "increase"
	default:
		return "decrease"
	}
}

// unit is the granularity resize works at: a lone tile, or an entire stack
// moving as one column. Treating the stack as a unit keeps its members'
// shared x/cols and contiguous rows intact through any edge movement.
type unit struct {
	ids   []paneid.ID // members top-to-bottom; a single id for a tile
	rect  paneid.Rect
	stack *paneid.StackID
}

func (u unit) contains(id paneid.ID) bool {
	for _, m := range u.ids {
		if m == id {
			return true
		}
	}
	return false
}

// minRows for a unit covers every titlebar's fixed row plus the flexible
// member's floor.
func (s *State) unitMinRows(u unit) int {
	if u.stack == nil {
		return s.MinRows()
	}
	return (len(u.ids) - 1) + s.MinRows()
}

// unitFor builds the resize unit containing id.
func (s *State) unitFor(id paneid.ID) (unit, bool) {
	g, ok := s.Geom(id)
	if !ok {
		return unit{}, false
	}
	if !g.InStack() {
		return unit{ids: []paneid.ID{id}, rect: g.Rect()}, true
	}
	sid := *g.Stacked
	members := s.stackMembers(sid)
	top, _ := s.Geom(members[0])
	total := 0
	for _, m := range members {
		mg, _ := s.Geom(m)
		total += mg.Rows.AsUsize()
	}
	r := paneid.Rect{X: top.X, Y: top.Y, Cols: top.Cols.AsUsize(), Rows: total}
	return unit{ids: members, rect: r, stack: &sid}, true
}

// allUnits returns every unit in the layout, stacks collapsed to one entry.
func (s *State) allUnits() []unit {
	var out []unit
	seen := make(map[paneid.StackID]bool)
	for _, kv := range s.Panes.Order {
		if kv.Value.Stacked != nil {
			if seen[*kv.Value.Stacked] {
				continue
			}
			seen[*kv.Value.Stacked] = true
		}
		u, _ := s.unitFor(kv.Key)
		out = append(out, u)
	}
	return out
}

// setUnitVert moves a unit to a new vertical range, repacking stacks so
// titlebars keep their single row and the flexible member absorbs the rest.
func (s *State) setUnitVert(u unit, y, rows int) {
	if u.stack != nil {
		// Repack never fails here: callers already checked unitMinRows.
		_ = s.RepackStack(*u.stack, u.ids, y, rows)
		return
	}
	g, _ := s.Geom(u.ids[0])
	g.Y = y
	g.Rows = percentOf(rows, s.Rows)
	s.SetGeom(u.ids[0], g)
}

// setUnitHorz moves a unit to a new horizontal range; stack members shift
// together so they keep sharing x and cols.
func (s *State) setUnitHorz(u unit, x, cols int) {
	for _, m := range u.ids {
		g, _ := s.Geom(m)
		g.X = x
		g.Cols = percentOf(cols, s.Cols)
		s.SetGeom(m, g)
	}
}

// Resize moves one of pane's edges by up to step cells in the given
// direction (growing the pane), or runs the Increase/Decrease all-sides
// modes. A resize with no room to move is a successful no-op rather than an
// error, so callers cannot tell "blocked" from "no change requested".
func (s *State) Resize(pane paneid.ID, dir ResizeDirection, step int) (engineerr.Result, error) {
	if s.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("resize: %w", engineerr.FullscreenBlocked)
	}
	if step <= 0 {
		return engineerr.NoOp, nil
	}
	u, ok := s.unitFor(pane)
	if !ok {
		return engineerr.NoOp, fmt.Errorf("resize: %w", notFound(pane))
	}

	before := s.snapshotRects()
	applied := 0

	switch dir {
	case ResizeUp, ResizeDown, ResizeLeft, ResizeRight:
		applied = s.growDirectional(u, toSpatial(dir), step)
	case ResizeIncrease:
		// Stop at the first side that yields progress, in the order
		// Right, Down, Left, Up.
		for _, side := range []spatial.Direction{spatial.Right, spatial.Down, spatial.Left, spatial.Up} {
			if applied = s.growDirectional(u, side, step); applied > 0 {
				break
			}
		}
	case ResizeDecrease:
		for _, side := range []spatial.Direction{spatial.Right, spatial.Down, spatial.Left, spatial.Up} {
			if applied = s.shrinkDirectional(u, side, step); applied > 0 {
				break
			}
		}
	}

	if applied == 0 {
		return engineerr.NoOp, nil
	}
	s.notifyChanged(before)
	return engineerr.Applied, nil
}

func toSpatial(d ResizeDirection) spatial.Direction {
	switch d {
	case ResizeUp:
		return spatial.Up
	case ResizeDown:
		return spatial.Down
	case ResizeLeft:
		return spatial.Left
	default:
		return spatial.Right
	}
}

// neighborUnits finds the units abutting u on the given side, and reports
// whether they tile u's edge exactly — each neighbor fully inside u's span
// on the orthogonal axis. A neighbor sticking past u's span would be torn
// by the edge movement, so the move is infeasible.
func (s *State) neighborUnits(u unit, side spatial.Direction) ([]unit, bool) {
	units := s.allUnits()
	index := make(map[paneid.ID]unit, len(units))
	var rects []spatial.Pane
	for _, cand := range units {
		if cand.contains(u.ids[0]) {
			continue
		}
		index[cand.ids[0]] = cand
		rects = append(rects, spatial.Pane{ID: cand.ids[0], Rect: cand.rect})
	}

	touching := spatial.Neighbors(rects, u.rect, side)
	if len(touching) == 0 {
		return nil, false
	}
	out := make([]unit, 0, len(touching))
	for _, t := range touching {
		switch side {
		case spatial.Up, spatial.Down:
			if t.Rect.X < u.rect.X || t.Rect.Right() > u.rect.Right() {
				return nil, false
			}
		default:
			if t.Rect.Y < u.rect.Y || t.Rect.Bottom() > u.rect.Bottom() {
				return nil, false
			}
		}
		out = append(out, index[t.ID])
	}
	return out, true
}

// growDirectional moves u's edge on the given side outward by up to step,
// shrinking the abutting units, and returns the cells actually moved.
func (s *State) growDirectional(u unit, side spatial.Direction, step int) int {
	neighbors, ok := s.neighborUnits(u, side)
	if !ok {
		return 0
	}

	delta := step
	for _, n := range neighbors {
		var slack int
		if side == spatial.Up || side == spatial.Down {
			slack = n.rect.Rows - s.unitMinRows(n)
		} else {
			slack = n.rect.Cols - s.MinCols()
		}
		if slack < delta {
			delta = slack
		}
	}
	if delta <= 0 {
		return 0
	}

	switch side {
	case spatial.Up:
		for _, n := range neighbors {
			s.setUnitVert(n, n.rect.Y, n.rect.Rows-delta)
		}
		s.setUnitVert(u, u.rect.Y-delta, u.rect.Rows+delta)
	case spatial.Down:
		for _, n := range neighbors {
			s.setUnitVert(n, n.rect.Y+delta, n.rect.Rows-delta)
		}
		s.setUnitVert(u, u.rect.Y, u.rect.Rows+delta)
	case spatial.Left:
		for _, n := range neighbors {
			s.setUnitHorz(n, n.rect.X, n.rect.Cols-delta)
		}
		s.setUnitHorz(u, u.rect.X-delta, u.rect.Cols+delta)
	case spatial.Right:
		for _, n := range neighbors {
			s.setUnitHorz(n, n.rect.X+delta, n.rect.Cols-delta)
		}
		s.setUnitHorz(u, u.rect.X, u.rect.Cols+delta)
	}
	return delta
}

// shrinkDirectional moves u's edge on the given side inward by up to step,
// growing the abutting units into the freed cells.
func (s *State) shrinkDirectional(u unit, side spatial.Direction, step int) int {
	neighbors, ok := s.neighborUnits(u, side)
	if !ok {
		return 0
	}

	var slack int
	if side == spatial.Up || side == spatial.Down {
		slack = u.rect.Rows - s.unitMinRows(u)
	} else {
		slack = u.rect.Cols - s.MinCols()
	}
	delta := step
	if slack < delta {
		delta = slack
	}
	if delta <= 0 {
		return 0
	}

	switch side {
	case spatial.Up:
		s.setUnitVert(u, u.rect.Y+delta, u.rect.Rows-delta)
		for _, n := range neighbors {
			s.setUnitVert(n, n.rect.Y, n.rect.Rows+delta)
		}
	case spatial.Down:
		s.setUnitVert(u, u.rect.Y, u.rect.Rows-delta)
		for _, n := range neighbors {
			s.setUnitVert(n, n.rect.Y-delta, n.rect.Rows+delta)
		}
	case spatial.Left:
		s.setUnitHorz(u, u.rect.X+delta, u.rect.Cols-delta)
		for _, n := range neighbors {
			s.setUnitHorz(n, n.rect.X, n.rect.Cols+delta)
		}
	case spatial.Right:
		s.setUnitHorz(u, u.rect.X, u.rect.Cols-delta)
		for _, n := range neighbors {
			s.setUnitHorz(n, n.rect.X-delta, n.rect.Cols+delta)
		}
	}
	return delta
}
