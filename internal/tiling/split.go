package tiling

import (
	"fmt"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/geom"
	"github.com/1broseidon/paned/internal/paneid"
)

// SplitHorizontal halves parent's rows into two percent dimensions summing
// to the original, placing new below parent.
func (s *State) SplitHorizontal(parent, newID paneid.ID) (engineerr.Result, error) {
	if s.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("split_horizontal: %w", engineerr.FullscreenBlocked)
	}
	p, ok := s.Geom(parent)
	if !ok {
		return engineerr.NoOp, fmt.Errorf("split_horizontal: %w", notFound(parent))
	}

	// The parent keeps the larger half of an odd split.
	total := p.Rows.AsUsize()
	bottom := total / 2
	top := total - bottom
	if top < s.MinRows() || bottom < s.MinRows() {
		return engineerr.NoOp, fmt.Errorf("split_horizontal: halves %d/%d: %w", top, bottom, engineerr.MinSizeViolated)
	}

	before := s.snapshotRects()

	p.Rows = percentOf(top, s.Rows)
	child := p
	child.Y = p.Y + top
	child.Rows = percentOf(bottom, s.Rows)
	child.LogicalPosition = s.reserveNextPosition()
	child.Stacked = nil

	s.SetGeom(parent, p)
	s.SetGeom(newID, child)

	s.notifyChanged(before)
	return engineerr.Applied, nil
}

// SplitVertical halves parent's cols into two percent dimensions summing
// to the original, placing new to the right of parent.
func (s *State) SplitVertical(parent, newID paneid.ID) (engineerr.Result, error) {
	if s.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("split_vertical: %w", engineerr.FullscreenBlocked)
	}
	p, ok := s.Geom(parent)
	if !ok {
		return engineerr.NoOp, fmt.Errorf("split_vertical: %w", notFound(parent))
	}

	// The parent keeps the larger half of an odd split.
	total := p.Cols.AsUsize()
	right := total / 2
	left := total - right
	if left < s.MinCols() || right < s.MinCols() {
		return engineerr.NoOp, fmt.Errorf("split_vertical: halves %d/%d: %w", left, right, engineerr.MinSizeViolated)
	}

	before := s.snapshotRects()

	p.Cols = percentOf(left, s.Cols)
	child := p
	child.X = p.X + left
	child.Cols = percentOf(right, s.Cols)
	child.LogicalPosition = s.reserveNextPosition()
	child.Stacked = nil

	s.SetGeom(parent, p)
	s.SetGeom(newID, child)

	s.notifyChanged(before)
	return engineerr.Applied, nil
}

// SplitLargest picks the pane with the largest area (ties broken by
// columns > rows, then by smaller logical_position) and splits it along
// its longer axis.
func (s *State) SplitLargest(newID paneid.ID) (engineerr.Result, error) {
	if s.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("split_largest: %w", engineerr.FullscreenBlocked)
	}
	if s.Panes.Len() == 0 {
		return engineerr.NoOp, fmt.Errorf("split_largest: %w", engineerr.NotFound)
	}

	var chosen paneid.ID
	var chosenGeom paneid.Geom
	haveChosen := false
	for _, kv := range s.Panes.Order {
		g := kv.Value
		if !haveChosen {
			chosen, chosenGeom, haveChosen = kv.Key, g, true
			continue
		}
		if better := compareForLargest(g, chosenGeom); better {
			chosen, chosenGeom = kv.Key, g
		}
	}

	if chosenGeom.Cols.AsUsize() > chosenGeom.Rows.AsUsize() {
		return s.SplitVertical(chosen, newID)
	}
	return s.SplitHorizontal(chosen, newID)
}

// compareForLargest reports whether a should replace b as the chosen
// largest pane: larger area wins; ties prefer the wider pane
// (cols > rows); remaining ties prefer the smaller logical_position.
func compareForLargest(a, b paneid.Geom) bool {
	aArea, bArea := a.Rect().Area(), b.Rect().Area()
	if aArea != bArea {
		return aArea > bArea
	}
	aWide := a.Cols.AsUsize() > a.Rows.AsUsize()
	bWide := b.Cols.AsUsize() > b.Rows.AsUsize()
	if aWide != bWide {
		return aWide
	}
	return a.LogicalPosition < b.LogicalPosition
}

// percentOf is a local alias for geom.PercentOf, used heavily enough here
// that the shorter name keeps the edit code readable.
func percentOf(inner, total int) geom.Dimension {
	return geom.PercentOf(inner, total)
}
