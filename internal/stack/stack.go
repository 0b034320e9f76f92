// Package stack implements the stacking engine: merging aligned tiles into
// a single column where one member is visible at its full height and every
// other member collapses to a one-row titlebar, plus the break-out and
// within-stack focus operations. All geometry flows through the tiling
// engine's state; this package only decides who is flexible, who is a
// titlebar, and where the column's rows go.
package stack

import (
	"fmt"
	"sort"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/geom"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/tiling"
)

// Orientation selects which alignment CombineToStack merges along.
type Orientation int

const (
	// Vertical merges panes stacked on top of each other (sharing x and
	// cols) into one column.
	Vertical Orientation = iota
	// Horizontal merges side-by-side panes (sharing y and rows) into a
	// column occupying their combined cells.
	Horizontal
)

// CombineToStack merges root and the given panes into one stack per the
// orientation. Inputs must be aligned and contiguous; the merge reuses an
// input's existing stack id if one is already stacked, otherwise a fresh
// id is assigned.
func CombineToStack(st *tiling.State, root paneid.ID, others []paneid.ID, o Orientation) (engineerr.Result, error) {
	if o == Horizontal {
		return combineHorizontal(st, root, others)
	}
	return combineVertical(st, root, others)
}

// combineVertical merges vertically aligned panes: they already share x
// and cols and sit on top of each other, so the column is exactly their
// union. The tallest member stays visible; the rest become titlebars.
func combineVertical(st *tiling.State, root paneid.ID, others []paneid.ID) (engineerr.Result, error) {
	if st.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %w", engineerr.FullscreenBlocked)
	}
	members, err := gatherMembers(st, root, others)
	if err != nil {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %w", err)
	}

	first, _ := st.Geom(members[0])
	x, cols := first.X, first.Cols.AsUsize()
	top := first.Y
	total := 0
	prevBottom := top
	for _, m := range members {
		g, _ := st.Geom(m)
		if g.X != x || g.Cols.AsUsize() != cols {
			return engineerr.NoOp, fmt.Errorf("combine_to_stack: pane %s not vertically aligned: %w", m, engineerr.StackInvariant)
		}
		if g.Y != prevBottom {
			return engineerr.NoOp, fmt.Errorf("combine_to_stack: gap at row %d: %w", prevBottom, engineerr.StackInvariant)
		}
		prevBottom = g.Y + g.Rows.AsUsize()
		total += g.Rows.AsUsize()
	}
	if total < len(members)-1+st.MinRows() {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %d rows for %d members: %w", total, len(members), engineerr.MinSizeViolated)
	}

	before := st.SnapshotRects()
	id := stackIDFor(st, members)
	demoteAllBut(st, members, chooseFlexible(st, members))
	if err := st.RepackStack(id, members, top, total); err != nil {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %w", err)
	}
	st.NotifyChanged(before)
	return engineerr.Applied, nil
}

// combineHorizontal merges side-by-side panes into a stack occupying their
// combined cells: the column takes the union's x and width, and every
// member collapses into it.
func combineHorizontal(st *tiling.State, main paneid.ID, neighbors []paneid.ID) (engineerr.Result, error) {
	if st.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %w", engineerr.FullscreenBlocked)
	}
	members, err := gatherMembersHorizontal(st, main, neighbors)
	if err != nil {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %w", err)
	}

	first, _ := st.Geom(members[0])
	y, rows := first.Y, first.Rows.AsUsize()
	x := first.X
	totalCols := 0
	prevRight := x
	for _, m := range members {
		g, _ := st.Geom(m)
		if g.Y != y || g.Rows.AsUsize() != rows {
			return engineerr.NoOp, fmt.Errorf("combine_to_stack: pane %s not horizontally aligned: %w", m, engineerr.StackInvariant)
		}
		if g.X != prevRight {
			return engineerr.NoOp, fmt.Errorf("combine_to_stack: gap at column %d: %w", prevRight, engineerr.StackInvariant)
		}
		prevRight = g.X + g.Cols.AsUsize()
		totalCols += g.Cols.AsUsize()
	}
	if rows < len(members)-1+st.MinRows() {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %d rows for %d members: %w", rows, len(members), engineerr.MinSizeViolated)
	}

	before := st.SnapshotRects()
	id := stackIDFor(st, members)
	flex := chooseFlexible(st, members)
	for _, m := range members {
		g, _ := st.Geom(m)
		g.X = x
		g.Cols = geom.PercentOf(totalCols, st.Cols)
		st.SetGeom(m, g)
	}
	demoteAllBut(st, members, flex)
	if err := st.RepackStack(id, members, y, rows); err != nil {
		return engineerr.NoOp, fmt.Errorf("combine_to_stack: %w", err)
	}
	st.NotifyChanged(before)
	return engineerr.Applied, nil
}

// BreakOut removes pane from its stack and gives it its own tile carved
// from the column: a top member ejects upward, a bottom member downward,
// and a middle titlebar ejects toward the side with fewer titlebars (ties
// go down). A single remaining member dissolves the stack.
func BreakOut(st *tiling.State, pane paneid.ID) (engineerr.Result, error) {
	if st.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("break_out: %w", engineerr.FullscreenBlocked)
	}
	g, ok := st.Geom(pane)
	if !ok {
		return engineerr.NoOp, fmt.Errorf("break_out: pane %s: %w", pane, engineerr.NotFound)
	}
	if !g.InStack() {
		return engineerr.NoOp, fmt.Errorf("break_out: pane %s is not stacked: %w", pane, engineerr.StackInvariant)
	}
	id := *g.Stacked
	members := st.StackMembers(id)
	if len(members) < 2 {
		return engineerr.NoOp, fmt.Errorf("break_out: stack %s has %d members: %w", id, len(members), engineerr.StackInvariant)
	}

	idx := 0
	for i, m := range members {
		if m == pane {
			idx = i
		}
	}
	topG, _ := st.Geom(members[0])
	top := topG.Y
	total := 0
	for _, m := range members {
		mg, _ := st.Geom(m)
		total += mg.Rows.AsUsize()
	}

	remaining := make([]paneid.ID, 0, len(members)-1)
	for _, m := range members {
		if m != pane {
			remaining = append(remaining, m)
		}
	}

	// Column split: the ejected tile takes half the column, clamped so
	// both sides keep their minimums.
	remainingMin := st.MinRows()
	if len(remaining) > 1 {
		remainingMin = len(remaining) - 1 + st.MinRows()
	}
	eject := total / 2
	if eject < st.MinRows() {
		eject = st.MinRows()
	}
	if eject > total-remainingMin {
		eject = total - remainingMin
	}
	if eject < st.MinRows() {
		return engineerr.NoOp, fmt.Errorf("break_out: %d rows cannot fit tile and stack: %w", total, engineerr.MinSizeViolated)
	}

	upward := ejectsUpward(st, members, idx)

	before := st.SnapshotRects()

	wasFlexible := g.Rows.IsPercent()
	g.Stacked = nil
	if upward {
		g.Y = top
		g.Rows = geom.PercentOf(eject, st.Rows)
	} else {
		g.Y = top + total - eject
		g.Rows = geom.PercentOf(eject, st.Rows)
	}
	st.SetGeom(pane, g)

	stackTop := top
	if upward {
		stackTop = top + eject
	}
	stackRows := total - eject

	if len(remaining) == 1 {
		// Dissolve: the survivor becomes a plain tile over the rest of
		// the column.
		rg, _ := st.Geom(remaining[0])
		rg.Stacked = nil
		rg.Y = stackTop
		rg.Rows = geom.PercentOf(stackRows, st.Rows)
		st.SetGeom(remaining[0], rg)
		st.NotifyChanged(before)
		return engineerr.Applied, nil
	}

	if wasFlexible {
		// The neighbor the policy names inherits visibility: the member
		// below a departing top, the member above a departing bottom.
		heir := remaining[0]
		if idx >= len(members)-1 {
			heir = remaining[len(remaining)-1]
		} else if idx > 0 {
			heir = remaining[idx] // member directly below the departed one
		}
		hg, _ := st.Geom(heir)
		hg.Rows = geom.PercentOf(hg.Rows.AsUsize(), st.Rows)
		st.SetGeom(heir, hg)
		demoteAllBut(st, remaining, heir)
	}
	if err := st.RepackStack(id, remaining, stackTop, stackRows); err != nil {
		return engineerr.NoOp, fmt.Errorf("break_out: %w", err)
	}
	st.NotifyChanged(before)
	return engineerr.Applied, nil
}

// FocusWithin promotes a titlebar to be the stack's visible member: the
// previously flexible pane collapses to one row, the promoted pane takes
// the column's remaining height, and the titlebars re-stack around it.
func FocusWithin(st *tiling.State, pane paneid.ID) (engineerr.Result, error) {
	if st.InFullscreen() {
		return engineerr.NoOp, fmt.Errorf("focus_within_stack: %w", engineerr.FullscreenBlocked)
	}
	g, ok := st.Geom(pane)
	if !ok {
		return engineerr.NoOp, fmt.Errorf("focus_within_stack: pane %s: %w", pane, engineerr.NotFound)
	}
	if !g.InStack() {
		return engineerr.NoOp, fmt.Errorf("focus_within_stack: pane %s is not stacked: %w", pane, engineerr.StackInvariant)
	}
	if g.Rows.IsPercent() {
		return engineerr.NoOp, nil // already the visible member
	}
	id := *g.Stacked
	members := st.StackMembers(id)

	topG, _ := st.Geom(members[0])
	top := topG.Y
	total := 0
	for _, m := range members {
		mg, _ := st.Geom(m)
		total += mg.Rows.AsUsize()
	}

	before := st.SnapshotRects()
	demoteAllBut(st, members, pane)
	g, _ = st.Geom(pane)
	g.Rows = geom.PercentOf(g.Rows.AsUsize(), st.Rows)
	st.SetGeom(pane, g)
	if err := st.RepackStack(id, members, top, total); err != nil {
		return engineerr.NoOp, fmt.Errorf("focus_within_stack: %w", err)
	}
	st.NotifyChanged(before)
	return engineerr.Applied, nil
}

// gatherMembers validates existence and returns root plus others sorted
// top to bottom.
func gatherMembers(st *tiling.State, root paneid.ID, others []paneid.ID) ([]paneid.ID, error) {
	members := append([]paneid.ID{root}, others...)
	if len(members) < 2 {
		return nil, fmt.Errorf("need at least two panes: %w", engineerr.StackInvariant)
	}
	for _, m := range members {
		if _, ok := st.Geom(m); !ok {
			return nil, fmt.Errorf("pane %s: %w", m, engineerr.NotFound)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		gi, _ := st.Geom(members[i])
		gj, _ := st.Geom(members[j])
		return gi.Y < gj.Y
	})
	return members, nil
}

// gatherMembersHorizontal sorts left to right instead.
func gatherMembersHorizontal(st *tiling.State, main paneid.ID, neighbors []paneid.ID) ([]paneid.ID, error) {
	members := append([]paneid.ID{main}, neighbors...)
	if len(members) < 2 {
		return nil, fmt.Errorf("need at least two panes: %w", engineerr.StackInvariant)
	}
	for _, m := range members {
		if _, ok := st.Geom(m); !ok {
			return nil, fmt.Errorf("pane %s: %w", m, engineerr.NotFound)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		gi, _ := st.Geom(members[i])
		gj, _ := st.Geom(members[j])
		return gi.X < gj.X
	})
	return members, nil
}

// stackIDFor reuses the first existing stack id among members, or mints a
// fresh one.
func stackIDFor(st *tiling.State, members []paneid.ID) paneid.StackID {
	for _, m := range members {
		if g, ok := st.Geom(m); ok && g.Stacked != nil {
			return *g.Stacked
		}
	}
	return paneid.NewStackID()
}

// chooseFlexible picks the member that stays visible after a combine: the
// one with the most rows, ties broken by smaller logical position.
func chooseFlexible(st *tiling.State, members []paneid.ID) paneid.ID {
	best := members[0]
	bg, _ := st.Geom(best)
	for _, m := range members[1:] {
		mg, _ := st.Geom(m)
		switch {
		case mg.Rows.AsUsize() > bg.Rows.AsUsize():
			best, bg = m, mg
		case mg.Rows.AsUsize() == bg.Rows.AsUsize() && mg.LogicalPosition < bg.LogicalPosition:
			best, bg = m, mg
		}
	}
	return best
}

// demoteAllBut converts every member except keep into a one-row titlebar,
// so the following RepackStack promotes exactly keep.
func demoteAllBut(st *tiling.State, members []paneid.ID, keep paneid.ID) {
	for _, m := range members {
		if m == keep {
			continue
		}
		g, _ := st.Geom(m)
		g.Rows = geom.Fixed(1)
		st.SetGeom(m, g)
	}
}

// ejectsUpward decides which way a break-out leaves the column: end
// members leave past their own edge; a middle titlebar goes toward the
// side with fewer titlebars, ties going down.
func ejectsUpward(st *tiling.State, members []paneid.ID, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx == len(members)-1 {
		return false
	}
	titlebarsAbove, titlebarsBelow := 0, 0
	for i, m := range members {
		g, _ := st.Geom(m)
		if g.Rows.IsPercent() {
			continue
		}
		if i < idx {
			titlebarsAbove++
		} else if i > idx {
			titlebarsBelow++
		}
	}
	return titlebarsAbove < titlebarsBelow
}
