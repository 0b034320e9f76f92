package stack

import (
	"testing"

	"github.com/1broseidon/paned/internal/geom"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/tiling"
)

// column builds a state whose screen is one column of n equal-height
// panes, returning the ids top to bottom.
func column(t *testing.T, rows, cols, n int) (*tiling.State, []paneid.ID) {
	t.Helper()
	s := tiling.NewState(rows, cols, false)
	per := rows / n
	ids := make([]paneid.ID, n)
	y := 0
	for i := 0; i < n; i++ {
		h := per
		if i == n-1 {
			h = rows - y
		}
		ids[i] = paneid.New()
		s.SetGeom(ids[i], paneid.Geom{
			X:               0,
			Y:               y,
			Cols:            geom.PercentOf(cols, cols),
			Rows:            geom.PercentOf(h, rows),
			LogicalPosition: s.ReservePosition(),
		})
		y += h
	}
	s.SetActive("", ids[0])
	return s, ids
}

// stackShape verifies the stack invariants for one stack id and returns
// the flexible member.
func stackShape(t *testing.T, s *tiling.State, id paneid.StackID) paneid.ID {
	t.Helper()
	members := s.StackMembers(id)
	if len(members) == 0 {
		t.Fatalf("stack %s has no members", id)
	}
	first, _ := s.Geom(members[0])
	cursor := first.Y
	var flexible paneid.ID
	flexCount := 0
	for _, m := range members {
		g, _ := s.Geom(m)
		if g.X != first.X || g.Cols.AsUsize() != first.Cols.AsUsize() {
			t.Fatalf("member %s breaks shared x/cols", m)
		}
		if g.Y != cursor {
			t.Fatalf("member %s at y %d, expected %d", m, g.Y, cursor)
		}
		cursor += g.Rows.AsUsize()
		if g.Rows.IsPercent() {
			flexible = m
			flexCount++
		} else if g.Rows.AsUsize() != 1 {
			t.Fatalf("titlebar %s has %d rows", m, g.Rows.AsUsize())
		}
	}
	if flexCount != 1 {
		t.Fatalf("stack has %d flexible members, want 1", flexCount)
	}
	return flexible
}

func TestCombineVertical_TwoPanes(t *testing.T) {
	s, ids := column(t, 100, 121, 2)
	a, b := ids[0], ids[1]

	if _, err := CombineToStack(s, a, []paneid.ID{b}, Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}

	ga, _ := s.Geom(a)
	if ga.Stacked == nil {
		t.Fatalf("a not stacked")
	}
	flex := stackShape(t, s, *ga.Stacked)
	if flex != a {
		t.Fatalf("expected a (equal rows, lower position) to stay visible, got %v", flex)
	}
	fg, _ := s.Geom(flex)
	if fg.Rows.AsUsize() != 99 {
		t.Fatalf("flexible member rows = %d, want 99", fg.Rows.AsUsize())
	}
	gb, _ := s.Geom(b)
	if gb.Rows.AsUsize() != 1 || gb.Y != 99 {
		t.Fatalf("titlebar = y %d rows %d, want y 99 rows 1", gb.Y, gb.Rows.AsUsize())
	}
}

func TestCombineVertical_NonContiguousFails(t *testing.T) {
	s, ids := column(t, 100, 121, 3)
	// Skipping the middle pane leaves a gap in the combined range.
	if _, err := CombineToStack(s, ids[0], []paneid.ID{ids[2]}, Vertical); err == nil {
		t.Fatalf("expected stack-invariant rejection")
	}
	for _, id := range ids {
		g, _ := s.Geom(id)
		if g.Stacked != nil {
			t.Fatalf("failed combine left pane %s stacked", id)
		}
	}
}

func TestCombineHorizontal_MergesColumns(t *testing.T) {
	s := tiling.NewState(50, 120, false)
	a := paneid.New()
	b := paneid.New()
	s.SetGeom(a, paneid.Geom{X: 0, Y: 0, Cols: geom.PercentOf(60, 120), Rows: geom.PercentOf(50, 50), LogicalPosition: s.ReservePosition()})
	s.SetGeom(b, paneid.Geom{X: 60, Y: 0, Cols: geom.PercentOf(60, 120), Rows: geom.PercentOf(50, 50), LogicalPosition: s.ReservePosition()})
	s.SetActive("", a)

	if _, err := CombineToStack(s, a, []paneid.ID{b}, Horizontal); err != nil {
		t.Fatalf("combine: %v", err)
	}
	ga, _ := s.Geom(a)
	if ga.Stacked == nil {
		t.Fatalf("a not stacked")
	}
	stackShape(t, s, *ga.Stacked)
	if ga.X != 0 || ga.Cols.AsUsize() != 120 {
		t.Fatalf("stack should span merged width, got x %d cols %d", ga.X, ga.Cols.AsUsize())
	}
}

func TestCombineThenBreakOut_RestoresGeometry(t *testing.T) {
	s, ids := column(t, 100, 121, 2)
	a, b := ids[0], ids[1]

	if _, err := CombineToStack(s, a, []paneid.ID{b}, Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}
	if _, err := BreakOut(s, a); err != nil {
		t.Fatalf("break_out: %v", err)
	}

	ga, _ := s.Geom(a)
	gb, _ := s.Geom(b)
	if ga.Stacked != nil || gb.Stacked != nil {
		t.Fatalf("stack should be dissolved")
	}
	if ga.Rect() != (paneid.Rect{X: 0, Y: 0, Cols: 121, Rows: 50}) {
		t.Fatalf("a = %+v", ga.Rect())
	}
	if gb.Rect() != (paneid.Rect{X: 0, Y: 50, Cols: 121, Rows: 50}) {
		t.Fatalf("b = %+v", gb.Rect())
	}
}

func TestBreakOut_MiddleFlexibleKeepsStackValid(t *testing.T) {
	s, ids := column(t, 100, 121, 5)
	if _, err := CombineToStack(s, ids[0], ids[1:], Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}
	g0, _ := s.Geom(ids[0])
	sid := *g0.Stacked

	// Promote the middle member, then break it out: two titlebars on
	// each side, so the tie sends it downward.
	if _, err := FocusWithin(s, ids[2]); err != nil {
		t.Fatalf("focus_within: %v", err)
	}
	if _, err := BreakOut(s, ids[2]); err != nil {
		t.Fatalf("break_out: %v", err)
	}

	gc, _ := s.Geom(ids[2])
	if gc.Stacked != nil {
		t.Fatalf("broken-out pane still stacked")
	}
	if gc.Y != 50 || gc.Rows.AsUsize() != 50 {
		t.Fatalf("ejected pane = y %d rows %d, want lower half", gc.Y, gc.Rows.AsUsize())
	}

	flex := stackShape(t, s, sid)
	if len(s.StackMembers(sid)) != 4 {
		t.Fatalf("remaining stack should have 4 members")
	}
	fg, _ := s.Geom(flex)
	if fg.Rows.AsUsize() != 50-3 {
		t.Fatalf("new flexible rows = %d, want %d", fg.Rows.AsUsize(), 50-3)
	}
}

func TestFocusWithin_PromotesTitlebar(t *testing.T) {
	s, ids := column(t, 100, 121, 3)
	if _, err := CombineToStack(s, ids[0], ids[1:], Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}
	g0, _ := s.Geom(ids[0])
	sid := *g0.Stacked

	if _, err := FocusWithin(s, ids[1]); err != nil {
		t.Fatalf("focus_within: %v", err)
	}
	if flex := stackShape(t, s, sid); flex != ids[1] {
		t.Fatalf("promoted %v, want %v", flex, ids[1])
	}
	g1, _ := s.Geom(ids[1])
	if g1.Rows.AsUsize() != 98 {
		t.Fatalf("promoted rows = %d, want 98", g1.Rows.AsUsize())
	}

	// Promoting the visible member again changes nothing.
	res, err := FocusWithin(s, ids[1])
	if err != nil {
		t.Fatalf("focus_within: %v", err)
	}
	if res.String() != "no-op" {
		t.Fatalf("expected no-op, got %v", res)
	}
}

func TestClose_StackMemberRepacksRemainder(t *testing.T) {
	s, ids := column(t, 100, 121, 3)
	if _, err := CombineToStack(s, ids[0], ids[1:], Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}
	g0, _ := s.Geom(ids[0])
	sid := *g0.Stacked

	if _, err := s.Close(ids[1]); err != nil {
		t.Fatalf("close: %v", err)
	}
	members := s.StackMembers(sid)
	if len(members) != 2 {
		t.Fatalf("stack should have 2 members, has %d", len(members))
	}
	flex := stackShape(t, s, sid)
	fg, _ := s.Geom(flex)
	if fg.Rows.AsUsize() != 99 {
		t.Fatalf("flexible rows = %d, want 99", fg.Rows.AsUsize())
	}
}
