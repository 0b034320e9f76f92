package tiling

import (
	"reflect"
	"testing"

	"github.com/1broseidon/paned/internal/enginecontracts"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/spatial"
)

// singlePane builds a state with one pane covering the whole screen.
func singlePane(t *testing.T, rows, cols int) (*State, paneid.ID) {
	t.Helper()
	s := NewState(rows, cols, false)
	id := paneid.New()
	s.SetGeom(id, paneid.Geom{
		X:               0,
		Y:               0,
		Cols:            percentOf(cols, cols),
		Rows:            percentOf(rows, rows),
		LogicalPosition: s.ReservePosition(),
	})
	s.SetActive("", id)
	return s, id
}

// checkInvariants verifies the tiling properties that must hold between
// verbs: full coverage, disjoint interiors, unique logical positions, and
// per-stack consistency.
func checkInvariants(t *testing.T, s *State) {
	t.Helper()
	if s.InFullscreen() {
		return
	}

	owner := make([][]bool, s.Rows)
	for i := range owner {
		owner[i] = make([]bool, s.Cols)
	}
	positions := make(map[int]bool)
	for _, id := range s.IDs() {
		g, _ := s.Geom(id)
		if positions[g.LogicalPosition] {
			t.Fatalf("duplicate logical position %d", g.LogicalPosition)
		}
		positions[g.LogicalPosition] = true

		r := g.Rect()
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				if y < 0 || y >= s.Rows || x < 0 || x >= s.Cols {
					t.Fatalf("pane %s cell (%d,%d) outside screen %dx%d", id, x, y, s.Cols, s.Rows)
				}
				if owner[y][x] {
					t.Fatalf("cell (%d,%d) covered twice", x, y)
				}
				owner[y][x] = true
			}
		}
	}
	for y := range owner {
		for x := range owner[y] {
			if !owner[y][x] {
				t.Fatalf("cell (%d,%d) uncovered", x, y)
			}
		}
	}

	stacks := make(map[paneid.StackID][]paneid.Geom)
	for _, id := range s.IDs() {
		g, _ := s.Geom(id)
		if g.Stacked != nil {
			stacks[*g.Stacked] = append(stacks[*g.Stacked], g)
		}
	}
	for sid, members := range stacks {
		flexible := 0
		for _, g := range members {
			if g.X != members[0].X || g.Cols.AsUsize() != members[0].Cols.AsUsize() {
				t.Fatalf("stack %s members disagree on x/cols", sid)
			}
			if g.Rows.IsPercent() {
				flexible++
			} else if g.Rows.AsUsize() != 1 {
				t.Fatalf("stack %s titlebar has %d rows", sid, g.Rows.AsUsize())
			}
		}
		if flexible != 1 {
			t.Fatalf("stack %s has %d flexible members", sid, flexible)
		}
	}
}

func rectOf(t *testing.T, s *State, id paneid.ID) paneid.Rect {
	t.Helper()
	g, ok := s.Geom(id)
	if !ok {
		t.Fatalf("pane %s missing", id)
	}
	return g.Rect()
}

func TestSplitVertical_HalvesColumns(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()

	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	if got, want := rectOf(t, s, p1), (paneid.Rect{X: 0, Y: 0, Cols: 61, Rows: 20}); got != want {
		t.Fatalf("p1 = %+v, want %+v", got, want)
	}
	if got, want := rectOf(t, s, p2), (paneid.Rect{X: 61, Y: 0, Cols: 60, Rows: 20}); got != want {
		t.Fatalf("p2 = %+v, want %+v", got, want)
	}
	checkInvariants(t, s)
}

func TestSplitHorizontal_HalvesRows(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()

	if _, err := s.SplitHorizontal(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	if got, want := rectOf(t, s, p1), (paneid.Rect{X: 0, Y: 0, Cols: 121, Rows: 10}); got != want {
		t.Fatalf("p1 = %+v, want %+v", got, want)
	}
	if got, want := rectOf(t, s, p2), (paneid.Rect{X: 0, Y: 10, Cols: 121, Rows: 10}); got != want {
		t.Fatalf("p2 = %+v, want %+v", got, want)
	}
	checkInvariants(t, s)
}

func TestSplit_TooSmallFailsAtomically(t *testing.T) {
	s, p1 := singlePane(t, 9, 121)
	beforeGeom, _ := s.Geom(p1)

	if _, err := s.SplitHorizontal(p1, paneid.New()); err == nil {
		t.Fatalf("expected min-size violation")
	}
	afterGeom, _ := s.Geom(p1)
	if !reflect.DeepEqual(beforeGeom, afterGeom) {
		t.Fatalf("failed split mutated state")
	}
	if len(s.IDs()) != 1 {
		t.Fatalf("failed split left a new pane behind")
	}
}

func TestSplitLargest_PicksLargestAndLongerAxis(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}

	// p1 is 61x20 (wider than tall): split_largest should cut p1's columns.
	p3 := paneid.New()
	if _, err := s.SplitLargest(p3); err != nil {
		t.Fatalf("split_largest: %v", err)
	}
	r1 := rectOf(t, s, p1)
	r3 := rectOf(t, s, p3)
	if r1.Cols != 31 || r3.Cols != 30 || r3.X != 31 {
		t.Fatalf("expected vertical split of p1, got p1=%+v p3=%+v", r1, r3)
	}
	checkInvariants(t, s)
}

func TestClose_NeighborGrowsIntoVacated(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := s.Close(p2); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got, want := rectOf(t, s, p1), (paneid.Rect{X: 0, Y: 0, Cols: 121, Rows: 20}); got != want {
		t.Fatalf("p1 = %+v, want %+v", got, want)
	}
	checkInvariants(t, s)
}

func TestSplitThenClose_RestoresParentExactly(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	original, _ := s.Geom(p1)

	p2 := paneid.New()
	if _, err := s.SplitHorizontal(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := s.Close(p2); err != nil {
		t.Fatalf("close: %v", err)
	}
	restored, _ := s.Geom(p1)
	if !reflect.DeepEqual(original, restored) {
		t.Fatalf("close did not restore parent: %+v vs %+v", original, restored)
	}
}

func TestClose_LastPaneIsRejected(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	if _, err := s.Close(p1); err == nil {
		t.Fatalf("expected last-pane rejection")
	}
	if _, ok := s.Geom(p1); !ok {
		t.Fatalf("last pane removed despite rejection")
	}
}

func TestClose_SplitsVacatedAmongMultipleNeighbors(t *testing.T) {
	// Left column split into two rows, right column one tall pane.
	s, left := singlePane(t, 20, 121)
	right := paneid.New()
	if _, err := s.SplitVertical(left, right); err != nil {
		t.Fatalf("split: %v", err)
	}
	leftBottom := paneid.New()
	if _, err := s.SplitHorizontal(left, leftBottom); err != nil {
		t.Fatalf("split: %v", err)
	}

	// Closing the right pane: its longest shared edge is with the two
	// left panes; both should extend to full width.
	if _, err := s.Close(right); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := rectOf(t, s, left); got.Cols != 121 {
		t.Fatalf("left top should span full width, got %+v", got)
	}
	if got := rectOf(t, s, leftBottom); got.Cols != 121 {
		t.Fatalf("left bottom should span full width, got %+v", got)
	}
	checkInvariants(t, s)
}

func TestClose_SkipsOverhangingNeighbor(t *testing.T) {
	// Full-width pane above a row of three columns. Closing the middle
	// column must not pick the wide pane above: it overhangs the vacated
	// rectangle, and reshaping it to the vacated width would abandon the
	// rest of its footprint. A sideways neighbor absorbs instead.
	s, top := singlePane(t, 20, 121)
	left := paneid.New()
	if _, err := s.SplitHorizontal(top, left); err != nil {
		t.Fatalf("split: %v", err)
	}
	right := paneid.New()
	if _, err := s.SplitVertical(left, right); err != nil {
		t.Fatalf("split: %v", err)
	}
	mid := paneid.New()
	if _, err := s.SplitVertical(left, mid); err != nil {
		t.Fatalf("split: %v", err)
	}

	topBefore := rectOf(t, s, top)
	if _, err := s.Close(mid); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := rectOf(t, s, top); got != topBefore {
		t.Fatalf("overhanging pane above was reshaped: %+v, want %+v", got, topBefore)
	}
	if got := rectOf(t, s, left); got.Cols != 61 || got.X != 0 {
		t.Fatalf("left column should absorb the vacated width, got %+v", got)
	}
	checkInvariants(t, s)
}

func TestClose_FocusFallsBackToHistory(t *testing.T) {
	s, p1 := singlePane(t, 40, 121)
	p2 := paneid.New()
	p3 := paneid.New()
	if _, err := s.SplitHorizontal(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := s.SplitHorizontal(p2, p3); err != nil {
		t.Fatalf("split: %v", err)
	}

	s.SetActive("", p2)
	s.SetActive("", p3)
	if _, err := s.Close(p3); err != nil {
		t.Fatalf("close: %v", err)
	}
	active, ok := s.Active("")
	if !ok || active != p2 {
		t.Fatalf("focus should fall back to most recent survivor p2, got %v", active)
	}
}

func TestResize_MovesSharedEdge(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitHorizontal(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}

	// p2 is the bottom pane; growing it upward shifts the shared edge up.
	if _, err := s.Resize(p2, ResizeUp, 2); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if got := rectOf(t, s, p1); got.Rows != 8 {
		t.Fatalf("p1 rows = %d, want 8", got.Rows)
	}
	if got := rectOf(t, s, p2); got.Rows != 12 || got.Y != 8 {
		t.Fatalf("p2 = %+v, want rows 12 at y 8", got)
	}
	checkInvariants(t, s)
}

func TestResize_ClampsAtNeighborMinimum(t *testing.T) {
	s, p1 := singlePane(t, 12, 121)
	p2 := paneid.New()
	if _, err := s.SplitHorizontal(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}

	// p1 has 6 rows; only one can move before it hits the floor of 5.
	res, err := s.Resize(p2, ResizeUp, 10)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if res != 0 { // Applied
		t.Fatalf("expected applied result, got %v", res)
	}
	if got := rectOf(t, s, p1); got.Rows != 5 {
		t.Fatalf("p1 rows = %d, want 5", got.Rows)
	}
	checkInvariants(t, s)
}

func TestResize_NoRoomIsSoftNoOp(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitHorizontal(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}

	// p2 has no pane below; growing downward has nowhere to go.
	before := rectOf(t, s, p2)
	res, err := s.Resize(p2, ResizeDown, 1)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if res.String() != "no-op" {
		t.Fatalf("expected no-op, got %v", res)
	}
	if after := rectOf(t, s, p2); after != before {
		t.Fatalf("no-op resize changed geometry")
	}
}

func TestResize_IncreaseStopsAtFirstProgress(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}

	// p1's only room is rightward into p2; Increase tries Right first.
	if _, err := s.Resize(p1, ResizeIncrease, 1); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if got := rectOf(t, s, p1); got.Cols != 62 {
		t.Fatalf("p1 cols = %d, want 62", got.Cols)
	}
	if got := rectOf(t, s, p2); got.Cols != 59 || got.X != 62 {
		t.Fatalf("p2 = %+v, want cols 59 at x 62", got)
	}
	checkInvariants(t, s)
}

func TestMoveFocus_PrefersMostRecentlyFocusedNeighbor(t *testing.T) {
	// Left pane full height; right column split into two rows.
	s, left := singlePane(t, 20, 121)
	rightTop := paneid.New()
	if _, err := s.SplitVertical(left, rightTop); err != nil {
		t.Fatalf("split: %v", err)
	}
	rightBottom := paneid.New()
	if _, err := s.SplitHorizontal(rightTop, rightBottom); err != nil {
		t.Fatalf("split: %v", err)
	}

	// History: rightBottom was focused more recently than rightTop.
	s.SetActive("", rightTop)
	s.SetActive("", rightBottom)
	s.SetActive("", left)

	if _, err := s.MoveFocus("", spatial.Right); err != nil {
		t.Fatalf("move_focus: %v", err)
	}
	active, _ := s.Active("")
	if active != rightBottom {
		t.Fatalf("focus should prefer most recently used neighbor, got %v", active)
	}

	// Back to left: the only left neighbor.
	if _, err := s.MoveFocus("", spatial.Left); err != nil {
		t.Fatalf("move_focus: %v", err)
	}
	active, _ = s.Active("")
	if active != left {
		t.Fatalf("focus should return to left pane, got %v", active)
	}
}

func TestMoveFocus_NoCandidateIsNoOp(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	res, err := s.MoveFocus("", spatial.Left)
	if err != nil {
		t.Fatalf("move_focus: %v", err)
	}
	if res.String() != "no-op" {
		t.Fatalf("expected no-op, got %v", res)
	}
	active, _ := s.Active("")
	if active != p1 {
		t.Fatalf("focus moved with no candidate")
	}
}

func TestMovePane_SwapsGeometryKeepsLogicalPosition(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	g1, _ := s.Geom(p1)
	g2, _ := s.Geom(p2)

	s.SetActive("", p1)
	if _, err := s.MovePane("", spatial.Right); err != nil {
		t.Fatalf("move_pane: %v", err)
	}

	n1, _ := s.Geom(p1)
	n2, _ := s.Geom(p2)
	if n1.Rect() != g2.Rect() || n2.Rect() != g1.Rect() {
		t.Fatalf("geometries not swapped: %+v %+v", n1.Rect(), n2.Rect())
	}
	if n1.LogicalPosition != g1.LogicalPosition || n2.LogicalPosition != g2.LogicalPosition {
		t.Fatalf("logical positions should not move with geometry")
	}
	checkInvariants(t, s)
}

func TestToggleFullscreen_RoundTripRestoresExactly(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	want := make(map[paneid.ID]paneid.Geom)
	for _, id := range s.IDs() {
		g, _ := s.Geom(id)
		want[id] = g
	}

	if _, err := s.ToggleFullscreen(p2); err != nil {
		t.Fatalf("enter fullscreen: %v", err)
	}
	if got := rectOf(t, s, p2); got != (paneid.Rect{X: 0, Y: 0, Cols: 121, Rows: 20}) {
		t.Fatalf("fullscreen pane = %+v", got)
	}
	if _, err := s.SplitVertical(p1, paneid.New()); err == nil {
		t.Fatalf("split should be blocked during fullscreen")
	}

	if _, err := s.ToggleFullscreen(p2); err != nil {
		t.Fatalf("exit fullscreen: %v", err)
	}
	for id, w := range want {
		g, _ := s.Geom(id)
		if !reflect.DeepEqual(g, w) {
			t.Fatalf("pane %s not restored: %+v vs %+v", id, g, w)
		}
	}
	checkInvariants(t, s)
}

func TestClose_FullscreenPaneExitsThenCloses(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := s.ToggleFullscreen(p2); err != nil {
		t.Fatalf("fullscreen: %v", err)
	}
	if _, err := s.Close(p2); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.InFullscreen() {
		t.Fatalf("fullscreen should have ended")
	}
	if got := rectOf(t, s, p1); got.Cols != 121 {
		t.Fatalf("p1 should reclaim full screen, got %+v", got)
	}
	checkInvariants(t, s)
}

func TestReflow_ScalesAndStaysGapFree(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	p3 := paneid.New()
	if _, err := s.SplitHorizontal(p2, p3); err != nil {
		t.Fatalf("split: %v", err)
	}

	if _, err := s.Reflow(40, 242); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	checkInvariants(t, s)
	if got := rectOf(t, s, p1); got.Cols != 122 || got.Rows != 40 {
		t.Fatalf("p1 should double, got %+v", got)
	}

	if _, err := s.Reflow(20, 121); err != nil {
		t.Fatalf("reflow back: %v", err)
	}
	checkInvariants(t, s)
	if got := rectOf(t, s, p1); got.Cols != 61 || got.Rows != 20 {
		t.Fatalf("p1 should return to original, got %+v", got)
	}
}

func TestReflow_SameSizeTwiceIsNoOp(t *testing.T) {
	s, _ := singlePane(t, 20, 121)
	if _, err := s.Reflow(30, 100); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	res, err := s.Reflow(30, 100)
	if err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if res.String() != "no-op" {
		t.Fatalf("second identical reflow should be a no-op, got %v", res)
	}
	checkInvariants(t, s)
}

func TestReflow_DuringFullscreenResizesSnapshotToo(t *testing.T) {
	s, p1 := singlePane(t, 20, 121)
	p2 := paneid.New()
	if _, err := s.SplitVertical(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := s.ToggleFullscreen(p1); err != nil {
		t.Fatalf("fullscreen: %v", err)
	}
	if _, err := s.Reflow(40, 242); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if got := rectOf(t, s, p1); got != (paneid.Rect{X: 0, Y: 0, Cols: 242, Rows: 40}) {
		t.Fatalf("fullscreen pane should track new screen, got %+v", got)
	}
	if _, err := s.ToggleFullscreen(p1); err != nil {
		t.Fatalf("exit fullscreen: %v", err)
	}
	checkInvariants(t, s)
	if got := rectOf(t, s, p1); got.Cols != 122 {
		t.Fatalf("restored layout should match new screen, got %+v", got)
	}
}

func TestNotify_OnlyChangedPanesReceiveSetGeom(t *testing.T) {
	s, p1 := singlePane(t, 40, 121)
	p2 := paneid.New()
	if _, err := s.SplitHorizontal(p1, p2); err != nil {
		t.Fatalf("split: %v", err)
	}
	p3 := paneid.New()
	if _, err := s.SplitHorizontal(p2, p3); err != nil {
		t.Fatalf("split: %v", err)
	}

	cap1 := &enginecontracts.Stub{}
	cap2 := &enginecontracts.Stub{}
	cap3 := &enginecontracts.Stub{}
	s.RegisterPane(p1, cap1)
	s.RegisterPane(p2, cap2)
	s.RegisterPane(p3, cap3)

	// Moving the p2/p3 edge must not touch p1.
	if _, err := s.Resize(p3, ResizeUp, 1); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if cap1.Geom != (paneid.Rect{}) {
		t.Fatalf("p1 received SetGeom despite unchanged geometry")
	}
	if cap2.Geom == (paneid.Rect{}) || cap3.Geom == (paneid.Rect{}) {
		t.Fatalf("changed panes did not receive SetGeom")
	}
}
