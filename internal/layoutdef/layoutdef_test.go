package layoutdef

import (
	"errors"
	"testing"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/tiling"
)

func newIDs(n int) []paneid.ID {
	ids := make([]paneid.ID, n)
	for i := range ids {
		ids[i] = paneid.New()
	}
	return ids
}

func TestParse_SplitTree(t *testing.T) {
	root, err := Parse([]byte(`
axis: vertical
children:
  - percent: 60
  - percent: 40
    axis: horizontal
    children:
      - fixed: 10
      - {}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if root.CountLeaves() != 3 {
		t.Fatalf("leaves = %d, want 3", root.CountLeaves())
	}
}

func TestApply_CarvesScreenDepthFirst(t *testing.T) {
	st := tiling.NewState(20, 100, false)
	root := Node{
		Axis: AxisVertical,
		Children: []Node{
			{Percent: 60},
			{Percent: 40, Axis: AxisHorizontal, Children: []Node{{}, {}}},
		},
	}
	ids := newIDs(3)
	if err := Apply(st, root, ids); err != nil {
		t.Fatalf("apply: %v", err)
	}

	g0, _ := st.Geom(ids[0])
	if g0.Rect() != (paneid.Rect{X: 0, Y: 0, Cols: 60, Rows: 20}) {
		t.Fatalf("leaf 0 = %+v", g0.Rect())
	}
	g1, _ := st.Geom(ids[1])
	if g1.Rect() != (paneid.Rect{X: 60, Y: 0, Cols: 40, Rows: 10}) {
		t.Fatalf("leaf 1 = %+v", g1.Rect())
	}
	g2, _ := st.Geom(ids[2])
	if g2.Rect() != (paneid.Rect{X: 60, Y: 10, Cols: 40, Rows: 10}) {
		t.Fatalf("leaf 2 = %+v", g2.Rect())
	}
	for i, id := range ids {
		g, _ := st.Geom(id)
		if g.LogicalPosition != i {
			t.Fatalf("leaf %d has logical position %d", i, g.LogicalPosition)
		}
	}
}

func TestApply_FixedChildKeepsExactCells(t *testing.T) {
	st := tiling.NewState(20, 100, false)
	root := Node{
		Axis:     AxisVertical,
		Children: []Node{{Fixed: 30}, {}},
	}
	ids := newIDs(2)
	if err := Apply(st, root, ids); err != nil {
		t.Fatalf("apply: %v", err)
	}
	g0, _ := st.Geom(ids[0])
	if g0.Cols.AsUsize() != 30 || !g0.Cols.IsFixed() {
		t.Fatalf("fixed child = %d cells, fixed=%v", g0.Cols.AsUsize(), g0.Cols.IsFixed())
	}
	g1, _ := st.Geom(ids[1])
	if g1.Cols.AsUsize() != 70 {
		t.Fatalf("remaining child = %d cells, want 70", g1.Cols.AsUsize())
	}
}

func TestApply_PendingCountMismatchFails(t *testing.T) {
	st := tiling.NewState(20, 100, false)
	root := Node{Axis: AxisVertical, Children: []Node{{}, {}}}
	err := Apply(st, root, newIDs(3))
	if !errors.Is(err, engineerr.LayoutInvalid) {
		t.Fatalf("expected LayoutInvalid, got %v", err)
	}
	if len(st.IDs()) != 0 {
		t.Fatalf("failed apply mutated state")
	}
}

func TestApply_ImpossibleSizesFailAtomically(t *testing.T) {
	st := tiling.NewState(20, 100, false)
	root := Node{
		Axis:     AxisVertical,
		Children: []Node{{Fixed: 90}, {Fixed: 90}},
	}
	err := Apply(st, root, newIDs(2))
	if !errors.Is(err, engineerr.LayoutInvalid) {
		t.Fatalf("expected LayoutInvalid, got %v", err)
	}
	if len(st.IDs()) != 0 {
		t.Fatalf("failed apply mutated state")
	}
}

func TestApply_StackedSubtree(t *testing.T) {
	st := tiling.NewState(30, 100, false)
	root := Node{
		Axis: AxisVertical,
		Children: []Node{
			{},
			{Stacked: true, Children: []Node{{}, {Percent: 80}, {}}},
		},
	}
	ids := newIDs(4)
	if err := Apply(st, root, ids); err != nil {
		t.Fatalf("apply: %v", err)
	}

	g1, _ := st.Geom(ids[1])
	if g1.Stacked == nil {
		t.Fatalf("stack child not stacked")
	}
	members := st.StackMembers(*g1.Stacked)
	if len(members) != 3 {
		t.Fatalf("stack has %d members, want 3", len(members))
	}
	// The child with the largest declared share is the visible one.
	g2, _ := st.Geom(ids[2])
	if !g2.Rows.IsPercent() || g2.Rows.AsUsize() != 28 {
		t.Fatalf("flexible member = %d rows (percent=%v), want 28", g2.Rows.AsUsize(), g2.Rows.IsPercent())
	}
	g3, _ := st.Geom(ids[3])
	if g3.Rows.AsUsize() != 1 {
		t.Fatalf("titlebar rows = %d, want 1", g3.Rows.AsUsize())
	}
}

func TestSwap_RearrangesExistingPanes(t *testing.T) {
	st := tiling.NewState(20, 100, false)
	vertical := Node{Axis: AxisVertical, Children: []Node{{}, {}}}
	ids := newIDs(2)
	if err := Apply(st, vertical, ids); err != nil {
		t.Fatalf("apply: %v", err)
	}

	horizontal := Node{Axis: AxisHorizontal, Children: []Node{{}, {}}}
	if err := Swap(st, horizontal); err != nil {
		t.Fatalf("swap: %v", err)
	}

	g0, _ := st.Geom(ids[0])
	if g0.Rect() != (paneid.Rect{X: 0, Y: 0, Cols: 100, Rows: 10}) {
		t.Fatalf("pane 0 after swap = %+v", g0.Rect())
	}
	g1, _ := st.Geom(ids[1])
	if g1.Rect() != (paneid.Rect{X: 0, Y: 10, Cols: 100, Rows: 10}) {
		t.Fatalf("pane 1 after swap = %+v", g1.Rect())
	}
	if g0.LogicalPosition != 0 || g1.LogicalPosition != 1 {
		t.Fatalf("swap must preserve logical positions")
	}
}

func TestSwap_LeafCountMismatchFails(t *testing.T) {
	st := tiling.NewState(20, 100, false)
	if err := Apply(st, Node{Axis: AxisVertical, Children: []Node{{}, {}}}, newIDs(2)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	err := Swap(st, Node{Axis: AxisVertical, Children: []Node{{}, {}, {}}})
	if !errors.Is(err, engineerr.LayoutInvalid) {
		t.Fatalf("expected LayoutInvalid, got %v", err)
	}
}
