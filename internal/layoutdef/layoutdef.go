// Package layoutdef defines the declarative layout tree and the applier
// that materializes it into tiling-engine state. A tree is either a leaf
// (one pane) or a split with an axis and sized children; a split may be
// marked stacked, in which case its leaf children become one stack. Trees
// are typically written as YAML layout files.
package layoutdef

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/geom"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/tiling"
)

// Axis is the direction a split divides its rectangle.
type Axis string

const (
	// AxisVertical splits into side-by-side columns.
	AxisVertical Axis = "vertical"
	// AxisHorizontal splits into top-and-bottom rows.
	AxisHorizontal Axis = "horizontal"
)

// Node is one node of a layout tree. A node with children is a split;
// without, a leaf reserving one pane. Percent and Fixed size the node
// within its parent's split axis; leaving both zero shares the remaining
// space equally with the other unsized siblings.
type Node struct {
	Axis     Axis    `yaml:"axis,omitempty"`
	Children []Node  `yaml:"children,omitempty"`
	Stacked  bool    `yaml:"stacked,omitempty"`
	Percent  float64 `yaml:"percent,omitempty"`
	Fixed    int     `yaml:"fixed,omitempty"`
	Name     string  `yaml:"name,omitempty"`
}

// IsLeaf reports whether the node reserves a single pane.
func (n Node) IsLeaf() bool { return len(n.Children) == 0 }

// Parse reads a layout tree from YAML.
func Parse(data []byte) (Node, error) {
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Node{}, fmt.Errorf("layout: %v: %w", err, engineerr.LayoutInvalid)
	}
	return root, nil
}

// CountLeaves returns how many panes the tree reserves.
func (n Node) CountLeaves() int {
	if n.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.CountLeaves()
	}
	return total
}

// Apply materializes the tree into st, reserving one pane per leaf in
// depth-first order from pending. The whole apply fails atomically: a
// sizing failure anywhere in the tree leaves st untouched.
func Apply(st *tiling.State, root Node, pending []paneid.ID) error {
	if got, want := len(pending), root.CountLeaves(); got != want {
		return fmt.Errorf("layout: %d pending panes for %d leaves: %w", got, want, engineerr.LayoutInvalid)
	}

	screen := paneid.Rect{X: 0, Y: 0, Cols: st.Cols, Rows: st.Rows}
	var placements []tiling.Placement
	ids := append([]paneid.ID(nil), pending...)
	if err := carve(st, root, screen, nil, nil, &ids, &placements); err != nil {
		return err
	}
	for i := range placements {
		placements[i].Geom.LogicalPosition = i
	}

	before := st.SnapshotRects()
	st.ReplaceAll(placements)
	st.NotifyChanged(before)
	return nil
}

// Swap re-resolves the existing pane set against a new tree without
// closing or creating panes: leaves match existing panes in logical
// position order, which keep their identity and logical position. Fails
// atomically like Apply.
func Swap(st *tiling.State, root Node) error {
	if st.InFullscreen() {
		return fmt.Errorf("layout: %w", engineerr.FullscreenBlocked)
	}
	existing := st.IDs()
	if got, want := len(existing), root.CountLeaves(); got != want {
		return fmt.Errorf("layout: %d panes for %d leaves: %w", got, want, engineerr.LayoutInvalid)
	}
	sort.Slice(existing, func(i, j int) bool {
		gi, _ := st.Geom(existing[i])
		gj, _ := st.Geom(existing[j])
		return gi.LogicalPosition < gj.LogicalPosition
	})

	screen := paneid.Rect{X: 0, Y: 0, Cols: st.Cols, Rows: st.Rows}
	var placements []tiling.Placement
	ids := append([]paneid.ID(nil), existing...)
	if err := carve(st, root, screen, nil, nil, &ids, &placements); err != nil {
		return err
	}

	before := st.SnapshotRects()
	for _, p := range placements {
		old, _ := st.Geom(p.ID)
		p.Geom.LogicalPosition = old.LogicalPosition
		st.SetGeom(p.ID, p.Geom)
	}
	st.NotifyChanged(before)
	return nil
}

// carve recursively divides rect among node's children. colsDim/rowsDim
// carry a sizing intent resolved by the parent split (in particular a
// fixed cell count) down to a leaf; nil means a plain percent of the
// screen.
func carve(st *tiling.State, n Node, rect paneid.Rect, colsDim, rowsDim *geom.Dimension, ids *[]paneid.ID, out *[]tiling.Placement) error {
	if n.IsLeaf() {
		id := (*ids)[0]
		*ids = (*ids)[1:]
		g := paneid.Geom{
			X:    rect.X,
			Y:    rect.Y,
			Cols: geom.PercentOf(rect.Cols, st.Cols),
			Rows: geom.PercentOf(rect.Rows, st.Rows),
		}
		if colsDim != nil && colsDim.IsFixed() {
			g.Cols = *colsDim
		}
		if rowsDim != nil && rowsDim.IsFixed() {
			g.Rows = *rowsDim
		}
		*out = append(*out, tiling.Placement{ID: id, Geom: g})
		return nil
	}

	if n.Stacked {
		return carveStack(st, n, rect, ids, out)
	}

	axis := n.Axis
	if axis == "" {
		axis = AxisVertical
	}

	total := rect.Cols
	minPer := func(c Node) int { return minCols(st, c) }
	if axis == AxisHorizontal {
		total = rect.Rows
		minPer = func(c Node) int { return minRows(st, c) }
	}

	dims, err := childDims(n.Children)
	if err != nil {
		return err
	}
	weighted := make([]geom.Weighted, len(dims))
	for i := range dims {
		weighted[i] = geom.Weighted{Dim: &dims[i], LogicalPosition: i}
	}
	if err := geom.Resolve(weighted, total, 1); err != nil {
		return fmt.Errorf("layout: %v: %w", err, engineerr.LayoutInvalid)
	}

	cursor := 0
	for i, c := range n.Children {
		span := dims[i].AsUsize()
		if span < minPer(c) {
			return fmt.Errorf("layout: child %d resolves to %d cells, needs %d: %w", i, span, minPer(c), engineerr.LayoutInvalid)
		}
		child := rect
		childCols, childRows := colsDim, rowsDim
		if axis == AxisVertical {
			child.X = rect.X + cursor
			child.Cols = span
			childCols = &dims[i]
		} else {
			child.Y = rect.Y + cursor
			child.Rows = span
			childRows = &dims[i]
		}
		if err := carve(st, c, child, childCols, childRows, ids, out); err != nil {
			return err
		}
		cursor += span
	}
	return nil
}

// carveStack lays a stacked node's leaves into one column: the child with
// the largest declared share is the visible member, the rest are one-row
// titlebars in tree order.
func carveStack(st *tiling.State, n Node, rect paneid.Rect, ids *[]paneid.ID, out *[]tiling.Placement) error {
	for _, c := range n.Children {
		if !c.IsLeaf() {
			return fmt.Errorf("layout: stacked node must have leaf children: %w", engineerr.LayoutInvalid)
		}
	}
	k := len(n.Children)
	flexRows := rect.Rows - (k - 1)
	if flexRows < st.MinRows() {
		return fmt.Errorf("layout: %d rows for %d stacked panes: %w", rect.Rows, k, engineerr.LayoutInvalid)
	}

	flexIdx := 0
	for i, c := range n.Children {
		if c.Percent > n.Children[flexIdx].Percent {
			flexIdx = i
		}
	}

	sid := paneid.NewStackID()
	cursor := rect.Y
	for i := range n.Children {
		id := (*ids)[0]
		*ids = (*ids)[1:]
		stackCopy := sid
		g := paneid.Geom{
			X:       rect.X,
			Y:       cursor,
			Cols:    geom.PercentOf(rect.Cols, st.Cols),
			Stacked: &stackCopy,
		}
		if i == flexIdx {
			g.Rows = geom.PercentOf(flexRows, st.Rows)
			cursor += flexRows
		} else {
			g.Rows = geom.Fixed(1)
			cursor++
		}
		*out = append(*out, tiling.Placement{ID: id, Geom: g})
	}
	return nil
}

// childDims converts the children's sizing declarations to dimensions,
// splitting the unclaimed percentage equally among unsized children.
func childDims(children []Node) ([]geom.Dimension, error) {
	claimed := 0.0
	unsized := 0
	for _, c := range children {
		switch {
		case c.Fixed < 0 || c.Percent < 0 || c.Percent > 100:
			return nil, fmt.Errorf("layout: bad size (percent %.1f, fixed %d): %w", c.Percent, c.Fixed, engineerr.LayoutInvalid)
		case c.Fixed > 0 && c.Percent > 0:
			return nil, fmt.Errorf("layout: both percent and fixed set: %w", engineerr.LayoutInvalid)
		case c.Percent > 0:
			claimed += c.Percent
		case c.Fixed == 0:
			unsized++
		}
	}
	if claimed > 100.0+1e-9 {
		return nil, fmt.Errorf("layout: children claim %.1f%%: %w", claimed, engineerr.LayoutInvalid)
	}
	share := 0.0
	if unsized > 0 {
		share = (100.0 - claimed) / float64(unsized)
		if share <= 0 {
			return nil, fmt.Errorf("layout: no space left for unsized children: %w", engineerr.LayoutInvalid)
		}
	}

	dims := make([]geom.Dimension, len(children))
	for i, c := range children {
		switch {
		case c.Fixed > 0:
			dims[i] = geom.Fixed(c.Fixed)
		case c.Percent > 0:
			dims[i] = geom.Percent(c.Percent)
		default:
			dims[i] = geom.Percent(share)
		}
	}
	return dims, nil
}

// minCols and minRows compute the smallest rectangle a subtree can occupy,
// used to reject impossible trees before any state changes.
func minCols(st *tiling.State, n Node) int {
	if n.IsLeaf() {
		return st.MinCols()
	}
	if n.Stacked || n.Axis == AxisHorizontal {
		max := 0
		for _, c := range n.Children {
			if m := minCols(st, c); m > max {
				max = m
			}
		}
		return max
	}
	sum := 0
	for _, c := range n.Children {
		sum += minCols(st, c)
	}
	return sum
}

func minRows(st *tiling.State, n Node) int {
	if n.IsLeaf() {
		return st.MinRows()
	}
	if n.Stacked {
		return len(n.Children) - 1 + st.MinRows()
	}
	if n.Axis == AxisHorizontal {
		sum := 0
		for _, c := range n.Children {
			sum += minRows(st, c)
		}
		return sum
	}
	max := 0
	for _, c := range n.Children {
		if m := minRows(st, c); m > max {
			max = m
		}
	}
	return max
}
