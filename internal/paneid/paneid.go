// Package paneid defines the identity and geometry record types shared by
// every other engine package: pane and stack identities, and the PaneGeom
// record that the tiling and stacking engines mutate.
package paneid

import (
	"github.com/google/uuid"

	"github.com/1broseidon/paned/internal/geom"
)

// ID is an opaque pane identity. The engine never interprets what it
// points at — terminal pane or plugin pane are indistinguishable here.
type ID uuid.UUID

// New returns a fresh, unique pane id.
func New() ID { return ID(uuid.New()) }

func (id ID) String() string { return uuid.UUID(id).String() }

// Parse reads an id back from its string form, e.g. from an IPC payload.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

// StackID identifies a stack (a column of panes sharing one tile, with one
// flexible member and the rest rendered as one-line titlebars).
type StackID uuid.UUID

// NewStackID returns a fresh, unique stack identity.
func NewStackID() StackID { return StackID(uuid.New()) }

func (s StackID) String() string { return uuid.UUID(s).String() }

// Rect is a plain resolved rectangle in screen cells, used wherever code
// only needs the current geometry and not the sizing intent behind it.
type Rect struct {
	X, Y, Cols, Rows int
}

// Right returns the exclusive right edge (X + Cols).
func (r Rect) Right() int { return r.X + r.Cols }

// Bottom returns the exclusive bottom edge (Y + Rows).
func (r Rect) Bottom() int { return r.Y + r.Rows }

// Area returns the cell area of the rectangle.
func (r Rect) Area() int { return r.Cols * r.Rows }

// CenterX and CenterY return the integer center of the rectangle, used by
// focus-move tie-breaking.
func (r Rect) CenterX() int { return r.X + r.Cols/2 }
func (r Rect) CenterY() int { return r.Y + r.Rows/2 }

// Geom is the position+size record for one pane: top-left cell, resolved
// dimensions with their sizing intent, a stable ordering identity, and an
// optional stack membership.
type Geom struct {
	X, Y            int
	Cols, Rows      geom.Dimension
	LogicalPosition int
	Stacked         *StackID
}

// Rect returns the effective rectangle for the geometry record.
func (g Geom) Rect() Rect {
	return Rect{X: g.X, Y: g.Y, Cols: g.Cols.AsUsize(), Rows: g.Rows.AsUsize()}
}

// InStack reports whether the pane currently belongs to a stack.
func (g Geom) InStack() bool { return g.Stacked != nil }

// Clone returns a value copy; Geom has no reference fields that need deep
// copying beyond the Stacked pointer, which is copied as a fresh pointer so
// mutating the clone's stack id never aliases the original.
func (g Geom) Clone() Geom {
	out := g
	if g.Stacked != nil {
		id := *g.Stacked
		out.Stacked = &id
	}
	return out
}
