// Package spatial answers directional and alignment queries over a set of
// pane rectangles: which panes touch a given edge, which are candidates for
// stacking, and which pane occupies a given screen cell. It holds no state
// of its own — every query takes the current pane set and works directly
// against it, matching the "no separate structure is required for
// correctness" shape of the geometry it queries.
package spatial

import "github.com/1broseidon/paned/internal/paneid"

// Pane pairs an id with its current rectangle, the minimal shape every
// query in this package needs.
type Pane struct {
	ID   paneid.ID
	Rect paneid.Rect
}

// Direction is one of the four screen-relative directions a query can be
// asked about.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// overlap1D reports whether the half-open interval [aStart, aEnd) shares
// more than a point with [bStart, bEnd) — the orthogonal-axis overlap test
// edge queries need to tell "touching" apart from merely adjacent corners.
func overlap1D(aStart, aEnd, bStart, bEnd int) bool {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	return hi > lo
}

// Above returns every pane whose bottom edge sits exactly on p's top edge,
// with nonzero horizontal overlap.
func Above(panes []Pane, p paneid.Rect) []Pane {
	var out []Pane
	for _, c := range panes {
		if c.Rect.Bottom() == p.Y && overlap1D(c.Rect.X, c.Rect.Right(), p.X, p.Right()) {
			out = append(out, c)
		}
	}
	return out
}

// Below returns every pane whose top edge sits exactly on p's bottom edge,
// with nonzero horizontal overlap.
func Below(panes []Pane, p paneid.Rect) []Pane {
	var out []Pane
	for _, c := range panes {
		if c.Rect.Y == p.Bottom() && overlap1D(c.Rect.X, c.Rect.Right(), p.X, p.Right()) {
			out = append(out, c)
		}
	}
	return out
}

// LeftOf returns every pane whose right edge sits exactly on p's left edge,
// with nonzero vertical overlap.
func LeftOf(panes []Pane, p paneid.Rect) []Pane {
	var out []Pane
	for _, c := range panes {
		if c.Rect.Right() == p.X && overlap1D(c.Rect.Y, c.Rect.Bottom(), p.Y, p.Bottom()) {
			out = append(out, c)
		}
	}
	return out
}

// RightOf returns every pane whose left edge sits exactly on p's right edge,
// with nonzero vertical overlap.
func RightOf(panes []Pane, p paneid.Rect) []Pane {
	var out []Pane
	for _, c := range panes {
		if c.Rect.X == p.Right() && overlap1D(c.Rect.Y, c.Rect.Bottom(), p.Y, p.Bottom()) {
			out = append(out, c)
		}
	}
	return out
}

// Neighbors returns the panes touching p's edge on the given side.
func Neighbors(panes []Pane, p paneid.Rect, dir Direction) []Pane {
	switch dir {
	case Up:
		return Above(panes, p)
	case Down:
		return Below(panes, p)
	case Left:
		return LeftOf(panes, p)
	case Right:
		return RightOf(panes, p)
	default:
		return nil
	}
}

// AlignedEdge narrows candidates (typically the result of Neighbors) to
// those whose edge opposite dir lies exactly on p's edge on that side —
// i.e. the candidate spans the full length of the shared edge rather than
// merely touching part of it. Used to decide whether a directional resize
// can move the shared edge without breaking tiling.
func AlignedEdge(candidates []Pane, p paneid.Rect, dir Direction) []Pane {
	var out []Pane
	for _, c := range candidates {
		switch dir {
		case Up, Down:
			if c.Rect.X == p.X && c.Rect.Right() == p.Right() {
				out = append(out, c)
			}
		case Left, Right:
			if c.Rect.Y == p.Y && c.Rect.Bottom() == p.Bottom() {
				out = append(out, c)
			}
		}
	}
	return out
}

// VerticallyAligned returns panes (other than p itself) sharing p's x and
// cols — candidates for combining into a vertical stack.
func VerticallyAligned(panes []Pane, self paneid.ID, p paneid.Rect) []Pane {
	var out []Pane
	for _, c := range panes {
		if c.ID == self {
			continue
		}
		if c.Rect.X == p.X && c.Rect.Cols == p.Cols {
			out = append(out, c)
		}
	}
	return out
}

// HorizontallyAligned returns panes (other than p itself) sharing p's y
// and rows.
func HorizontallyAligned(panes []Pane, self paneid.ID, p paneid.Rect) []Pane {
	var out []Pane
	for _, c := range panes {
		if c.ID == self {
			continue
		}
		if c.Rect.Y == p.Y && c.Rect.Rows == p.Rows {
			out = append(out, c)
		}
	}
	return out
}

// At returns the pane whose rectangle contains the given cell, and whether
// one was found. Rectangles are half-open on their trailing edges, so a
// cell on a shared boundary belongs to exactly one pane.
func At(panes []Pane, x, y int) (paneid.ID, bool) {
	for _, c := range panes {
		if x >= c.Rect.X && x < c.Rect.Right() && y >= c.Rect.Y && y < c.Rect.Bottom() {
			return c.ID, true
		}
	}
	return paneid.ID{}, false
}

// SharedSpan returns the length of the orthogonal-axis overlap between
// candidate c and rectangle p for the given direction — how much of the
// shared edge c actually covers. Close uses it to pick the side whose
// neighbors cover the longest edge of a vacated rectangle and to weight
// the proportional split among them.
func SharedSpan(c, p paneid.Rect, dir Direction) int {
	switch dir {
	case Up, Down:
		lo := c.X
		if p.X > lo {
			lo = p.X
		}
		hi := c.Right()
		if p.Right() < hi {
			hi = p.Right()
		}
		if hi < lo {
			return 0
		}
		return hi - lo
	default:
		lo := c.Y
		if p.Y > lo {
			lo = p.Y
		}
		hi := c.Bottom()
		if p.Bottom() < hi {
			hi = p.Bottom()
		}
		if hi < lo {
			return 0
		}
		return hi - lo
	}
}
