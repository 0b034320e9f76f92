// Package geom implements the sizing-intent arithmetic shared by every pane
// in the tiling engine: a dimension is either a percentage of its parent
// extent or a fixed cell count, and it always carries the last resolved
// integer cell count (its "inner" size) alongside the intent.
package geom

import (
	"fmt"
	"sort"
)

// Kind distinguishes a percentage-based dimension from a fixed-cell one.
type Kind int

const (
	// KindPercent sizes proportionally to whatever space is left after
	// fixed siblings are subtracted.
	KindPercent Kind = iota
	// KindFixed holds an exact cell count regardless of sibling sizing.
	KindFixed
)

func (k Kind) String() string {
	if k == KindFixed {
		return "fixed"
	}
	return "percent"
}

// Dimension is a sizing intent plus its last-resolved cell count.
type Dimension struct {
	kind    Kind
	percent float64 // valid when kind == KindPercent; (0, 100]
	fixed   int     // valid when kind == KindFixed; > 0
	inner   int     // resolved cell count after the last Resolve/SetInner
}

// Percent returns a percentage dimension. p must be in (0, 100]; callers
// that produce p programmatically (e.g. from a ratio) should clamp before
// calling.
func Percent(p float64) Dimension {
	return Dimension{kind: KindPercent, percent: p}
}

// Fixed returns a fixed-cell dimension.
func Fixed(n int) Dimension {
	return Dimension{kind: KindFixed, fixed: n, inner: n}
}

// IsFixed reports whether the dimension is a fixed cell count.
func (d Dimension) IsFixed() bool { return d.kind == KindFixed }

// IsPercent reports whether the dimension is a percentage of its parent.
func (d Dimension) IsPercent() bool { return d.kind == KindPercent }

// Kind returns the dimension's sizing intent.
func (d Dimension) Kind() Kind { return d.kind }

// PercentValue returns the raw percent value; meaningless for a fixed dimension.
func (d Dimension) PercentValue() float64 { return d.percent }

// AsUsize returns the last-resolved inner cell count.
func (d Dimension) AsUsize() int { return d.inner }

// SetInner records a newly resolved cell count. For a fixed dimension this
// is normally its own fixed value; the setter still accepts any value so
// reflow/resize code can stash a tentative count before committing it.
func (d *Dimension) SetInner(n int) { d.inner = n }

// SetPercent rewrites a percent dimension's share, e.g. after a resize
// recomputes it from the new inner/extent ratio. No-op on a fixed dimension.
func (d *Dimension) SetPercent(p float64) {
	if d.kind == KindPercent {
		d.percent = p
	}
}

// Scale multiplies a percent dimension's share by f, leaving fixed
// dimensions untouched. Used when an ancestor's extent changes proportion
// but individual shares should track it (see reflow).
func (d Dimension) Scale(f float64) Dimension {
	if d.kind == KindFixed {
		return d
	}
	out := d
	out.percent *= f
	return out
}

// PercentOf returns a resolved percent dimension representing inner cells
// out of a total extent, so edits that fix a cell count directly (splits,
// resizes, stack repacks) still leave a proportional intent behind for the
// next reflow.
func PercentOf(inner, total int) Dimension {
	pct := 100.0
	if total > 0 {
		pct = float64(inner) / float64(total) * 100
	}
	d := Percent(pct)
	d.SetInner(inner)
	return d
}

// Weighted is one dimension participating in a Resolve call, tagged with
// the logical position of its owning pane so residual-cell and violation
// tie-breaks are stable and deterministic.
type Weighted struct {
	Dim             *Dimension
	LogicalPosition int
}

// Resolve distributes total cells among dims such that:
//   - fixed dimensions keep their exact value,
//   - percent dimensions partition (total - sum of fixed) in proportion to
//     their percents,
//   - any rounding residual is assigned one cell at a time to the panes
//     with the largest fractional remainder, ties broken by the smaller
//     logical position,
//   - the sum of all resolved inner values equals total exactly.
//
// Resolve fails (and leaves every Dim untouched) if the fixed dimensions
// alone exceed total, or if any percent dimension would resolve below min.
func Resolve(dims []Weighted, total, min int) error {
	if len(dims) == 0 {
		if total != 0 {
			return fmt.Errorf("geom: no dimensions to fill %d cells", total)
		}
		return nil
	}

	fixedSum := 0
	for _, w := range dims {
		if w.Dim.IsFixed() {
			fixedSum += w.Dim.fixed
		}
	}
	if fixedSum > total {
		return fmt.Errorf("geom: fixed dimensions sum to %d, exceeding %d available cells", fixedSum, total)
	}

	remaining := total - fixedSum
	percentTotal := 0.0
	for _, w := range dims {
		if w.Dim.IsPercent() {
			percentTotal += w.Dim.percent
		}
	}

	type share struct {
		w    Weighted
		frac float64
	}
	shares := make([]share, 0, len(dims))

	distributed := 0
	for _, w := range dims {
		if w.Dim.IsFixed() {
			continue
		}
		exact := 0.0
		if percentTotal > 0 {
			exact = float64(remaining) * (w.Dim.percent / percentTotal)
		}
		floor := int(exact)
		shares = append(shares, share{w: w, frac: exact - float64(floor)})
		distributed += floor
	}

	leftover := remaining - distributed
	if leftover < 0 {
		leftover = 0
	}

	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].frac != shares[j].frac {
			return shares[i].frac > shares[j].frac
		}
		return shares[i].w.LogicalPosition < shares[j].w.LogicalPosition
	})

	bonus := make(map[*Dimension]int, len(shares))
	for i := range shares {
		if i < leftover {
			bonus[shares[i].w.Dim] = 1
		}
	}

	// Check every share against min before writing any of them.
	inners := make([]int, len(dims))
	for i, w := range dims {
		if w.Dim.IsFixed() {
			inners[i] = w.Dim.fixed
			continue
		}
		exact := 0.0
		if percentTotal > 0 {
			exact = float64(remaining) * (w.Dim.percent / percentTotal)
		}
		inner := int(exact) + bonus[w.Dim]
		if inner < min {
			return fmt.Errorf("geom: percent dimension resolves to %d cells, below minimum %d", inner, min)
		}
		inners[i] = inner
	}

	// Apply in the dims' original order so callers see stable output.
	for i, w := range dims {
		w.Dim.SetInner(inners[i])
	}

	return nil
}
