package tiling

import (
	"fmt"
	"sort"

	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/geom"
	"github.com/1broseidon/paned/internal/paneid"
)

// StackMembers returns every pane currently carrying the given stack id,
// ordered top to bottom by screen position. Exported so the stacking
// engine can enumerate a stack without duplicating the scan.
func (s *State) StackMembers(id paneid.StackID) []paneid.ID {
	return s.stackMembers(id)
}

func (s *State) stackMembers(id paneid.StackID) []paneid.ID {
	var out []paneid.ID
	for _, kv := range s.Panes.Order {
		if kv.Value.Stacked != nil && *kv.Value.Stacked == id {
			out = append(out, kv.Key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		gi, _ := s.Geom(out[i])
		gj, _ := s.Geom(out[j])
		return gi.Y < gj.Y
	})
	return out
}

// RepackStack redistributes rows=1 titlebars and one flexible member over
// [top, top+totalRows) among the given members, keeping whichever member
// is already flexible unless none is, in which case the topmost member is
// promoted. Members must already share x and cols; RepackStack does not
// change them.
func (s *State) RepackStack(id paneid.StackID, members []paneid.ID, top, totalRows int) error {
	if len(members) == 0 {
		return fmt.Errorf("repack stack %s: %w", id, engineerr.StackInvariant)
	}
	sort.Slice(members, func(i, j int) bool {
		gi, _ := s.Geom(members[i])
		gj, _ := s.Geom(members[j])
		return gi.Y < gj.Y
	})

	flexIdx := -1
	for i, m := range members {
		g, _ := s.Geom(m)
		if g.Rows.IsPercent() {
			flexIdx = i
			break
		}
	}
	if flexIdx == -1 {
		flexIdx = 0
	}

	titlebars := len(members) - 1
	flexRows := totalRows - titlebars
	if flexRows < 1 {
		return fmt.Errorf("repack stack %s: %d rows for %d members: %w", id, totalRows, len(members), engineerr.StackInvariant)
	}

	cursor := top
	for i, m := range members {
		g, _ := s.Geom(m)
		g.Y = cursor
		stackedID := id
		g.Stacked = &stackedID
		if i == flexIdx {
			g.Rows = percentOf(flexRows, s.Rows)
			cursor += flexRows
		} else {
			g.Rows = geom.Fixed(1)
			cursor += 1
		}
		s.SetGeom(m, g)
	}
	return nil
}

// repackStack is the internal entry point used by Close: freedRows is the
// row count the just-removed member held, which must be folded back into
// the stack's total so the remaining members still cover every row.
func (s *State) repackStack(id paneid.StackID, remaining []paneid.ID, freedRows, removedY int) error {
	if len(remaining) == 0 {
		return fmt.Errorf("repack stack %s: %w", id, engineerr.StackInvariant)
	}
	top := removedY
	total := freedRows
	for _, m := range remaining {
		g, ok := s.Geom(m)
		if !ok {
			continue
		}
		if g.Y < top {
			top = g.Y
		}
		total += g.Rows.AsUsize()
	}
	return s.RepackStack(id, remaining, top, total)
}
