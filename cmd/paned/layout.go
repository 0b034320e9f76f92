package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/1broseidon/paned/internal/engine"
	"github.com/1broseidon/paned/internal/engineconfig"
	"github.com/1broseidon/paned/internal/layoutdef"
	"github.com/1broseidon/paned/internal/paneid"
)

// builtinLayouts are available without any layout files on disk. A file
// with the same name in the layout directory takes priority.
var builtinLayouts = map[string]layoutdef.Node{
	"single": {},
	"even-split": {
		Axis:     layoutdef.AxisVertical,
		Children: []layoutdef.Node{{}, {}},
	},
	"main-vertical": {
		Axis: layoutdef.AxisVertical,
		Children: []layoutdef.Node{
			{Percent: 60},
			{Percent: 40, Axis: layoutdef.AxisHorizontal, Children: []layoutdef.Node{{}, {}}},
		},
	},
	"stacked": {
		Axis: layoutdef.AxisVertical,
		Children: []layoutdef.Node{
			{},
			{Stacked: true, Children: []layoutdef.Node{{}, {}, {}}},
		},
	},
}

// resolveLayout loads a named layout from the layout directory, falling
// back to the builtins.
func resolveLayout(cfg *engineconfig.Config, name string) (layoutdef.Node, error) {
	data, err := os.ReadFile(cfg.LayoutPath(name))
	if err == nil {
		return layoutdef.Parse(data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return layoutdef.Node{}, fmt.Errorf("read layout %q: %w", name, err)
	}
	if tree, ok := builtinLayouts[name]; ok {
		return tree, nil
	}
	return layoutdef.Node{}, fmt.Errorf("unknown layout %q", name)
}

// applyStartupLayout seeds the engine's initial pane set.
func applyStartupLayout(eng *engine.Engine, cfg *engineconfig.Config, name string) error {
	tree, err := resolveLayout(cfg, name)
	if err != nil {
		return err
	}
	pending := make([]paneid.ID, tree.CountLeaves())
	for i := range pending {
		pending[i] = paneid.New()
	}
	return eng.ApplyLayout(tree, pending)
}
