package mcpsurface

// SplitPaneInput is the input for the split_pane tool.
type SplitPaneInput struct {
	Mode string `json:"mode" jsonschema:"required,Split mode: horizontal (new pane below), vertical (new pane to the right) or largest (split the biggest pane along its longer axis)"`
	Pane string `json:"pane,omitempty" jsonschema:"Pane id to split (default: the active pane; ignored for largest)"`
}

// SplitPaneOutput is the output for the split_pane tool.
type SplitPaneOutput struct {
	NewPane string `json:"new_pane"`
}

// PaneInput targets a single pane; empty means the active pane.
type PaneInput struct {
	Pane string `json:"pane,omitempty" jsonschema:"Pane id (default: the active pane)"`
}

// ResizePaneInput is the input for the resize_pane tool.
type ResizePaneInput struct {
	Direction string `json:"direction" jsonschema:"required,Edge to move: up, down, left, right, or the all-sides modes increase / decrease"`
	Pane      string `json:"pane,omitempty" jsonschema:"Pane id (default: the active pane)"`
	Step      int    `json:"step,omitempty" jsonschema:"Cells to move the edge by (default: 1)"`
}

// MoveInput is the input for the move_focus and move_pane tools.
type MoveInput struct {
	Direction string `json:"direction" jsonschema:"required,Direction: up, down, left or right"`
}

// CombineStackInput is the input for the combine_stack tool.
type CombineStackInput struct {
	Root        string   `json:"root,omitempty" jsonschema:"Root pane id (default: the active pane)"`
	Others      []string `json:"others,omitempty" jsonschema:"Pane ids to merge with the root (default: every pane aligned with it)"`
	Orientation string   `json:"orientation,omitempty" jsonschema:"vertical merges panes stacked on top of each other; horizontal merges side-by-side panes (default: vertical)"`
}

// ReflowInput is the input for the reflow tool.
type ReflowInput struct {
	Rows int `json:"rows" jsonschema:"required,New screen rows"`
	Cols int `json:"cols" jsonschema:"required,New screen columns"`
}

// ApplyLayoutInput is the input for the apply_layout and swap_layout tools.
type ApplyLayoutInput struct {
	Name string `json:"name,omitempty" jsonschema:"Named layout from the daemon's layout directory"`
	YAML string `json:"yaml,omitempty" jsonschema:"Inline layout tree in YAML (takes priority over name)"`
}

// PaneDescription describes one pane in list_panes output.
type PaneDescription struct {
	ID              string `json:"id"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Cols            int    `json:"cols"`
	Rows            int    `json:"rows"`
	LogicalPosition int    `json:"logical_position"`
	Stack           string `json:"stack,omitempty"`
	Flexible        bool   `json:"flexible,omitempty"`
	Active          bool   `json:"active,omitempty"`
}

// ListPanesOutput is the output for the list_panes tool.
type ListPanesOutput struct {
	Rows  int               `json:"rows"`
	Cols  int               `json:"cols"`
	Panes []PaneDescription `json:"panes"`
}

// RenderOutput is the output for the render_layout tool.
type RenderOutput struct {
	Screen string `json:"screen"`
}
