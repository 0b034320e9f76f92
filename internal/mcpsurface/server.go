// Package mcpsurface exposes the daemon's pane verbs as MCP tools, so an
// LLM agent can arrange the workspace it is driving: split, close, resize,
// stack and rearrange panes through the same IPC surface the CLI uses.
package mcpsurface

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/paned/internal/ipcsurface"
	"github.com/1broseidon/paned/internal/render"
)

const (
	ServerName    = "paned"
	ServerVersion = "0.1.0"
)

// Server is the MCP server bridging tool calls to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipcsurface.Client
	log       *slog.Logger
}

// NewServer creates an MCP server talking to the daemon's IPC socket.
func NewServer(client *ipcsurface.Client, log *slog.Logger) *Server {
	s := &Server{
		client: client,
		log:    log,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "split_pane",
		Description: "Split a pane in two. Mode horizontal places the new pane below, vertical places it to the right, largest splits the biggest pane along its longer axis. Returns the new pane id. Fails when the result would drop below the minimum pane size.",
	}, s.handleSplitPane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_pane",
		Description: "Close a pane; its neighbors grow into the vacated space. Closing the last pane is rejected.",
	}, s.handleClosePane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_fullscreen",
		Description: "Toggle fullscreen for a pane. While fullscreen is active the split, resize, focus, move and stack verbs are soft no-ops; toggling again restores the previous layout exactly.",
	}, s.handleToggleFullscreen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_pane",
		Description: "Move one edge of a pane by a number of cells (direction up/down/left/right), or use increase/decrease to grow/shrink on the first side with room. A resize with no room is a no-op, not an error.",
	}, s.handleResizePane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_focus",
		Description: "Move focus to the neighboring pane in a direction, preferring the most recently focused neighbor.",
	}, s.handleMoveFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_pane",
		Description: "Swap the active pane's position with its neighbor in a direction.",
	}, s.handleMovePane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "combine_stack",
		Description: "Merge aligned panes into a stack: one pane stays visible at full height, the rest collapse to one-line titlebars. Vertical orientation merges panes stacked on top of each other; horizontal merges side-by-side panes into one column.",
	}, s.handleCombineStack)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "break_out_pane",
		Description: "Eject a pane from its stack into its own tile carved from the stack's column.",
	}, s.handleBreakOut)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_stack_pane",
		Description: "Promote a stacked pane to be its stack's visible member; the previously visible pane collapses to a titlebar.",
	}, s.handleFocusStackPane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reflow",
		Description: "Resize the tab to a new screen size, rescaling every pane proportionally without gaps or overlaps.",
	}, s.handleReflow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_layout",
		Description: "Replace the pane set with a declarative layout tree, given inline YAML or a named layout from the daemon's layout directory. Fails atomically on impossible sizes.",
	}, s.handleApplyLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "swap_layout",
		Description: "Rearrange the existing panes to match a different layout tree with the same number of panes, keeping pane identity.",
	}, s.handleSwapLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_panes",
		Description: "List every pane with its position, size, logical position and stack membership.",
	}, s.handleListPanes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "render_layout",
		Description: "Render the current layout as an ASCII box diagram, one character per screen cell.",
	}, s.handleRenderLayout)
}

func (s *Server) handleSplitPane(_ context.Context, _ *mcpsdk.CallToolRequest, args SplitPaneInput) (*mcpsdk.CallToolResult, SplitPaneOutput, error) {
	mode := args.Mode
	if mode == "" {
		mode = "largest"
	}
	newPane, err := s.client.Split(args.Pane, mode)
	if err != nil {
		s.log.Warn("split_pane failed", "mode", mode, "err", err)
		return nil, SplitPaneOutput{}, err
	}
	s.log.Info("split_pane", "mode", mode, "new_pane", newPane)
	return nil, SplitPaneOutput{NewPane: newPane}, nil
}

func (s *Server) handleClosePane(_ context.Context, _ *mcpsdk.CallToolRequest, args PaneInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.Close(args.Pane); err != nil {
		return nil, nil, err
	}
	return textResult("pane closed"), nil, nil
}

func (s *Server) handleToggleFullscreen(_ context.Context, _ *mcpsdk.CallToolRequest, args PaneInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.ToggleFullscreen(args.Pane); err != nil {
		return nil, nil, err
	}
	return textResult("fullscreen toggled"), nil, nil
}

func (s *Server) handleResizePane(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizePaneInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.Resize(args.Pane, args.Direction, args.Step); err != nil {
		return nil, nil, err
	}
	return textResult("resize applied"), nil, nil
}

func (s *Server) handleMoveFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.MoveFocus("", args.Direction); err != nil {
		return nil, nil, err
	}
	return textResult("focus moved"), nil, nil
}

func (s *Server) handleMovePane(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.MovePane("", args.Direction); err != nil {
		return nil, nil, err
	}
	return textResult("pane moved"), nil, nil
}

func (s *Server) handleCombineStack(_ context.Context, _ *mcpsdk.CallToolRequest, args CombineStackInput) (*mcpsdk.CallToolResult, any, error) {
	orientation := args.Orientation
	if orientation == "" {
		orientation = "vertical"
	}
	if err := s.client.CombineStack(args.Root, args.Others, orientation); err != nil {
		return nil, nil, err
	}
	return textResult("panes stacked"), nil, nil
}

func (s *Server) handleBreakOut(_ context.Context, _ *mcpsdk.CallToolRequest, args PaneInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.BreakOut(args.Pane); err != nil {
		return nil, nil, err
	}
	return textResult("pane broken out"), nil, nil
}

func (s *Server) handleFocusStackPane(_ context.Context, _ *mcpsdk.CallToolRequest, args PaneInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.FocusStackPane(args.Pane); err != nil {
		return nil, nil, err
	}
	return textResult("stack pane focused"), nil, nil
}

func (s *Server) handleReflow(_ context.Context, _ *mcpsdk.CallToolRequest, args ReflowInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.Reflow(args.Rows, args.Cols); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("reflowed to %dx%d", args.Cols, args.Rows)), nil, nil
}

func (s *Server) handleApplyLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyLayoutInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.ApplyLayout(args.Name, args.YAML); err != nil {
		return nil, nil, err
	}
	return textResult("layout applied"), nil, nil
}

func (s *Server) handleSwapLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyLayoutInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.SwapLayout(args.Name, args.YAML); err != nil {
		return nil, nil, err
	}
	return textResult("layout swapped"), nil, nil
}

func (s *Server) handleListPanes(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, ListPanesOutput, error) {
	data, err := s.client.ListPanes()
	if err != nil {
		return nil, ListPanesOutput{}, err
	}
	out := ListPanesOutput{Rows: data.Rows, Cols: data.Cols}
	for _, p := range data.Panes {
		out.Panes = append(out.Panes, PaneDescription{
			ID:              p.ID,
			X:               p.X,
			Y:               p.Y,
			Cols:            p.Cols,
			Rows:            p.Rows,
			LogicalPosition: p.LogicalPosition,
			Stack:           p.Stack,
			Flexible:        p.Flexible,
			Active:          p.Active,
		})
	}
	return nil, out, nil
}

func (s *Server) handleRenderLayout(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, RenderOutput, error) {
	data, err := s.client.ListPanes()
	if err != nil {
		return nil, RenderOutput{}, err
	}
	boxes := make([]render.Box, 0, len(data.Panes))
	for _, p := range data.Panes {
		label := p.ID
		if len(label) > 8 {
			label = label[:8]
		}
		boxes = append(boxes, render.Box{
			X:        p.X,
			Y:        p.Y,
			Cols:     p.Cols,
			Rows:     p.Rows,
			Label:    label,
			Titlebar: p.Stack != "" && !p.Flexible,
			Active:   p.Active,
		})
	}
	return nil, RenderOutput{Screen: render.ASCII(data.Rows, data.Cols, boxes)}, nil
}

func textResult(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
	}
}
