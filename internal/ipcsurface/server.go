package ipcsurface

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/paned/internal/engine"
	"github.com/1broseidon/paned/internal/engineconfig"
	"github.com/1broseidon/paned/internal/engineerr"
	"github.com/1broseidon/paned/internal/layoutdef"
	"github.com/1broseidon/paned/internal/paneid"
	"github.com/1broseidon/paned/internal/runtimepath"
	"github.com/1broseidon/paned/internal/tiling"
)

// Server handles IPC requests from clients and forwards them to the
// engine.
type Server struct {
	socketPath   string
	listener     net.Listener
	eng          *engine.Engine
	cfg          *engineconfig.Config
	log          *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server around an engine.
func NewServer(eng *engine.Engine, cfg *engineconfig.Config, log *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		eng:        eng,
		cfg:        cfg,
		log:        log,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info("ipc server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn("ipc accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn("ipc read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	resp := s.handleCommand(req)

	s.send(conn, resp)
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.log.Warn("failed to marshal response", "err", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.log.Warn("failed to send response", "err", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.log.Debug("ipc command", "command", req.Command)
	switch req.Command {
	case CommandSplit:
		return s.handleSplit(req.Payload)
	case CommandClose:
		return s.handleClose(req.Payload)
	case CommandToggleFullscreen:
		return s.handleToggleFullscreen(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandMoveFocus:
		return s.handleMoveFocus(req.Payload)
	case CommandMovePane:
		return s.handleMovePane(req.Payload)
	case CommandCombineStack:
		return s.handleCombineStack(req.Payload)
	case CommandBreakOut:
		return s.handleBreakOut(req.Payload)
	case CommandFocusStackPane:
		return s.handleFocusStackPane(req.Payload)
	case CommandReflow:
		return s.handleReflow(req.Payload)
	case CommandApplyLayout:
		return s.handleApplyLayout(req.Payload)
	case CommandSwapLayout:
		return s.handleSwapLayout(req.Payload)
	case CommandListPanes:
		return s.handleListPanes()
	case CommandGetStatus:
		return s.handleGetStatus()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// resolvePane maps an optional pane string to an id, defaulting to the
// active pane.
func (s *Server) resolvePane(pane string) (paneid.ID, error) {
	if pane == "" {
		id, ok := s.eng.Active("")
		if !ok {
			return paneid.ID{}, fmt.Errorf("no active pane")
		}
		return id, nil
	}
	return paneid.Parse(pane)
}

// verbResponse maps an engine result/error pair onto the wire statuses.
func verbResponse(res engineerr.Result, err error) *Response {
	if err != nil {
		if errors.Is(err, engineerr.FullscreenBlocked) {
			return NewNoOpResponse(err.Error())
		}
		return NewErrorResponse(err.Error())
	}
	if res == engineerr.NoOp {
		return NewNoOpResponse("no change")
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSplit(payload json.RawMessage) *Response {
	var p SplitPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid split payload: %v", err))
	}

	newID := paneid.New()
	var res engineerr.Result
	var err error
	switch p.Mode {
	case "largest":
		res, err = s.eng.SplitLargest(newID)
	case "horizontal", "vertical":
		var parent paneid.ID
		parent, err = s.resolvePane(p.Pane)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Mode == "horizontal" {
			res, err = s.eng.SplitHorizontal(parent, newID)
		} else {
			res, err = s.eng.SplitVertical(parent, newID)
		}
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown split mode: %s", p.Mode))
	}
	if err != nil || res == engineerr.NoOp {
		return verbResponse(res, err)
	}
	resp, _ := NewOKResponse(SplitData{NewPane: newID.String()})
	return resp
}

func (s *Server) handleClose(payload json.RawMessage) *Response {
	var p PanePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid close payload: %v", err))
	}
	id, err := s.resolvePane(p.Pane)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return verbResponse(s.eng.Close(id))
}

func (s *Server) handleToggleFullscreen(payload json.RawMessage) *Response {
	var p PanePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid fullscreen payload: %v", err))
	}
	id, err := s.resolvePane(p.Pane)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return verbResponse(s.eng.ToggleFullscreen(id))
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var p ResizePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	id, err := s.resolvePane(p.Pane)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	dir, err := parseResizeDirection(p.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	step := p.Step
	if step <= 0 {
		step = 1
	}
	return verbResponse(s.eng.Resize(id, dir, step))
}

func (s *Server) handleMoveFocus(payload json.RawMessage) *Response {
	var p DirectionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	dir, err := parseDirection(p.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return verbResponse(s.eng.MoveFocus(engine.ClientID(p.Client), dir))
}

func (s *Server) handleMovePane(payload json.RawMessage) *Response {
	var p DirectionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	dir, err := parseDirection(p.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return verbResponse(s.eng.MovePane(engine.ClientID(p.Client), dir))
}

func (s *Server) handleCombineStack(payload json.RawMessage) *Response {
	var p CombineStackPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid stack payload: %v", err))
	}
	root, err := s.resolvePane(p.Root)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	orientation := engine.StackVertical
	if p.Orientation == "horizontal" {
		orientation = engine.StackHorizontal
	}

	var others []paneid.ID
	if len(p.Others) > 0 {
		for _, o := range p.Others {
			id, err := paneid.Parse(o)
			if err != nil {
				return NewErrorResponse(fmt.Sprintf("Invalid pane id %q: %v", o, err))
			}
			others = append(others, id)
		}
	} else {
		others = alignedWith(s.eng.State(), root, orientation)
		if len(others) == 0 {
			return NewNoOpResponse("no aligned panes to stack with")
		}
	}
	return verbResponse(s.eng.CombineToStack(root, others, orientation))
}

func (s *Server) handleBreakOut(payload json.RawMessage) *Response {
	var p PanePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid break-out payload: %v", err))
	}
	id, err := s.resolvePane(p.Pane)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return verbResponse(s.eng.BreakOut(id))
}

func (s *Server) handleFocusStackPane(payload json.RawMessage) *Response {
	var p PanePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}
	id, err := s.resolvePane(p.Pane)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return verbResponse(s.eng.FocusWithinStack(id))
}

func (s *Server) handleReflow(payload json.RawMessage) *Response {
	var p ReflowPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid reflow payload: %v", err))
	}
	return verbResponse(s.eng.Reflow(p.Rows, p.Cols))
}

// loadTree resolves a layout payload to a parsed tree, preferring inline
// YAML over a named file.
func (s *Server) loadTree(p LayoutPayload) (layoutdef.Node, error) {
	data := []byte(p.YAML)
	if p.YAML == "" {
		if p.Name == "" {
			return layoutdef.Node{}, fmt.Errorf("layout name or yaml is required")
		}
		var err error
		data, err = os.ReadFile(s.cfg.LayoutPath(p.Name))
		if err != nil {
			return layoutdef.Node{}, fmt.Errorf("read layout %q: %w", p.Name, err)
		}
	}
	return layoutdef.Parse(data)
}

func (s *Server) handleApplyLayout(payload json.RawMessage) *Response {
	var p LayoutPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}
	tree, err := s.loadTree(p)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	pending := make([]paneid.ID, tree.CountLeaves())
	for i := range pending {
		pending[i] = paneid.New()
	}
	if err := s.eng.ApplyLayout(tree, pending); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSwapLayout(payload json.RawMessage) *Response {
	var p LayoutPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}
	tree, err := s.loadTree(p)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.eng.SwapLayout(tree); err != nil {
		if errors.Is(err, engineerr.FullscreenBlocked) {
			return NewNoOpResponse(err.Error())
		}
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleListPanes() *Response {
	rows, cols := s.eng.ScreenSize()
	active, _ := s.eng.Active("")
	data := PanesData{Rows: rows, Cols: cols}
	for _, p := range s.eng.Panes() {
		pd := PaneData{
			ID:              p.ID.String(),
			X:               p.Rect.X,
			Y:               p.Rect.Y,
			Cols:            p.Rect.Cols,
			Rows:            p.Rect.Rows,
			LogicalPosition: p.LogicalPosition,
			Flexible:        p.Flexible,
			Active:          p.ID == active,
		}
		if p.Stacked != nil {
			pd.Stack = p.Stacked.String()
		}
		data.Panes = append(data.Panes, pd)
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	rows, cols := s.eng.ScreenSize()
	status := StatusData{
		PaneCount:     len(s.eng.Panes()),
		Rows:          rows,
		Cols:          cols,
		Fullscreen:    s.eng.InFullscreen(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
	if active, ok := s.eng.Active(""); ok {
		status.ActivePane = active.String()
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// Stop gracefully shuts down the IPC server.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func parseDirection(dir string) (engine.Direction, error) {
	switch dir {
	case "up":
		return engine.Up, nil
	case "down":
		return engine.Down, nil
	case "left":
		return engine.Left, nil
	case "right":
		return engine.Right, nil
	default:
		return engine.Up, fmt.Errorf("unknown direction %q", dir)
	}
}

func parseResizeDirection(dir string) (engine.ResizeDirection, error) {
	switch dir {
	case "up":
		return engine.ResizeUp, nil
	case "down":
		return engine.ResizeDown, nil
	case "left":
		return engine.ResizeLeft, nil
	case "right":
		return engine.ResizeRight, nil
	case "increase":
		return engine.ResizeIncrease, nil
	case "decrease":
		return engine.ResizeDecrease, nil
	default:
		return engine.ResizeUp, fmt.Errorf("unknown resize direction %q", dir)
	}
}

// alignedWith lists the panes aligned with root for the given stacking
// orientation: sharing x/cols for a vertical merge, y/rows for a
// horizontal one.
func alignedWith(st *tiling.State, root paneid.ID, o engine.StackOrientation) []paneid.ID {
	g, ok := st.Geom(root)
	if !ok {
		return nil
	}
	var out []paneid.ID
	for _, id := range st.IDs() {
		if id == root {
			continue
		}
		other, _ := st.Geom(id)
		if o == engine.StackVertical {
			if other.X == g.X && other.Cols.AsUsize() == g.Cols.AsUsize() {
				out = append(out, id)
			}
		} else {
			if other.Y == g.Y && other.Rows.AsUsize() == g.Rows.AsUsize() {
				out = append(out, id)
			}
		}
	}
	return out
}
