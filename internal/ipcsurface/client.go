package ipcsurface

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/paned/internal/runtimepath"
)

// Client handles IPC communication with the daemon.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response.
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return &resp, fmt.Errorf("%s", resp.Error)
	}
	return &resp, nil
}

// call marshals a payload and dispatches the command.
func (c *Client) call(cmd CommandType, payload interface{}) (*Response, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = data
	}
	return c.sendRequest(&Request{Command: cmd, Payload: raw})
}

// Split requests a split of pane (empty = active) and returns the new
// pane's id, or "" on a no-op.
func (c *Client) Split(pane, mode string) (string, error) {
	resp, err := c.call(CommandSplit, SplitPayload{Pane: pane, Mode: mode})
	if err != nil {
		return "", err
	}
	if resp.Status != "OK" || len(resp.Data) == 0 {
		return "", nil
	}
	var data SplitData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse split data: %w", err)
	}
	return data.NewPane, nil
}

// Close closes a pane (empty = active).
func (c *Client) Close(pane string) error {
	_, err := c.call(CommandClose, PanePayload{Pane: pane})
	return err
}

// ToggleFullscreen toggles fullscreen on a pane (empty = active).
func (c *Client) ToggleFullscreen(pane string) error {
	_, err := c.call(CommandToggleFullscreen, PanePayload{Pane: pane})
	return err
}

// Resize moves a pane edge; NoOp results are not errors.
func (c *Client) Resize(pane, direction string, step int) error {
	_, err := c.call(CommandResize, ResizePayload{Pane: pane, Direction: direction, Step: step})
	return err
}

// MoveFocus shifts focus in a direction.
func (c *Client) MoveFocus(client, direction string) error {
	_, err := c.call(CommandMoveFocus, DirectionPayload{Client: client, Direction: direction})
	return err
}

// MovePane swaps the active pane with its neighbor in a direction.
func (c *Client) MovePane(client, direction string) error {
	_, err := c.call(CommandMovePane, DirectionPayload{Client: client, Direction: direction})
	return err
}

// CombineStack merges panes into a stack. Empty others means every
// aligned pane.
func (c *Client) CombineStack(root string, others []string, orientation string) error {
	_, err := c.call(CommandCombineStack, CombineStackPayload{Root: root, Others: others, Orientation: orientation})
	return err
}

// BreakOut ejects a pane from its stack.
func (c *Client) BreakOut(pane string) error {
	_, err := c.call(CommandBreakOut, PanePayload{Pane: pane})
	return err
}

// FocusStackPane promotes a stacked pane to be its stack's visible member.
func (c *Client) FocusStackPane(pane string) error {
	_, err := c.call(CommandFocusStackPane, PanePayload{Pane: pane})
	return err
}

// Reflow resizes the tab.
func (c *Client) Reflow(rows, cols int) error {
	_, err := c.call(CommandReflow, ReflowPayload{Rows: rows, Cols: cols})
	return err
}

// ApplyLayout applies a named or inline layout.
func (c *Client) ApplyLayout(name, yaml string) error {
	_, err := c.call(CommandApplyLayout, LayoutPayload{Name: name, YAML: yaml})
	return err
}

// SwapLayout rearranges the existing panes per a named or inline layout.
func (c *Client) SwapLayout(name, yaml string) error {
	_, err := c.call(CommandSwapLayout, LayoutPayload{Name: name, YAML: yaml})
	return err
}

// ListPanes returns the current pane set.
func (c *Client) ListPanes() (*PanesData, error) {
	resp, err := c.call(CommandListPanes, nil)
	if err != nil {
		return nil, err
	}
	var data PanesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse panes data: %w", err)
	}
	return &data, nil
}

// GetStatus returns daemon status.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.call(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	var data StatusData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &data, nil
}
