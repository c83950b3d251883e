// Package wsexec reaches a block executor running next to the hardware: a
// small control daemon on the board accepts JSON frames over a websocket
// and drives the SD-FEC pipeline on our behalf. One request is in flight
// at a time, matching the single physical pipeline behind the daemon.
package wsexec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fecworks/fecsweep/internal/codetable"
	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/ctxlog"
	"github.com/fecworks/fecsweep/internal/executor"
	"github.com/fecworks/fecsweep/internal/result"
)

// defaultTimeout bounds a single request/response exchange when the
// caller's context carries no deadline. Hardware runs can take minutes at
// high block counts.
const defaultTimeout = 10 * time.Minute

// Client implements executor.BlockExecutor against a remote control
// daemon.
type Client struct {
	conn    *websocket.Conn
	url     string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-exchange deadline used when the context
// has none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Dial connects to the board's control endpoint, e.g.
// "ws://rfsoc:8090/fec". Connection failures are hardware faults: the
// device is unreachable.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	c := &Client{url: url, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, &executor.HardwareFault{Op: "dial", Err: err}
	}
	c.conn = conn
	ctxlog.FromContext(ctx).Debug("connected to board executor", "url", url)
	return c, nil
}

// Close shuts the control connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ExecuteBlock sends the configuration to the board and waits for the
// measured statistics.
func (c *Client) ExecuteBlock(ctx context.Context, cfg config.RunConfiguration) (result.Row, error) {
	resp, err := c.roundTrip(ctx, request{Type: typeExecute, Config: toWireConfig(cfg)})
	if err != nil {
		return result.Row{}, err
	}
	switch resp.Type {
	case typeResult:
		row, err := rowFromWire(resp.Fields)
		if err != nil {
			return result.Row{}, &executor.HardwareFault{Op: "execute", Err: err}
		}
		return row, nil
	case typeRejected:
		return result.Row{}, &executor.ConfigRejected{Field: resp.Field, Reason: resp.Reason}
	case typeFault:
		return result.Row{}, &executor.HardwareFault{Op: "execute", Err: errors.New(resp.Reason)}
	}
	return result.Row{}, &executor.HardwareFault{Op: "execute",
		Err: fmt.Errorf("unexpected response type %q", resp.Type)}
}

// ListCodes asks the board for its loaded code table.
func (c *Client) ListCodes(ctx context.Context) ([]codetable.Descriptor, error) {
	resp, err := c.roundTrip(ctx, request{Type: typeListCodes})
	if err != nil {
		return nil, err
	}
	if resp.Type != typeCodes {
		return nil, &executor.HardwareFault{Op: "list_codes",
			Err: fmt.Errorf("unexpected response type %q", resp.Type)}
	}
	return resp.Codes, nil
}

// RegisterCode loads an additional code parameter set into the board's
// table ahead of existing entries.
func (c *Client) RegisterCode(ctx context.Context, slot int, d codetable.Descriptor) error {
	resp, err := c.roundTrip(ctx, request{Type: typeRegisterCode, Slot: slot, Code: &d})
	if err != nil {
		return err
	}
	switch resp.Type {
	case typeOK:
		return nil
	case typeRejected:
		return &executor.ConfigRejected{Field: resp.Field, Reason: resp.Reason}
	}
	return &executor.HardwareFault{Op: "register_code",
		Err: fmt.Errorf("unexpected response type %q", resp.Type)}
}

// roundTrip performs one request/response exchange. Transport errors in
// either direction are hardware faults; the control link is part of the
// device as far as sweeps are concerned.
func (c *Client) roundTrip(ctx context.Context, req request) (response, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return response{}, &executor.HardwareFault{Op: "write", Err: err}
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return response{}, &executor.HardwareFault{Op: "write", Err: err}
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return response{}, &executor.HardwareFault{Op: "read", Err: err}
	}
	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return response{}, &executor.HardwareFault{Op: "read", Err: err}
	}
	return resp, nil
}
