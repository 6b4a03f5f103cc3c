package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/runoshun/squad/internal/domain"
)

// dialTimeout bounds the Unix socket connect. The server is local;
// anything slower than this means it is not there.
const dialTimeout = 5 * time.Second

// errConnectionClosed marks transport failures that warrant one
// reconnect attempt before giving up.
var errConnectionClosed = errors.New("server closed connection")

// Client is a JSON-RPC client over the control socket. It keeps one
// connection and allows one in-flight call at a time; ids increase
// monotonically for the client's lifetime.
type Client struct {
	socketPath string

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int64
}

// NewClient creates a client for the given socket path. No connection
// is made until the first call.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Call invokes a method and decodes its result into out, which may be
// nil when the caller discards the result. A broken connection is
// re-dialed and the call retried exactly once; a server-side error
// comes back as *Error.
func (c *Client) Call(ctx context.Context, method string, params, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.roundTrip(ctx, method, params)
	if retryable(err) {
		c.closeLocked()
		raw, err = c.roundTrip(ctx, method, params)
	}
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

// Close drops the connection. The client remains usable; the next
// call re-dials.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	c.nextID++
	req, err := NewRequest(c.nextID, method, params)
	if err != nil {
		return nil, err
	}
	encoded, err := Encode(req)
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
	} else {
		_ = c.conn.SetDeadline(time.Time{})
	}

	if _, err := c.conn.Write(encoded); err != nil {
		return nil, fmt.Errorf("%w: %v", errConnectionClosed, err)
	}
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConnectionClosed, err)
	}

	decoded, err := Decode(line)
	if err != nil {
		return nil, err
	}
	if decoded.Response == nil {
		return nil, fmt.Errorf("unexpected message for %s", method)
	}
	if decoded.Response.Error != nil {
		return nil, decoded.Response.Error
	}
	return decoded.Response.Result, nil
}

func (c *Client) ensureConnected(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServerNotRunning, err)
	}
	c.conn = conn
	c.reader = bufio.NewReaderSize(conn, 64*1024)
	return nil
}

func (c *Client) closeLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		c.reader = nil
	}
}

// retryable reports whether the error is a transport failure worth
// one reconnect. Server-side errors and decode failures are not.
func retryable(err error) bool {
	return errors.Is(err, errConnectionClosed)
}
