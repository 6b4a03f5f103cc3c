package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Call(t *testing.T) {
	socketPath := startServer(t, pingMethods())
	client := NewClient(socketPath)
	defer client.Close()

	var result string
	err := client.Call(context.Background(), "server.ping", nil, &result)

	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func TestClient_CallSendsParams(t *testing.T) {
	methods := map[string]Handler{
		"echo": func(ctx context.Context, params json.RawMessage) (any, error) {
			var p struct {
				Slug string `json:"slug"`
			}
			require.NoError(t, json.Unmarshal(params, &p))
			return p.Slug, nil
		},
	}
	socketPath := startServer(t, methods)
	client := NewClient(socketPath)
	defer client.Close()

	var result string
	err := client.Call(context.Background(), "echo", map[string]string{"slug": "fix-bug"}, &result)

	require.NoError(t, err)
	assert.Equal(t, "fix-bug", result)
}

func TestClient_DiscardsResultWhenOutIsNil(t *testing.T) {
	socketPath := startServer(t, pingMethods())
	client := NewClient(socketPath)
	defer client.Close()

	err := client.Call(context.Background(), "server.ping", nil, nil)
	require.NoError(t, err)
}

func TestClient_ServerNotRunning(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "absent.sock"))
	defer client.Close()

	err := client.Call(context.Background(), "server.ping", nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerNotRunning)
}

func TestClient_ServerErrorSurfacesAsRPCError(t *testing.T) {
	methods := map[string]Handler{
		"fail": func(ctx context.Context, params json.RawMessage) (any, error) {
			return nil, &Error{Code: CodeInvalidParams, Message: "slug is required"}
		},
	}
	socketPath := startServer(t, methods)
	client := NewClient(socketPath)
	defer client.Close()

	err := client.Call(context.Background(), "fail", nil, nil)

	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)
	assert.Equal(t, "slug is required", rpcErr.Message)
}

func TestClient_ReconnectsAfterServerRestart(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "squad.sock")
	server := NewServer(socketPath, pingMethods(), discardLogger())
	require.NoError(t, server.Start())

	client := NewClient(socketPath)
	defer client.Close()
	require.NoError(t, client.Call(context.Background(), "server.ping", nil, nil))

	// Restart the server behind the client's back; the next call
	// reconnects and retries once.
	server.Stop()
	server = NewServer(socketPath, pingMethods(), discardLogger())
	require.NoError(t, server.Start())
	t.Cleanup(server.Stop)

	var result string
	err := client.Call(context.Background(), "server.ping", nil, &result)
	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func TestClient_IDsIncreaseMonotonically(t *testing.T) {
	// A bare listener instead of Server, so the test can observe the
	// ids the client puts on the wire.
	socketPath := filepath.Join(t.TempDir(), "squad.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	ids := make(chan string, 3)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			decoded, err := Decode(scanner.Bytes())
			if err != nil || decoded.Request == nil {
				return
			}
			ids <- string(decoded.Request.ID)
			resp, _ := NewResult(decoded.Request.ID, "ok")
			line, _ := Encode(resp)
			if _, err := conn.Write(line); err != nil {
				return
			}
		}
	}()

	client := NewClient(socketPath)
	defer client.Close()
	for range 3 {
		require.NoError(t, client.Call(context.Background(), "any.method", nil, nil))
	}

	assert.Equal(t, "1", <-ids)
	assert.Equal(t, "2", <-ids)
	assert.Equal(t, "3", <-ids)
}
