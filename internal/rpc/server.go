package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// maxLineBytes bounds one wire line. Session outputs and diffs are
// truncated far below this; the ceiling only guards against runaway
// payloads.
const maxLineBytes = 8 << 20

// Handler serves one method. The result is marshaled into the
// response. Returning *Error keeps its code on the wire; any other
// error becomes INTERNAL_ERROR carrying the error's message.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Server answers JSON-RPC requests on a Unix domain socket. Each
// connection gets its own goroutine; requests on one connection run
// sequentially in arrival order.
type Server struct {
	socketPath string
	methods    map[string]Handler
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewServer creates a server over the given method table.
func NewServer(socketPath string, methods map[string]Handler, logger *slog.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		methods:    methods,
		logger:     logger,
		conns:      make(map[net.Conn]struct{}),
	}
}

// Start binds the socket and begins accepting connections. A stale
// socket file left by a dead server is removed first, and the fresh
// one is restricted to the owning user.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("restrict socket permissions: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.listener = listener
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(ctx, listener)
	s.logger.Info("rpc server listening", "socket", s.socketPath)
	return nil
}

// Stop closes the listener and every open connection, waits for
// in-flight handlers, and removes the socket file.
func (s *Server) Stop() {
	s.mu.Lock()
	listener := s.listener
	cancel := s.cancel
	s.listener = nil
	s.cancel = nil
	open := make([]net.Conn, 0, len(s.conns))
	for conn := range s.conns {
		open = append(open, conn)
	}
	s.mu.Unlock()

	if listener == nil {
		return
	}
	cancel()
	listener.Close()
	for _, conn := range open {
		conn.Close()
	}
	s.wg.Wait()
	_ = os.Remove(s.socketPath)
	s.logger.Info("rpc server stopped")
}

func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		response := s.handleLine(ctx, line)
		if response == nil {
			continue
		}
		encoded, err := Encode(response)
		if err != nil {
			s.logger.Error("encode response", "error", err)
			continue
		}
		if _, err := conn.Write(encoded); err != nil {
			s.logger.Debug("write response", "error", err)
			return
		}
	}
}

// handleLine processes one wire line and returns the response to
// send, or nil for notifications, which are read and discarded.
func (s *Server) handleLine(ctx context.Context, line []byte) *Response {
	decoded, err := Decode(line)
	if err != nil {
		return NewError(nil, CodeParseError, "parse error")
	}
	if decoded.Notification != nil {
		return nil
	}
	if decoded.Request == nil {
		return NewError(nil, CodeInvalidRequest, "invalid request")
	}

	req := decoded.Request
	handler, ok := s.methods[req.Method]
	if !ok {
		return NewError(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}

	s.logger.Debug("rpc request", "method", req.Method)
	result, err := s.invoke(ctx, handler, req)
	if err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) {
			return NewError(req.ID, rpcErr.Code, rpcErr.Message)
		}
		s.logger.Warn("rpc method failed", "method", req.Method, "error", err)
		return NewError(req.ID, CodeInternalError, err.Error())
	}

	response, err := NewResult(req.ID, result)
	if err != nil {
		return NewError(req.ID, CodeInternalError, err.Error())
	}
	return response
}

// invoke runs the handler, converting a panic into a plain error so
// one bad request cannot take the connection down.
func (s *Server) invoke(ctx context.Context, handler Handler, req *Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("rpc handler panic", "method", req.Method, "panic", r)
			err = fmt.Errorf("%v", r)
		}
	}()
	return handler(ctx, req.Params)
}
