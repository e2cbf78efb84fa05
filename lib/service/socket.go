// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/palette/lib/codec"
	"github.com/bureau-foundation/palette/lib/netutil"
)

// ActionFunc answers one action. raw is the whole CBOR request map,
// "action" field included. A nil result is sent as {ok: true}; an error
// is sent as {ok: false, error: err.Error()}.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Typed adapts handler to an ActionFunc that decodes the request map
// into a Request before calling it. Unknown fields, "action" among
// them, are ignored.
func Typed[Request any](handler func(ctx context.Context, request Request) (any, error)) ActionFunc {
	return func(ctx context.Context, raw []byte) (any, error) {
		var request Request
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("decoding request: %w", err)
		}
		return handler(ctx, request)
	}
}

// Response is the envelope of every socket reply.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

const (
	// readTimeout bounds the wait for the request after accept.
	readTimeout = 30 * time.Second

	writeTimeout = 10 * time.Second

	// maxRequestSize bounds one request. A search carries one typed
	// query.
	maxRequestSize = 64 * 1024
)

// SocketServer answers CBOR requests on a Unix socket, one request per
// connection. Register actions with Handle before Serve.
type SocketServer struct {
	socketPath string
	actions    map[string]ActionFunc
	logger     *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once

	// inflight lets Serve wait for open connections before returning.
	inflight sync.WaitGroup
}

// NewSocketServer returns a server for socketPath with no actions.
func NewSocketServer(socketPath string, logger *slog.Logger) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		actions:    make(map[string]ActionFunc),
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Handle registers handler for action. Registering an action twice
// panics.
func (s *SocketServer) Handle(action string, handler ActionFunc) {
	if _, taken := s.actions[action]; taken {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	s.actions[action] = handler
}

// Ready is closed once the socket accepts connections.
func (s *SocketServer) Ready() <-chan struct{} {
	return s.ready
}

// Serve listens until ctx is cancelled and then waits for open
// connections. A leftover socket file is replaced on start and the
// socket file is removed on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer os.Remove(s.socketPath)

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.logger.Info("socket server listening", "path", s.socketPath, "actions", len(s.actions))
	s.readyOnce.Do(func() { close(s.ready) })

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			defer conn.Close()
			s.serveConn(ctx, conn)
		}()
	}
	listener.Close()
	s.inflight.Wait()
	return nil
}

func (s *SocketServer) serveConn(ctx context.Context, conn net.Conn) {
	started := time.Now()
	conn.SetReadDeadline(started.Add(readTimeout))

	action, raw, err := readRequest(conn)
	if err != nil {
		if !netutil.IsExpectedCloseError(err) {
			s.reply(conn, Response{Error: err.Error()})
		}
		return
	}

	handler, known := s.actions[action]
	if !known {
		s.reply(conn, Response{Error: fmt.Sprintf("unknown action %q", action)})
		return
	}

	response := Response{OK: true}
	result, err := handler(ctx, raw)
	switch {
	case err != nil:
		response = Response{Error: err.Error()}
	case result != nil:
		data, marshalErr := codec.Marshal(result)
		if marshalErr != nil {
			response = Response{Error: fmt.Sprintf("internal: marshaling response: %v", marshalErr)}
		} else {
			response.Data = data
		}
	}
	s.reply(conn, response)
	s.logger.Debug("socket request",
		"action", action,
		"ok", response.OK,
		"error", response.Error,
		"elapsed", time.Since(started),
	)
}

// readRequest decodes one CBOR request and extracts its action. CBOR
// is self-delimiting, so one Decode consumes exactly the request. An
// empty connection yields the decoder's EOF unchanged.
func readRequest(conn net.Conn) (string, []byte, error) {
	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&raw); err != nil {
		if netutil.IsExpectedCloseError(err) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("invalid request: %v", err)
	}
	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		return "", nil, fmt.Errorf("invalid request: %v", err)
	}
	if header.Action == "" {
		return "", nil, errors.New("missing required field: action")
	}
	return header.Action, raw, nil
}

// reply writes response. The connection closes afterwards either way,
// so a failed write is only logged.
func (s *SocketServer) reply(conn net.Conn, response Response) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("writing socket response", "error", err)
	}
}
