// Package server exposes the replication engine over the wire protocol
// of spec.md §6.3: a line-delimited text control connection accumulates
// data/weights/replicate-weights/variable/group-by/factor/estimator
// commands into a Session, and a binary data connection delivers the
// matching payloads. calculate freezes the session into a
// dataset.Analysis, runs it, and replies with a MessagePack-encoded
// result map.
package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// Config configures a Server. Zero values are invalid; use New.
type Config struct {
	// ControlEndpoint is a filesystem path (Unix socket) or a
	// "host:port" pair (TCP) for the control connection.
	ControlEndpoint string
	// DataEndpoint is the same shape, for the binary data connection.
	DataEndpoint string
	// Logger receives connection and protocol diagnostics. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

// Server owns the control and data listeners and the one active
// client session.
type Server struct {
	cfg Config
	log *slog.Logger

	controlLn net.Listener
	dataLn    net.Listener

	mu      sync.Mutex
	session *Session
}

// New constructs a Server from cfg, applying a default logger when
// none is set. It does not bind any listener yet; call Serve for that.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, log: logger, session: &Session{}}
}

func listen(endpoint string) (net.Listener, error) {
	if strings.Contains(endpoint, ":") {
		return net.Listen("tcp", endpoint)
	}
	return net.Listen("unix", endpoint)
}

// Serve binds both listeners and runs the accept loops until ctx is
// canceled or a "shutdown" command is received on the control
// connection. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	controlLn, err := listen(s.cfg.ControlEndpoint)
	if err != nil {
		return fmt.Errorf("server: bind control endpoint %q: %w", s.cfg.ControlEndpoint, err)
	}
	s.controlLn = controlLn

	dataLn, err := listen(s.cfg.DataEndpoint)
	if err != nil {
		controlLn.Close()
		return fmt.Errorf("server: bind data endpoint %q: %w", s.cfg.DataEndpoint, err)
	}
	s.dataLn = dataLn

	shutdown := make(chan error, 1)

	go s.acceptData(ctx)
	go func() { shutdown <- s.acceptControl(ctx) }()

	go func() {
		<-ctx.Done()
		s.controlLn.Close()
		s.dataLn.Close()
	}()

	err = <-shutdown
	s.controlLn.Close()
	s.dataLn.Close()
	return err
}

// acceptData runs forever, treating each data connection as exactly
// one FIFO-matched payload: read to EOF, hand the bytes to the active
// session, close.
func (s *Server) acceptData(ctx context.Context) {
	for {
		conn, err := s.dataLn.Accept()
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			payload, err := io.ReadAll(conn)
			if err != nil {
				s.log.Warn("server: reading data payload", "error", err)
				return
			}
			s.mu.Lock()
			session := s.session
			s.mu.Unlock()
			if err := session.deliverPayload(payload); err != nil {
				s.log.Warn("server: delivering data payload", "error", err)
			}
		}()
	}
}

// acceptControl serves control connections one command at a time until
// a connection sends "shutdown", at which point Serve returns nil.
func (s *Server) acceptControl(ctx context.Context) error {
	for {
		conn, err := s.controlLn.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("server: control accept: %w", err)
		}

		done, err := s.handleControl(ctx, conn)
		conn.Close()
		if err != nil {
			s.log.Warn("server: control connection error", "error", err)
		}
		if done {
			return nil
		}
	}
}

func (s *Server) handleControl(ctx context.Context, conn net.Conn) (shutdownRequested bool, err error) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ack, calculate, shutdown, cmdErr := session.applyCommand(line)
		if cmdErr != nil {
			fmt.Fprintf(conn, "error: %v\n", cmdErr)
			continue
		}

		if calculate {
			results, calcErr := session.calculate(ctx)
			if calcErr != nil {
				fmt.Fprintf(conn, "error: %v\n", calcErr)
				s.resetSession()
				continue
			}
			encoded, encErr := encodeResults(results)
			if encErr != nil {
				fmt.Fprintf(conn, "error: %v\n", encErr)
				s.resetSession()
				continue
			}
			if _, err := conn.Write(encoded); err != nil {
				return false, fmt.Errorf("server: writing calculate reply: %w", err)
			}
			s.resetSession()
			continue
		}

		fmt.Fprintf(conn, "%s\n", ack)
		if shutdown {
			return true, nil
		}
	}
	return false, scanner.Err()
}

func (s *Server) resetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &Session{}
}
