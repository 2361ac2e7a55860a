package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mickamy/minitable/internal/clock"
	"github.com/mickamy/minitable/internal/logger"
	"github.com/mickamy/minitable/internal/query"
	"github.com/mickamy/minitable/internal/session"
	"github.com/mickamy/minitable/internal/store"
	"github.com/mickamy/minitable/internal/wire"
)

// Selector is the store capability sessions execute against.
// Every session calls it from its own goroutine, so implementations must be
// safe for concurrent use; the server adds no locking of its own.
type Selector interface {
	Select(columns, table string) (store.Result, error)
}

// Catalog is optionally implemented by a Selector so lookups can be
// reported as unknown table or unknown column before executing.
type Catalog interface {
	Schema(table string) ([]string, bool)
}

// Options tunes per-connection behaviour.
type Options struct {
	// Hostname is announced in the welcome banner.
	Hostname string
	// Clock stamps the welcome banner. Defaults to the system clock.
	Clock *clock.Clock
	// MaxPayload bounds every frame in both directions.
	MaxPayload int
	// IdleTimeout closes sessions that send nothing for this long. Zero disables it.
	IdleTimeout time.Duration
	// CloseOnError ends the session after the first failed command.
	CloseOnError bool
	// KeepClosedSessions retains terminated sessions in the registry.
	KeepClosedSessions bool
}

// Server wraps a raw TCP listener and serves one session per connection.
// One goroutine per accepted connection; each has its own bufio Reader/Writer.
type Server struct {
	listener net.Listener
	doneCh   chan struct{}

	db       Selector
	clock    *clock.Clock
	opts     Options
	registry *Registry

	seq    atomic.Int64
	wg     sync.WaitGroup
	closed atomic.Bool
}

// New wires a Selector and options to a net.Listener.
func New(ln net.Listener, db Selector, opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	if opts.Hostname == "" {
		opts.Hostname = Hostname()
	}
	if opts.MaxPayload <= 0 {
		opts.MaxPayload = wire.DefaultMaxPayload
	}
	return &Server{
		listener: ln,
		doneCh:   make(chan struct{}),
		db:       db,
		clock:    opts.Clock,
		opts:     opts,
		registry: NewRegistry(),
	}
}

// Hostname returns the OS hostname, or session.UnknownHost if it cannot be read.
func Hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return session.UnknownHost
	}
	return h
}

// Welcome renders the banner sent to every client on connect.
func Welcome(stamp, hostname string) string {
	return fmt.Sprintf("%s Successfully connected with the server (%s). Welcome!", stamp, hostname)
}

// Serve accepts connections and spawns a session for each until the listener
// is closed. It returns nil after Close and the accept error otherwise; an
// accept error is fatal and leaves the listener closed.
func (s *Server) Serve() error {
	defer close(s.doneCh)
	logger.Info("listening", "addr", s.listener.Addr().String(), "hostname", s.opts.Hostname)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			logger.Error("accept failed, server going down", "err", err)
			s.closed.Store(true)
			_ = s.listener.Close()
			s.closeSessions()
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Addr returns the listener's network address.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Done closes when Serve() exits (useful for coordinating shutdown).
func (s *Server) Done() <-chan struct{} { return s.doneCh }

// Close stops accepting new connections, closes every live session and
// waits for their goroutines to exit.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	logger.Info("shutting down", "live_sessions", s.registry.Live())
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.closeSessions()
	s.wg.Wait()
	return err
}

func (s *Server) closeSessions() {
	for _, sess := range s.registry.Snapshot() {
		_ = sess.Close()
	}
}

// Registry exposes the sessions this server has started serving.
func (s *Server) Registry() *Registry { return s.registry }

// Now returns the server clock's time.
func (s *Server) Now() time.Time { return s.clock.Now() }

func (s *Server) handleConn(c net.Conn) {
	defer s.wg.Done()

	id := fmt.Sprintf("conn-%d", s.seq.Add(1))
	sess := session.New(id, c, s.opts.Hostname, s.Now())
	s.registry.Add(sess)
	defer func() {
		if p := recover(); p != nil {
			logger.Error("session panicked", "session", id, "panic", p)
		}
		_ = sess.Close()
		if !s.opts.KeepClosedSessions {
			s.registry.Remove(sess)
		}
		logger.Info("client logged out", "session", id, "client", sess.ClientHost(), "peer", sess.Peer(), "queries", sess.Queries())
	}()

	// Accepted while Close was running: closeSessions may have missed it.
	if s.closed.Load() {
		logger.Debug("server closing, dropping connection", "session", id, "peer", sess.Peer())
		return
	}
	logger.Info("new connection", "session", id, "peer", sess.Peer())

	r := wire.NewReader(bufio.NewReader(c), s.opts.MaxPayload)
	w := wire.NewWriter(bufio.NewWriter(c), s.opts.MaxPayload)

	if err := s.handshake(c, sess, r, w); err != nil {
		s.logReadErr(sess, "handshake", err)
		return
	}
	s.serveSession(c, sess, r, w)
}

// handshake sends the welcome banner and waits for the client's hostname.
func (s *Server) handshake(c net.Conn, sess *session.Session, r *wire.Reader, w *wire.Writer) error {
	if err := sess.Advance(session.AwaitingHandshake); err != nil {
		return err
	}
	if err := w.WriteTextAndFlush(Welcome(s.clock.Stamp(), s.opts.Hostname)); err != nil {
		return err
	}
	s.armDeadline(c)
	host, err := r.ReadText()
	if err != nil {
		return err
	}
	sess.SetClientHost(host)
	logger.Info("handshake complete", "session", sess.ID, "client", sess.ClientHost())
	return sess.Advance(session.Ready)
}

// serveSession runs the read-execute-respond loop until quit, EOF, an
// I/O error, or a command error under CloseOnError.
func (s *Server) serveSession(c net.Conn, sess *session.Session, r *wire.Reader, w *wire.Writer) {
	for {
		s.armDeadline(c)
		f, err := r.ReadFrame()
		if err != nil {
			s.logReadErr(sess, "read", err)
			return
		}
		if f.Kind != wire.KindText {
			logger.Warn("unexpected frame", "session", sess.ID, "kind", f.Kind.String())
			_ = w.WriteClose(fmt.Errorf("%w: %s", ErrUnexpectedFrame, f.Kind))
			_ = w.Flush()
			return
		}
		raw := f.Text()
		if query.IsQuit(raw) {
			logger.Debug("quit received", "session", sess.ID)
			return
		}

		if err := sess.Advance(session.Executing); err != nil {
			logger.Error("state machine violated", "session", sess.ID, "err", err)
			return
		}
		sess.CountQuery()
		out := s.execute(newRequest(sess, raw))
		keep, err := s.respond(w, sess, out)
		if err != nil {
			logger.Warn("write failed", "session", sess.ID, "err", err)
			return
		}
		if !keep {
			return
		}
		if err := sess.Advance(session.Ready); err != nil {
			logger.Error("state machine violated", "session", sess.ID, "err", err)
			return
		}
	}
}

// respond writes the outcome and reports whether the session stays open.
func (s *Server) respond(w *wire.Writer, sess *session.Session, out outcome) (bool, error) {
	if out.err == nil {
		err := w.WriteResult(out.result)
		if err == nil {
			return true, w.Flush()
		}
		if !errors.Is(err, wire.ErrFrameTooLarge) {
			return false, err
		}
		out.err = fmt.Errorf("%w: %d rows", ErrResultTooLarge, out.result.Len())
	}

	logger.Info("command failed", "session", sess.ID, "client", sess.ClientHost(), "err", out.err)
	if s.opts.CloseOnError {
		if err := w.WriteClose(out.err); err != nil {
			return false, err
		}
		return false, w.Flush()
	}
	if err := w.WriteError(out.err); err != nil {
		return false, err
	}
	return true, w.Flush()
}

func (s *Server) armDeadline(c net.Conn) {
	if s.opts.IdleTimeout <= 0 {
		return
	}
	_ = c.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))
}

func (s *Server) logReadErr(sess *session.Session, phase string, err error) {
	var ne net.Error
	switch {
	case errors.Is(err, io.EOF):
		logger.Debug("client disconnected", "session", sess.ID, "phase", phase)
	case errors.As(err, &ne) && ne.Timeout():
		logger.Info("idle timeout", "session", sess.ID, "phase", phase)
	case errors.Is(err, net.ErrClosed):
		logger.Debug("connection closed", "session", sess.ID, "phase", phase)
	default:
		logger.Warn("session error", "session", sess.ID, "phase", phase, "err", err)
	}
}
