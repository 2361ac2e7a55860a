package session

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// UnknownHost is the client hostname until the handshake completes.
const UnknownHost = "unknown"

// State is a step of the per-connection lifecycle.
type State int32

const (
	Connected State = iota
	AwaitingHandshake
	Ready
	Executing
	Closed
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case AwaitingHandshake:
		return "awaiting-handshake"
	case Ready:
		return "ready"
	case Executing:
		return "executing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// transitions lists the legal successors of each state. Closed is terminal.
var transitions = map[State][]State{
	Connected:         {AwaitingHandshake, Closed},
	AwaitingHandshake: {Ready, Closed},
	Ready:             {Executing, Closed},
	Executing:         {Ready, Closed},
}

// Session holds all state for a single client connection.
// It is driven by exactly one goroutine; other goroutines may only read
// its state and identity (e.g. through the registry) or call Close.
type Session struct {
	ID         string
	PeerHost   string
	PeerPort   int
	ServerHost string
	Started    time.Time

	conn      io.Closer
	state     atomic.Int32
	mu        sync.RWMutex
	client    string
	queries   atomic.Int64
	closeOnce sync.Once
	closeErr  error
}

// New creates a session in the Connected state.
func New(id string, conn net.Conn, serverHost string, started time.Time) *Session {
	s := &Session{
		ID:         id,
		ServerHost: serverHost,
		Started:    started,
		conn:       conn,
		client:     UnknownHost,
	}
	if conn != nil && conn.RemoteAddr() != nil {
		s.PeerHost, s.PeerPort = splitAddr(conn.RemoteAddr().String())
	}
	return s
}

func splitAddr(addr string) (string, int) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}
	p, _ := strconv.Atoi(port)
	return host, p
}

// Peer returns "host:port" of the remote end.
func (s *Session) Peer() string {
	return net.JoinHostPort(s.PeerHost, strconv.Itoa(s.PeerPort))
}

// State returns the current state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Live reports whether the session has not reached Closed.
func (s *Session) Live() bool {
	return s.State() != Closed
}

// Advance moves the session to next. An illegal move leaves the state
// untouched and returns an error.
func (s *Session) Advance(next State) error {
	cur := s.State()
	for _, ok := range transitions[cur] {
		if ok == next {
			if s.state.CompareAndSwap(int32(cur), int32(next)) {
				return nil
			}
			return fmt.Errorf("session %s: state changed concurrently from %s", s.ID, cur)
		}
	}
	return fmt.Errorf("session %s: illegal transition %s -> %s", s.ID, cur, next)
}

// ClientHost returns the hostname the client declared in the handshake.
func (s *Session) ClientHost() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// SetClientHost records the declared hostname. Empty input keeps UnknownHost.
func (s *Session) SetClientHost(h string) {
	if h == "" {
		return
	}
	s.mu.Lock()
	s.client = h
	s.mu.Unlock()
}

// CountQuery records one executed command and returns the running total.
func (s *Session) CountQuery() int64 {
	return s.queries.Add(1)
}

// Queries returns the number of executed commands.
func (s *Session) Queries() int64 {
	return s.queries.Load()
}

// Close moves the session to Closed and closes the connection exactly once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.state.Store(int32(Closed))
		if s.conn != nil {
			s.closeErr = s.conn.Close()
		}
	})
	return s.closeErr
}
