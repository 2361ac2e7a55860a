package session_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/mickamy/minitable/internal/session"
)

type countingConn struct {
	net.Conn
	mu     sync.Mutex
	closes int
}

func (c *countingConn) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	return c.Conn.Close()
}

func (c *countingConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 51234}
}

func newSession(t *testing.T) (*session.Session, *countingConn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { _ = b.Close() })
	c := &countingConn{Conn: a}
	return session.New("conn-1", c, "db-host", time.Unix(0, 0)), c
}

func TestSession_New(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t)
	if s.State() != session.Connected {
		t.Fatalf("State() = %s, want %s", s.State(), session.Connected)
	}
	if got := s.ClientHost(); got != session.UnknownHost {
		t.Fatalf("ClientHost() = %q, want %q", got, session.UnknownHost)
	}
	if s.PeerHost != "10.0.0.7" || s.PeerPort != 51234 {
		t.Fatalf("peer = %s:%d", s.PeerHost, s.PeerPort)
	}
	if got := s.Peer(); got != "10.0.0.7:51234" {
		t.Fatalf("Peer() = %q", got)
	}
}

func TestSession_Advance(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name    string
		path    []session.State
		wantErr bool
	}{
		{
			name: "handshake then queries",
			path: []session.State{session.AwaitingHandshake, session.Ready, session.Executing, session.Ready, session.Executing, session.Ready, session.Closed},
		},
		{
			name: "close during handshake",
			path: []session.State{session.AwaitingHandshake, session.Closed},
		},
		{
			name:    "skip handshake",
			path:    []session.State{session.Ready},
			wantErr: true,
		},
		{
			name:    "leave closed",
			path:    []session.State{session.Closed, session.Ready},
			wantErr: true,
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newSession(t)
			var err error
			for _, st := range tc.path {
				if err = s.Advance(st); err != nil {
					break
				}
			}
			if (err != nil) != tc.wantErr {
				t.Fatalf("Advance error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSession_SetClientHost(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t)
	s.SetClientHost("")
	if got := s.ClientHost(); got != session.UnknownHost {
		t.Fatalf("ClientHost() = %q after empty set", got)
	}
	s.SetClientHost("alice")
	if got := s.ClientHost(); got != "alice" {
		t.Fatalf("ClientHost() = %q, want alice", got)
	}
}

func TestSession_CloseOnce(t *testing.T) {
	t.Parallel()

	s, c := newSession(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Close()
		}()
	}
	wg.Wait()

	if c.closes != 1 {
		t.Fatalf("conn closed %d times, want 1", c.closes)
	}
	if s.Live() {
		t.Fatal("Live() = true after Close")
	}
}

func TestSession_CountQuery(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t)
	s.CountQuery()
	if got := s.CountQuery(); got != 2 {
		t.Fatalf("CountQuery() = %d, want 2", got)
	}
	if got := s.Queries(); got != 2 {
		t.Fatalf("Queries() = %d, want 2", got)
	}
}
