// Package minitable runs a remote single-table query server.
//
// Clients connect over TCP, exchange a welcome banner and their hostname, then
// send commands of the form "SELECT <column> FROM <table>" until they send
// "quit". Each connection is served by its own goroutine against one shared
// in-memory database.
package minitable

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/mickamy/minitable/internal/clock"
	"github.com/mickamy/minitable/internal/config"
	"github.com/mickamy/minitable/internal/db"
	"github.com/mickamy/minitable/internal/logger"
	"github.com/mickamy/minitable/internal/server"
	"github.com/mickamy/minitable/internal/store"
)

var ErrInvalidOption = errors.New("invalid option")

type (
	// Selector is the store a server queries. Select receives the column
	// token ("*" or a comma list) and the table name of each command, and
	// is called concurrently from every session.
	Selector = server.Selector
	// Catalog may be implemented by a Selector so unknown tables and
	// columns are reported as lookup errors before Select runs.
	Catalog = server.Catalog
	// Result is what a Selector returns: ordered columns and their rows.
	Result = store.Result
	// Row maps column names to cell values.
	Row = store.Row
	// Config is the server configuration file; see LoadConfig.
	Config = config.Config
	// Clock stamps welcome banners.
	Clock = clock.Clock
)

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config { return config.Default() }

// FrozenClock returns a Clock that always reads t.
func FrozenClock(t time.Time) *Clock { return clock.New(t) }

type options struct {
	addr        string
	hostname    string
	bufferSize  int
	idleTimeout time.Duration
	keepOpen    bool
	keepClosed  bool
	clock       *clock.Clock
	dataset     []byte
	datasetFile string
	selector    Selector
}

// Option configures Run.
type Option func(*options) error

// WithAddr sets the listen address. The default is an ephemeral port on 127.0.0.1.
func WithAddr(addr string) Option {
	return func(o *options) error {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("%w: addr %q: %w", ErrInvalidOption, addr, err)
		}
		o.addr = addr
		return nil
	}
}

// WithHostname sets the hostname announced in the welcome banner.
func WithHostname(h string) Option {
	return func(o *options) error {
		o.hostname = h
		return nil
	}
}

// WithBufferSize bounds every message in both directions.
func WithBufferSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("%w: buffer size %d", ErrInvalidOption, n)
		}
		o.bufferSize = n
		return nil
	}
}

// WithIdleTimeout closes sessions that stay silent for d. Zero disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("%w: idle timeout %v", ErrInvalidOption, d)
		}
		o.idleTimeout = d
		return nil
	}
}

// WithCloseOnError sets whether a failed command ends the session (default true).
func WithCloseOnError(v bool) Option {
	return func(o *options) error {
		o.keepOpen = !v
		return nil
	}
}

// WithKeepClosedSessions keeps terminated sessions visible in Sessions.
func WithKeepClosedSessions(v bool) Option {
	return func(o *options) error {
		o.keepClosed = v
		return nil
	}
}

// WithConfig applies every setting of cfg. Options given after it override
// individual fields. The log level is left to the caller.
func WithConfig(cfg *Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidOption)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
		idle, _ := cfg.Idle()
		o.addr = cfg.Addr
		o.hostname = cfg.Hostname
		o.bufferSize = cfg.BufferSize
		o.idleTimeout = idle
		o.keepOpen = !cfg.ClosesOnError()
		o.keepClosed = cfg.KeepClosedSessions
		if cfg.DataFile != "" {
			o.datasetFile = cfg.DataFile
		}
		return nil
	}
}

// WithClock sets the time source used for welcome banners.
func WithClock(c *Clock) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidOption)
		}
		o.clock = c
		return nil
	}
}

// WithFrozenClock stamps every welcome banner with t.
func WithFrozenClock(t time.Time) Option {
	return WithClock(clock.New(t))
}

// WithDB serves queries from sel instead of a YAML dataset. It takes
// precedence over WithDataset and WithDatasetFile.
func WithDB(sel Selector) Option {
	return func(o *options) error {
		if sel == nil {
			return fmt.Errorf("%w: nil selector", ErrInvalidOption)
		}
		o.selector = sel
		return nil
	}
}

// WithDataset loads tables from a YAML document.
func WithDataset(yaml []byte) Option {
	return func(o *options) error {
		o.dataset = yaml
		return nil
	}
}

// WithDatasetFile loads tables from a YAML file.
func WithDatasetFile(path string) Option {
	return func(o *options) error {
		o.datasetFile = path
		return nil
	}
}

// Session describes one entry of the connection registry.
type Session struct {
	ID      string
	Peer    string
	Client  string
	State   string
	Queries int64
	Started time.Time
}

// Server represents a running query server.
type Server struct {
	addr string
	srv  *server.Server
	db   Selector

	done chan struct{}
	mu   sync.Mutex
	err  error
}

// Run loads the dataset, binds the listener and starts serving in the background.
func Run(opts ...Option) (*Server, error) {
	o := &options{addr: "127.0.0.1:0"}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	d, err := loadDB(o)
	if err != nil {
		return nil, err
	}
	if catalog, ok := d.(*db.DB); ok {
		logger.Info("dataset loaded", "name", catalog.Name(), "tables", catalog.Tables())
	}

	ln, err := net.Listen("tcp", o.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", o.addr, err)
	}

	c := o.clock
	if c == nil {
		c = clock.System()
	}

	s := &Server{
		addr: ln.Addr().String(),
		db:   d,
		done: make(chan struct{}),
	}
	s.srv = server.New(ln, d, server.Options{
		Hostname:           o.hostname,
		Clock:              c,
		MaxPayload:         o.bufferSize,
		IdleTimeout:        o.idleTimeout,
		CloseOnError:       !o.keepOpen,
		KeepClosedSessions: o.keepClosed,
	})

	// Start TCP server
	go func() {
		err := s.srv.Serve()
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	}()

	return s, nil
}

func loadDB(o *options) (Selector, error) {
	switch {
	case o.selector != nil:
		return o.selector, nil
	case o.datasetFile != "":
		return db.LoadFile(o.datasetFile)
	case o.dataset != nil:
		return db.LoadYAML(o.dataset)
	default:
		return db.New("default"), nil
	}
}

// Addr returns the TCP address of the running server.
func (s *Server) Addr() string { return s.addr }

// Tables lists the loaded tables. It is nil for a Selector given through
// WithDB unless that Selector has a Tables() []string method.
func (s *Server) Tables() []string {
	if l, ok := s.db.(interface{ Tables() []string }); ok {
		return l.Tables()
	}
	return nil
}

// Done closes when the server stops accepting connections.
func (s *Server) Done() <-chan struct{} { return s.done }

// Err returns the fatal listener error, if the server went down on its own.
// It is nil while serving and after Close.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Sessions returns a snapshot of the connection registry.
func (s *Server) Sessions() []Session {
	snap := s.srv.Registry().Snapshot()
	out := make([]Session, 0, len(snap))
	for _, sess := range snap {
		out = append(out, Session{
			ID:      sess.ID,
			Peer:    sess.Peer(),
			Client:  sess.ClientHost(),
			State:   sess.State().String(),
			Queries: sess.Queries(),
			Started: sess.Started,
		})
	}
	return out
}

// Close stops the server and releases resources.
func (s *Server) Close() error {
	if s.srv != nil {
		return s.srv.Close()
	}
	return nil
}
