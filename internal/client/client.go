// Package client drives one interactive session against a minitable server.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/mickamy/minitable/internal/query"
	"github.com/mickamy/minitable/internal/render"
	"github.com/mickamy/minitable/internal/session"
	"github.com/mickamy/minitable/internal/wire"
)

// Prompt is printed before every line of input.
const Prompt = "\n[~] SQL query: "

// ConnectionError reports a failure to reach the server.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Driver is the initiating side of the protocol.
type Driver struct {
	Addr        string
	BufferSize  int
	Hostname    string
	DialTimeout time.Duration

	In     io.Reader
	Out    io.Writer
	Render *render.Renderer
}

func (d *Driver) defaults() {
	if d.BufferSize <= 0 {
		d.BufferSize = wire.DefaultMaxPayload
	}
	if d.Hostname == "" {
		h, err := os.Hostname()
		if err != nil || h == "" {
			h = session.UnknownHost
		}
		d.Hostname = h
	}
	if d.DialTimeout <= 0 {
		d.DialTimeout = 5 * time.Second
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Render == nil {
		d.Render = render.New(d.Out, false)
	}
}

// Run connects once, performs the handshake and loops over user input until
// quit, end of input, or the server ending the session. It does not retry.
func (d *Driver) Run(ctx context.Context) error {
	d.defaults()

	dialer := net.Dialer{Timeout: d.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.Addr)
	if err != nil {
		return &ConnectionError{Addr: d.Addr, Err: err}
	}
	defer conn.Close()

	// unblock pending reads when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	r := wire.NewReader(bufio.NewReader(conn), d.BufferSize)
	w := wire.NewWriter(bufio.NewWriter(conn), d.BufferSize)

	banner, err := r.ReadText()
	if err != nil {
		return &ConnectionError{Addr: d.Addr, Err: fmt.Errorf("handshake: %w", err)}
	}
	d.Render.Plain("%s", banner)
	if err := w.WriteTextAndFlush(d.Hostname); err != nil {
		return &ConnectionError{Addr: d.Addr, Err: fmt.Errorf("handshake: %w", err)}
	}

	err = d.loop(r, w)
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	d.Render.Fail("Client %s logged out.", d.Hostname)
	d.Render.Plain("[~] Goodbye!")
	return err
}

func (d *Driver) loop(r *wire.Reader, w *wire.Writer) error {
	in := bufio.NewScanner(d.In)
	for {
		fmt.Fprint(d.Out, Prompt)
		line := query.Quit
		if in.Scan() {
			line = strings.TrimSpace(in.Text())
		} else if err := in.Err(); err != nil {
			return err
		}
		if line == "" {
			continue
		}

		if err := w.WriteTextAndFlush(line); err != nil {
			return err
		}
		if query.IsQuit(line) {
			return nil
		}

		done, err := d.receive(r)
		if err != nil || done {
			return err
		}
	}
}

// receive handles one reply and reports whether the session is over.
func (d *Driver) receive(r *wire.Reader) (bool, error) {
	f, err := r.ReadFrame()
	if errors.Is(err, io.EOF) {
		d.Render.Fail("Nothing received. The server may be logged out. Connection will close, Goodbye!")
		return true, nil
	}
	if err != nil {
		return true, err
	}

	switch f.Kind {
	case wire.KindResult:
		res, err := wire.DecodeResult(f.Payload)
		if err != nil {
			return true, err
		}
		fmt.Fprintln(d.Out)
		d.Render.Info("Received:")
		return false, d.Render.Result(res)
	case wire.KindError:
		d.Render.Fail("%s", f.Text())
		return false, nil
	case wire.KindClose:
		d.Render.Fail("%s", f.Text())
		return true, nil
	default:
		return true, fmt.Errorf("%w: unexpected %s frame", wire.ErrProtocol, f.Kind)
	}
}
