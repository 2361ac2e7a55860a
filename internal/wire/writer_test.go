package wire_test

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mickamy/minitable/internal/wire"
)

func TestWriter(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name  string
		write func(w *wire.Writer) error
		want  string
	}{
		{
			name:  "text",
			write: func(w *wire.Writer) error { return w.WriteText("alice") },
			want:  frame(wire.KindText, "alice"),
		},
		{
			name:  "error",
			write: func(w *wire.Writer) error { return w.WriteError(errors.New("boom")) },
			want:  frame(wire.KindError, "boom"),
		},
		{
			name:  "close",
			write: func(w *wire.Writer) error { return w.WriteClose(errors.New("bye")) },
			want:  frame(wire.KindClose, "bye"),
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			w := wire.NewWriter(bufio.NewWriter(buf), 0)
			if err := tc.write(w); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("flush failed: %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Fatalf("unexpected payload:\nwant %q\ngot  %q", tc.want, got)
			}
		})
	}
}

func TestWriter_Limits(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	w := wire.NewWriter(bufio.NewWriter(buf), 4)

	if err := w.WriteText("too long"); !errors.Is(err, wire.ErrFrameTooLarge) {
		t.Fatalf("WriteText() error = %v, want %v", err, wire.ErrFrameTooLarge)
	}
	if err := w.WriteFrame(wire.Kind('?'), nil); !errors.Is(err, wire.ErrProtocol) {
		t.Fatalf("WriteFrame() error = %v, want %v", err, wire.ErrProtocol)
	}
	if err := w.WriteError(errors.New("a long error message")); err != nil {
		t.Fatalf("WriteError() should clip, got %v", err)
	}
	_ = w.Flush()
	if got, want := buf.String(), frame(wire.KindError, "a lo"); got != want {
		t.Fatalf("clipped payload = %q, want %q", got, want)
	}
}

func TestWriter_RoundTripThroughReader(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	w := wire.NewWriter(bufio.NewWriter(buf), 0)
	_ = w.WriteText("hello")
	_ = w.WriteText(strings.Repeat("x", wire.DefaultMaxPayload))
	if err := w.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	r := wire.NewReader(bufio.NewReader(buf), 0)
	for _, want := range []int{5, wire.DefaultMaxPayload} {
		f, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() unexpected error: %v", err)
		}
		if len(f.Payload) != want {
			t.Fatalf("payload length = %d, want %d", len(f.Payload), want)
		}
	}
}
