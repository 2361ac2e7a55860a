package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"

	"github.com/mickamy/minitable/internal/store"
)

// Writer encodes frames over a buffered writer.
type Writer struct {
	w   *bufio.Writer
	max int
}

// NewWriter wraps the provided bufio.Writer. max <= 0 means DefaultMaxPayload.
func NewWriter(w *bufio.Writer, max int) *Writer {
	if max <= 0 {
		max = DefaultMaxPayload
	}
	return &Writer{w: w, max: max}
}

// Flush flushes the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteFrame writes one frame without flushing.
func (w *Writer) WriteFrame(kind Kind, payload []byte) error {
	if !kind.valid() {
		return fmt.Errorf("%w: unknown frame kind %q", ErrProtocol, byte(kind))
	}
	if len(payload) > w.max {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, len(payload), w.max)
	}
	var hdr [headerLen]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(payload)))
	hdr[4] = byte(kind)
	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.w.Write(payload)
	return err
}

// WriteText writes a text frame.
func (w *Writer) WriteText(s string) error {
	return w.WriteFrame(KindText, []byte(s))
}

// WriteTextAndFlush writes a text frame and flushes.
func (w *Writer) WriteTextAndFlush(s string) error {
	if err := w.WriteText(s); err != nil {
		return err
	}
	return w.Flush()
}

// WriteResult encodes res and writes it as a result frame.
func (w *Writer) WriteResult(res store.Result) error {
	b, err := EncodeResult(res)
	if err != nil {
		return err
	}
	return w.WriteFrame(KindResult, b)
}

// WriteError writes a recoverable error frame.
func (w *Writer) WriteError(err error) error {
	return w.WriteFrame(KindError, []byte(w.clip(err.Error())))
}

// WriteClose writes a terminal error frame.
func (w *Writer) WriteClose(err error) error {
	return w.WriteFrame(KindClose, []byte(w.clip(err.Error())))
}

// clip keeps error text within one frame.
func (w *Writer) clip(msg string) string {
	if len(msg) > w.max {
		return msg[:w.max]
	}
	return msg
}
