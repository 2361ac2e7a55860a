package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Reader decodes frames from a buffered reader.
type Reader struct {
	r   *bufio.Reader
	max int
}

// NewReader wraps the provided bufio.Reader. max <= 0 means DefaultMaxPayload.
func NewReader(r *bufio.Reader, max int) *Reader {
	if max <= 0 {
		max = DefaultMaxPayload
	}
	return &Reader{r: r, max: max}
}

// ReadFrame reads the next frame. It returns io.EOF only when the peer
// closed the stream between frames.
func (r *Reader) ReadFrame() (Frame, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		return Frame{}, err
	}
	n := binary.BigEndian.Uint32(hdr[:4])
	kind := Kind(hdr[4])
	if !kind.valid() {
		return Frame{}, fmt.Errorf("%w: unknown frame kind %q", ErrProtocol, hdr[4])
	}
	if uint64(n) > uint64(r.max) {
		return Frame{}, fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, n, r.max)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Frame{}, err
	}
	return Frame{Kind: kind, Payload: payload}, nil
}

// ReadText reads a frame that must be KindText.
func (r *Reader) ReadText() (string, error) {
	f, err := r.ReadFrame()
	if err != nil {
		return "", err
	}
	if f.Kind != KindText {
		return "", fmt.Errorf("%w: expected %s frame, got %s", ErrProtocol, KindText, f.Kind)
	}
	return f.Text(), nil
}
