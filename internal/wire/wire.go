// Package wire frames protocol messages on a stream connection.
//
// Every message is one frame:
//
//	+----------------+------+-----------------+
//	| length (4, BE) | kind | payload[length] |
//	+----------------+------+-----------------+
//
// length counts payload bytes only and never exceeds the negotiated maximum
// (DefaultMaxPayload unless configured). A clean EOF before the first header
// byte is the peer leaving; EOF anywhere else is io.ErrUnexpectedEOF.
package wire

import (
	"errors"
	"fmt"
)

// DefaultMaxPayload is the largest payload a single frame may carry.
const DefaultMaxPayload = 5120

const headerLen = 5

var (
	// ErrProtocol indicates a malformed frame.
	ErrProtocol = errors.New("wire: protocol error")
	// ErrFrameTooLarge indicates a payload above the maximum.
	ErrFrameTooLarge = errors.New("wire: frame too large")
)

// Kind tags the payload of a frame.
type Kind byte

const (
	// KindText carries UTF-8 text: welcome banner, hostname, command or quit.
	KindText Kind = 'T'
	// KindResult carries an encoded result set.
	KindResult Kind = 'R'
	// KindError carries an error message; the session stays open.
	KindError Kind = 'E'
	// KindClose carries an error message; the sender closes right after.
	KindClose Kind = 'X'
)

func (k Kind) valid() bool {
	switch k {
	case KindText, KindResult, KindError, KindClose:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindResult:
		return "result"
	case KindError:
		return "error"
	case KindClose:
		return "close"
	default:
		return fmt.Sprintf("Kind(%q)", byte(k))
	}
}

// Frame is one decoded message.
type Frame struct {
	Kind    Kind
	Payload []byte
}

// Text returns the payload as a string.
func (f Frame) Text() string { return string(f.Payload) }
