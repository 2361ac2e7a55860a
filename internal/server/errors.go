package server

import (
	"errors"
)

var (
	ErrUnexpectedFrame = errors.New("unexpected frame")
	ErrResultTooLarge  = errors.New("result too large for one frame")
	ErrInternal        = errors.New("internal error")
)
