package query

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax marks input that does not have the SELECT shape.
	ErrSyntax = errors.New("syntax error")
	// ErrLookup marks a well-formed command naming data the store does not hold.
	ErrLookup = errors.New("lookup error")
)

// ErrorKind classifies a rejected command.
type ErrorKind int

const (
	KindEmpty ErrorKind = iota
	KindTooFewTokens
	KindTrailingTokens
	KindBadColumnList
	KindUnknownTable
	KindUnknownColumn
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmpty:
		return "empty command"
	case KindTooFewTokens:
		return "too few tokens"
	case KindTrailingTokens:
		return "unexpected trailing tokens"
	case KindBadColumnList:
		return "bad column list"
	case KindUnknownTable:
		return "unknown table"
	case KindUnknownColumn:
		return "unknown column"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned for every command that cannot be executed.
type Error struct {
	Kind ErrorKind
	// Input is the raw command for syntax errors and the offending name for lookups.
	Input string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTooFewTokens:
		return fmt.Sprintf("%s: %q (want %d tokens: SELECT <column> FROM <table>)", e.Kind, e.Input, statementTokens)
	case KindUnknownTable, KindUnknownColumn:
		return fmt.Sprintf("%s %q", e.Kind, e.Input)
	default:
		return fmt.Sprintf("%s: %q", e.Kind, e.Input)
	}
}

// Unwrap lets callers match on ErrSyntax or ErrLookup.
func (e *Error) Unwrap() error {
	if e.Kind == KindUnknownTable || e.Kind == KindUnknownColumn {
		return ErrLookup
	}
	return ErrSyntax
}

// LookupError reports a table or column the store does not know.
func LookupError(kind ErrorKind, name string) *Error {
	return &Error{Kind: kind, Input: name}
}
