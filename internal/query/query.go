package query

import (
	"strings"
	"unicode"
)

// Quit is the control sentinel that ends a session.
const Quit = "quit"

// statementTokens is the fixed length of `W0 <column> W2 <table>`.
const statementTokens = 4

// Command is a parsed single-table projection.
// Column is "*" or a comma-separated list of distinct columns; both fields
// are non-empty.
type Command struct {
	Column string
	Table  string
}

// Columns expands Column into individual names. "*" yields nil.
func (c Command) Columns() []string {
	if c.Column == "*" {
		return nil
	}
	return strings.Split(c.Column, ",")
}

// IsQuit reports whether the whole of raw is the quit sentinel, in any case.
// Surrounding whitespace is not stripped: " quit" is an ordinary command.
func IsQuit(raw string) bool {
	return strings.EqualFold(raw, Quit)
}

// Tokenize splits raw on runs of whitespace.
func Tokenize(raw string) []string {
	return strings.FieldsFunc(raw, unicode.IsSpace)
}

// Parse turns `SELECT <column> FROM <table>` into a Command.
// The keyword tokens are positional and not checked.
func Parse(raw string) (Command, error) {
	toks := Tokenize(raw)
	switch {
	case len(toks) == 0:
		return Command{}, &Error{Kind: KindEmpty, Input: raw}
	case len(toks) < statementTokens:
		return Command{}, &Error{Kind: KindTooFewTokens, Input: raw}
	case len(toks) > statementTokens:
		return Command{}, &Error{Kind: KindTrailingTokens, Input: raw}
	}

	cmd := Command{Column: toks[1], Table: toks[3]}
	if cmd.Column != "*" {
		seen := make(map[string]struct{})
		for _, c := range strings.Split(cmd.Column, ",") {
			if _, dup := seen[c]; dup || c == "" || c == "*" {
				return Command{}, &Error{Kind: KindBadColumnList, Input: cmd.Column}
			}
			seen[c] = struct{}{}
		}
	}
	return cmd, nil
}
