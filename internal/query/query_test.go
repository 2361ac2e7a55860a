package query_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mickamy/minitable/internal/query"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		raw      string
		want     query.Command
		wantKind query.ErrorKind
		wantErr  error
	}{
		{
			name: "select column",
			raw:  "SELECT name FROM users",
			want: query.Command{Column: "name", Table: "users"},
		},
		{
			name: "keywords are positional only",
			raw:  "x name y users",
			want: query.Command{Column: "name", Table: "users"},
		},
		{
			name: "extra whitespace",
			raw:  "  SELECT\tname   FROM users\n",
			want: query.Command{Column: "name", Table: "users"},
		},
		{
			name: "star",
			raw:  "SELECT * FROM users",
			want: query.Command{Column: "*", Table: "users"},
		},
		{
			name: "column list",
			raw:  "SELECT id,name FROM users",
			want: query.Command{Column: "id,name", Table: "users"},
		},
		{
			name:     "empty",
			raw:      "   ",
			wantKind: query.KindEmpty,
			wantErr:  query.ErrSyntax,
		},
		{
			name:     "too few tokens",
			raw:      "SELECT name FROM",
			wantKind: query.KindTooFewTokens,
			wantErr:  query.ErrSyntax,
		},
		{
			name:     "trailing tokens",
			raw:      "SELECT name FROM users WHERE",
			wantKind: query.KindTrailingTokens,
			wantErr:  query.ErrSyntax,
		},
		{
			name:     "empty list item",
			raw:      "SELECT id,,name FROM users",
			wantKind: query.KindBadColumnList,
			wantErr:  query.ErrSyntax,
		},
		{
			name:     "repeated column",
			raw:      "SELECT name,name FROM users",
			wantKind: query.KindBadColumnList,
			wantErr:  query.ErrSyntax,
		},
		{
			name:     "star inside list",
			raw:      "SELECT id,* FROM users",
			wantKind: query.KindBadColumnList,
			wantErr:  query.ErrSyntax,
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := query.Parse(tc.raw)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tc.raw, err, tc.wantErr)
			}
			if tc.wantErr != nil {
				var qe *query.Error
				if !errors.As(err, &qe) {
					t.Fatalf("Parse(%q) error %T is not *query.Error", tc.raw, err)
				}
				if qe.Kind != tc.wantKind {
					t.Fatalf("Parse(%q) kind = %v, want %v", tc.raw, qe.Kind, tc.wantKind)
				}
				if qe.Error() == "" {
					t.Fatal("empty error message")
				}
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}

func TestIsQuit(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		raw  string
		want bool
	}{
		{raw: "quit", want: true},
		{raw: "QUIT", want: true},
		{raw: "qUiT", want: true},
		{raw: " Quit\n"},
		{raw: "quit "},
		{raw: "quit now"},
		{raw: "SELECT quit FROM t"},
		{raw: ""},
	}

	for _, tc := range tcs {
		if got := query.IsQuit(tc.raw); got != tc.want {
			t.Errorf("IsQuit(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestCommand_Columns(t *testing.T) {
	t.Parallel()

	if got := (query.Command{Column: "*"}).Columns(); got != nil {
		t.Fatalf("Columns() for * = %v, want nil", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, query.Command{Column: "a,b"}.Columns()); diff != "" {
		t.Fatalf("Columns() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupError(t *testing.T) {
	t.Parallel()

	err := query.LookupError(query.KindUnknownTable, "ghosts")
	if !errors.Is(err, query.ErrLookup) {
		t.Fatalf("errors.Is(%v, ErrLookup) = false", err)
	}
	if errors.Is(err, query.ErrSyntax) {
		t.Fatalf("lookup error matched ErrSyntax")
	}
	if want := `unknown table "ghosts"`; err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
