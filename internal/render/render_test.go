package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mickamy/minitable/internal/render"
	"github.com/mickamy/minitable/internal/store"
)

func TestRenderer_Result(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		res  store.Result
		want string
	}{
		{
			name: "aligned",
			res: store.Result{
				Columns: []string{"id", "name"},
				Rows:    []store.Row{{"id": "1", "name": "alice"}, {"id": "22", "name": "bob"}},
			},
			want: "id  name\n" +
				"--  ----\n" +
				"1   alice\n" +
				"22  bob\n" +
				"(2 rows)\n",
		},
		{
			name: "single row",
			res: store.Result{
				Columns: []string{"name"},
				Rows:    []store.Row{{"name": "alice"}},
			},
			want: "name\n----\nalice\n(1 row)\n",
		},
		{
			name: "no rows",
			res:  store.Result{Columns: []string{"name"}},
			want: "name\n----\n(0 rows)\n",
		},
		{
			name: "no columns",
			want: "(no columns)\n",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			if err := render.New(buf, false).Result(tc.res); err != nil {
				t.Fatalf("Result() error: %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Fatalf("unexpected output:\nwant %q\ngot  %q", tc.want, got)
			}
		})
	}
}

func TestRenderer_Colored(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	r := render.New(buf, true)
	if err := r.Result(store.Result{Columns: []string{"name"}, Rows: []store.Row{{"name": "a"}}}); err != nil {
		t.Fatalf("Result() error: %v", err)
	}
	r.Info("ok")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestRenderer_StatusLines(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	r := render.New(buf, false)
	r.Info("connected to %s", "db-host")
	r.Fail("boom")
	r.Plain("bye")

	want := "[+] connected to db-host\n[-] boom\nbye\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, got)
	}
}
