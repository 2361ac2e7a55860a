package server

import (
	"github.com/mickamy/minitable/internal/session"
	"github.com/mickamy/minitable/internal/store"
)

// request represents a client request to the server.
type request struct {
	session *session.Session
	raw     string
}

func newRequest(sess *session.Session, raw string) *request {
	return &request{
		session: sess,
		raw:     raw,
	}
}

// outcome is the explicit result of executing one request:
// exactly one of result and err is meaningful.
type outcome struct {
	result store.Result
	err    error
}

func succeeded(res store.Result) outcome { return outcome{result: res} }

func failed(err error) outcome { return outcome{err: err} }
