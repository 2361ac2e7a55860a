package server

import (
	"fmt"

	"github.com/mickamy/minitable/internal/logger"
	"github.com/mickamy/minitable/internal/query"
)

// execute runs one request against the shared store. Panics raised by the
// store are turned into ErrInternal so one bad query cannot take the server down.
func (s *Server) execute(r *request) (out outcome) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("select panicked", "session", r.session.ID, "panic", p)
			out = failed(fmt.Errorf("%w: %v", ErrInternal, p))
		}
	}()
	return s.cmdSelect(r)
}

func (s *Server) cmdSelect(r *request) outcome {
	cmd, err := query.Parse(r.raw)
	if err != nil {
		return failed(err)
	}
	if c, ok := s.db.(Catalog); ok {
		if err := validateCommand(cmd, validateTableKnown(c), validateColumnsKnown(c)); err != nil {
			return failed(err)
		}
	}
	res, err := s.db.Select(cmd.Column, cmd.Table)
	if err != nil {
		return failed(err)
	}
	logger.Debug("select", "session", r.session.ID, "table", cmd.Table, "column", cmd.Column, "rows", res.Len())
	return succeeded(res)
}
