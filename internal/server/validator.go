package server

import (
	"github.com/mickamy/minitable/internal/query"
)

type cmdValidator func(cmd query.Command) error

func validateTableKnown(c Catalog) cmdValidator {
	return func(cmd query.Command) error {
		if _, ok := c.Schema(cmd.Table); !ok {
			return query.LookupError(query.KindUnknownTable, cmd.Table)
		}
		return nil
	}
}

func validateColumnsKnown(c Catalog) cmdValidator {
	return func(cmd query.Command) error {
		schema, ok := c.Schema(cmd.Table)
		if !ok {
			return query.LookupError(query.KindUnknownTable, cmd.Table)
		}
		known := make(map[string]struct{}, len(schema))
		for _, col := range schema {
			known[col] = struct{}{}
		}
		for _, col := range cmd.Columns() {
			if _, ok := known[col]; !ok {
				return query.LookupError(query.KindUnknownColumn, col)
			}
		}
		return nil
	}
}

func validateCommand(cmd query.Command, validators ...cmdValidator) error {
	for _, v := range validators {
		if err := v(cmd); err != nil {
			return err
		}
	}
	return nil
}
