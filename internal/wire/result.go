package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mickamy/minitable/internal/store"
)

// ResultVersion is the version tag written into every encoded result.
const ResultVersion = 1

// ErrUnsupportedVersion indicates a result encoded by an incompatible peer.
var ErrUnsupportedVersion = errors.New("wire: unsupported result version")

type resultDoc struct {
	Version int         `json:"version"`
	Columns []string    `json:"columns"`
	Rows    []store.Row `json:"rows"`
}

// EncodeResult serializes a result set as versioned JSON.
func EncodeResult(res store.Result) ([]byte, error) {
	doc := resultDoc{
		Version: ResultVersion,
		Columns: res.Columns,
		Rows:    res.Rows,
	}
	if doc.Columns == nil {
		doc.Columns = []string{}
	}
	if doc.Rows == nil {
		doc.Rows = []store.Row{}
	}
	return json.Marshal(doc)
}

// DecodeResult parses a payload written by EncodeResult.
func DecodeResult(b []byte) (store.Result, error) {
	var doc resultDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return store.Result{}, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	if doc.Version != ResultVersion {
		return store.Result{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	res := store.Result{Columns: doc.Columns, Rows: doc.Rows}
	if res.Columns == nil {
		res.Columns = []string{}
	}
	if res.Rows == nil {
		res.Rows = []store.Row{}
	}
	for i, row := range res.Rows {
		if row == nil {
			res.Rows[i] = store.Row{}
			continue
		}
		for c := range row {
			if !res.HasColumn(c) {
				return store.Result{}, fmt.Errorf("%w: row %d has undeclared column %q", ErrProtocol, i, c)
			}
		}
	}
	return res, nil
}
