package db

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/mickamy/minitable/internal/store"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// dataset is the on-disk document:
//
//	name: smdb
//	tables:
//	  users:
//	    columns: [id, name]
//	    rows:
//	      - {id: 1, name: alice}
type dataset struct {
	Name   string              `yaml:"name"`
	Tables map[string]tableDoc `yaml:"tables"`
}

type tableDoc struct {
	Columns []string         `yaml:"columns"`
	Rows    []map[string]any `yaml:"rows"`
}

// LoadFile reads a YAML dataset from path.
func LoadFile(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return LoadYAML(data)
}

// LoadYAML builds a DB from a YAML dataset document.
// Scalar cells are stored in their string form; null cells become "".
// Unquoted numbers go through YAML's number types, so 49.90 is stored as
// "49.9". Quote a cell to keep its exact text.
func LoadYAML(data []byte) (*DB, error) {
	var doc dataset
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if doc.Name == "" {
		doc.Name = "default"
	}

	db := New(doc.Name)
	names := make([]string, 0, len(doc.Tables))
	for n := range doc.Tables {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		td := doc.Tables[n]
		t, err := db.Create(n, td.Columns...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
		}
		for i, raw := range td.Rows {
			row := make(store.Row, len(raw))
			for k, v := range raw {
				row[k] = cell(v)
			}
			if err := t.Insert(row); err != nil {
				return nil, fmt.Errorf("%w: %s row %d: %w", ErrInvalidDataset, t.Name(), i, err)
			}
		}
	}
	return db, nil
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
