package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mickamy/minitable/internal/db"
)

func TestDemoDataset(t *testing.T) {
	t.Parallel()

	d, err := db.LoadYAML(demoDataset)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if diff := cmp.Diff([]string{"products", "users"}, d.Tables()); diff != "" {
		t.Fatalf("Tables() mismatch (-want +got):\n%s", diff)
	}

	res, err := d.Select("price", "products")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	var got []string
	for _, r := range res.Rows {
		got = append(got, r["price"])
	}
	if diff := cmp.Diff([]string{"49.90", "19.50", "229.00"}, got); diff != "" {
		t.Fatalf("prices mismatch (-want +got):\n%s", diff)
	}
}
