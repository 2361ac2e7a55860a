package server

import (
	"fmt"
	"sync"
	"testing"

	"github.com/mickamy/minitable/internal/session"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := session.New("conn-1", nil, "h", base)
	b := session.New("conn-2", nil, "h", base)
	r.Add(a)
	r.Add(b)

	if got := r.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	_ = a.Close()
	if got := r.Live(); got != 1 {
		t.Fatalf("Live() = %d, want 1", got)
	}
	if !r.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	if r.Remove(a) {
		t.Fatal("Remove(a) twice = true")
	}
	snap := r.Snapshot()
	if len(snap) != 1 || snap[0] != b {
		t.Fatalf("Snapshot() = %v", snap)
	}
}

func TestRegistry_ConcurrentAdd(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := session.New(fmt.Sprintf("conn-%d", i), nil, "h", base)
			r.Add(s)
			_ = r.Snapshot()
			if i%2 == 0 {
				r.Remove(s)
			}
		}(i)
	}
	wg.Wait()

	if got := r.Len(); got != 32 {
		t.Fatalf("Len() = %d, want 32", got)
	}
}
