package fullytyped

import (
	"fmt"
	"sync"
	"testing"
)

// Registration and lookup race against each other here; the test passes when
// run under -race without reporting a data race and every definition lands.
func TestRegistryConcurrentDefineAndLookup(t *testing.T) {
	r := newTestRegistry()
	builtins := len(r.List())

	const n = 64
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			err := r.Define(Definition{
				Aliases:   []any{fmt.Sprintf("worker-%d", i)},
				Inherits:  []any{"typed"},
				Construct: noopConstruct,
			})
			if err != nil {
				t.Errorf("Define worker-%d: %v", i, err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			r.Has(fmt.Sprintf("worker-%d", i))
			r.Get("string")
			r.List()
		}(i)
	}
	wg.Wait()

	if got := len(r.List()); got != builtins+n {
		t.Fatalf("List length = %d, want %d", got, builtins+n)
	}
	for i := 0; i < n; i++ {
		if !r.Has(fmt.Sprintf("worker-%d", i)) {
			t.Fatalf("worker-%d missing after concurrent define", i)
		}
	}
}

// Compiled instances are immutable; validating the same instance from many
// goroutines must be safe.
func TestSchemaConcurrentValidation(t *testing.T) {
	r := newTestRegistry()
	s, err := r.New(Config{"type": "string", "minLength": 2, "pattern": "^[a-z]+$"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if iss := s.Error("hello", ""); iss != nil {
					t.Errorf("valid value rejected: %v", iss)
					return
				}
				if iss := s.Error("A", ""); iss == nil {
					t.Errorf("invalid value accepted")
					return
				}
				if _, err := s.Normalize("world"); err != nil {
					t.Errorf("Normalize: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
