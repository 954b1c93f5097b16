package fullytyped

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/byu-oit/fully-typed/internal/confhash"
)

// MultiVariant is an ordered, hash-deduplicated sequence of acceptable
// schema variants ("one of these shapes"). Resolution is first-match:
// callers control preference by ordering variants, and both Error and
// Normalize scan from the first variant every time.
type MultiVariant struct {
	members []Typed
	hash    string
}

// newMultiVariant flattens nested multi-variants into a flat sequence of
// leaf instances and collapses duplicates by hash, first occurrence winning.
// A single surviving variant is returned directly, unwrapped.
func newMultiVariant(members []Typed) Typed {
	flat := make([]Typed, 0, len(members))
	seen := map[string]struct{}{}
	var add func(t Typed)
	add = func(t Typed) {
		if mv, ok := t.(*MultiVariant); ok {
			for _, m := range mv.members {
				add(m)
			}
			return
		}
		if _, dup := seen[t.Hash()]; dup {
			return
		}
		seen[t.Hash()] = struct{}{}
		flat = append(flat, t)
	}
	for _, m := range members {
		add(m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	hashes := make([]any, len(flat))
	for i, m := range flat {
		hashes[i] = m.Hash()
	}
	return &MultiVariant{members: flat, hash: confhash.Sum(hashes)}
}

// Error tries each member in order and returns nil on the first match. When
// every member fails, the aggregate lists each failure in order; no member
// is skipped, so the aggregate is complete.
func (m *MultiVariant) Error(value any, prefix string) *Issue {
	subs := make([]*Issue, 0, len(m.members))
	for _, member := range m.members {
		iss := member.Error(value, "")
		if iss == nil {
			return nil
		}
		subs = append(subs, iss)
	}
	agg := aggregate(CodeNoVariant, subs, func(i int, _ *Issue) string {
		return fmt.Sprintf("variant %d", i)
	})
	return agg.withPrefix(prefix)
}

// Validate is Error converted to a returned failure.
func (m *MultiVariant) Validate(value any, prefix string) error {
	if iss := m.Error(value, prefix); iss != nil {
		return iss
	}
	return nil
}

// Normalize re-runs the ordered search from the first variant (it does not
// remember which variant a prior Error call selected) and normalizes with
// the first passing member. Missing input falls back to the first member
// carrying a default, since a bare nil matches no member directly.
func (m *MultiVariant) Normalize(value any) (any, error) {
	for _, member := range m.members {
		if member.Error(value, "") == nil {
			return member.Normalize(value)
		}
	}
	if value == nil {
		for _, member := range m.members {
			if typedHasDefault(member) {
				return member.Normalize(nil)
			}
		}
	}
	return nil, m.Error(value, "")
}

// Hash is derived from the member hashes in order: two multi-variants are
// equal iff their member sets and order match.
func (m *MultiVariant) Hash() string { return m.hash }

// ToJSON renders the member configurations in order.
func (m *MultiVariant) ToJSON() any {
	out := make([]any, len(m.members))
	for i, member := range m.members {
		out[i] = member.ToJSON()
	}
	return out
}

func (m *MultiVariant) MarshalJSON() ([]byte, error) { return gojson.Marshal(m.ToJSON()) }

// Members returns the ordered member instances.
func (m *MultiVariant) Members() []Typed {
	return append([]Typed(nil), m.members...)
}

func (m *MultiVariant) hasDefault() bool {
	for _, member := range m.members {
		if typedHasDefault(member) {
			return true
		}
	}
	return false
}

// typedHasDefault reports whether a compiled handle substitutes a default
// for missing input.
func typedHasDefault(t Typed) bool {
	switch s := t.(type) {
	case *Schema:
		return s.hasDefault()
	case *MultiVariant:
		return s.hasDefault()
	}
	return false
}
