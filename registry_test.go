package fullytyped

import (
	"errors"
	"testing"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

func noopConstruct(*Schema, Config) error { return nil }

func TestRegistryDefineAndLookup(t *testing.T) {
	r := newTestRegistry()
	err := r.Define(Definition{
		Aliases:  []any{"color", "colour"},
		Inherits: []any{"string"},
		Construct: func(s *Schema, c Config) error {
			s.SetAttr("colorspace", "srgb")
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if !r.Has("color") || !r.Has("colour") {
		t.Fatalf("controller not reachable through all aliases")
	}
	d := r.Get("colour")
	if d == nil {
		t.Fatalf("Get returned nil for a registered alias")
	}
	if len(d.Aliases) != 2 || d.Aliases[0] != "color" {
		t.Fatalf("descriptor aliases = %v", d.Aliases)
	}
	if len(d.Inherits) != 1 || d.Inherits[0] != "string" {
		t.Fatalf("descriptor inherits = %v", d.Inherits)
	}

	s, err := r.New(Config{"type": "color", "minLength": 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// The chain runs root-first: typed, string, then color.
	js := s.ToJSON().(map[string]any)
	if js["type"] != "color" || js["colorspace"] != "srgb" || js["minLength"] != 2 {
		t.Fatalf("compiled attributes = %v", js)
	}
	if iss := s.Error("a", ""); iss == nil || iss.Code != CodeTooShort {
		t.Fatalf("inherited string constraint not enforced: %v", iss)
	}
}

func TestRegistryDefineValidation(t *testing.T) {
	r := newTestRegistry()
	cases := []struct {
		name string
		def  Definition
		code string
	}{
		{"missing construct", Definition{Aliases: []any{"x"}}, CodeInvalidDefinition},
		{"no aliases", Definition{Construct: noopConstruct}, CodeInvalidDefinition},
		{"non-comparable alias", Definition{Aliases: []any{[]string{"x"}}, Construct: noopConstruct}, CodeInvalidDefinition},
		{"alias taken", Definition{Aliases: []any{"string"}, Construct: noopConstruct}, CodeAliasInUse},
		{"unknown parent", Definition{Aliases: []any{"x"}, Inherits: []any{"nope"}, Construct: noopConstruct}, CodeAliasUnknown},
	}
	for _, c := range cases {
		err := r.Define(c.def)
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Code != c.code {
			t.Fatalf("%s: err = %v, want ConfigError code %s", c.name, err, c.code)
		}
	}
	if r.Has("x") {
		t.Fatalf("failed definitions must not register aliases")
	}
}

func TestRegistryDeleteDependencySafety(t *testing.T) {
	r := newTestRegistry()
	if err := r.Define(Definition{Aliases: []any{"base"}, Construct: noopConstruct}); err != nil {
		t.Fatalf("Define base: %v", err)
	}
	if err := r.Define(Definition{Aliases: []any{"child"}, Inherits: []any{"base"}, Construct: noopConstruct}); err != nil {
		t.Fatalf("Define child: %v", err)
	}

	err := r.Delete("base")
	var de *DependencyError
	if !errors.As(err, &de) {
		t.Fatalf("Delete of inherited controller: err = %v, want DependencyError", err)
	}
	if len(de.Dependents) != 1 || de.Dependents[0].Aliases[0] != "child" {
		t.Fatalf("dependents = %v", de.Dependents)
	}
	if !r.Has("base") {
		t.Fatalf("refused deletion must leave the controller registered")
	}

	if err := r.Delete("child"); err != nil {
		t.Fatalf("Delete child: %v", err)
	}
	if err := r.Delete("base"); err != nil {
		t.Fatalf("Delete base after child removed: %v", err)
	}
	if r.Has("base") || r.Has("child") {
		t.Fatalf("deleted aliases still resolve")
	}
	if err := r.Delete("never-registered"); err != nil {
		t.Fatalf("Delete of unknown alias must be a no-op, got %v", err)
	}
}

func TestRegistryDeleteRemovesAllAliases(t *testing.T) {
	r := newTestRegistry()
	if err := r.Define(Definition{Aliases: []any{"a1", "a2"}, Construct: noopConstruct}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := r.Delete("a2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if r.Has("a1") || r.Has("a2") {
		t.Fatalf("deletion through one alias must remove every alias")
	}
}

func TestRegistryList(t *testing.T) {
	r := newTestRegistry()
	builtins := len(r.List())
	if err := r.Define(Definition{Aliases: []any{"first", "first-alt"}, Construct: noopConstruct}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := r.Define(Definition{Aliases: []any{"second"}, Construct: noopConstruct}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	list := r.List()
	if len(list) != builtins+2 {
		t.Fatalf("List length = %d, want %d (multi-alias controllers must appear once)", len(list), builtins+2)
	}
	if list[builtins].Aliases[0] != "first" || list[builtins+1].Aliases[0] != "second" {
		t.Fatalf("List is not in definition order: %v, %v", list[builtins].Aliases, list[builtins+1].Aliases)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := newTestRegistry()
	if d := r.Get("nope"); d != nil {
		t.Fatalf("Get(nope) = %v, want nil", d)
	}
	if d := r.Get([]string{"not", "comparable"}); d != nil {
		t.Fatalf("non-comparable alias lookup must return nil, not panic")
	}
}

func TestDescriptorNewForcesController(t *testing.T) {
	r := newTestRegistry()
	d := r.Get("string")
	if d == nil {
		t.Fatalf("string controller missing")
	}
	// No type field: the descriptor compiles against its own chain anyway.
	s, err := d.New(Config{"minLength": 3})
	if err != nil {
		t.Fatalf("Descriptor.New: %v", err)
	}
	if iss := s.Error(5, ""); iss == nil || iss.Code != CodeInvalidType {
		t.Fatalf("descriptor-compiled schema did not enforce string type: %v", iss)
	}
	if iss := s.Error("ab", ""); iss == nil || iss.Code != CodeTooShort {
		t.Fatalf("descriptor-compiled schema lost its options: %v", iss)
	}
}

func TestSymbolAlias(t *testing.T) {
	r := newTestRegistry()
	key := NewSymbol("internal-only")
	err := r.Define(Definition{
		Aliases:   []any{key},
		Inherits:  []any{"number"},
		Construct: noopConstruct,
	})
	if err != nil {
		t.Fatalf("Define with symbol alias: %v", err)
	}
	if !r.Has(key) {
		t.Fatalf("symbol alias does not resolve")
	}
	if r.Has(NewSymbol("internal-only")) {
		t.Fatalf("a fresh symbol with the same description must not collide")
	}
	s, err := r.New(Config{"type": key, "min": 0.0})
	if err != nil {
		t.Fatalf("New with symbol type: %v", err)
	}
	if iss := s.Error(-1, ""); iss == nil || iss.Code != CodeTooSmall {
		t.Fatalf("symbol-aliased controller lost inherited behavior: %v", iss)
	}
}
