package fullytyped

import (
	"reflect"
	"sync"
)

// Construct validates one ancestor's options from the raw configuration and
// attaches the resulting attributes to the schema instance under
// construction. It fails fast with a *ConfigError on an invalid option.
type Construct func(s *Schema, c Config) error

// CheckError reports the first problem this ancestor finds with a value, or
// nil when the value passes.
type CheckError func(s *Schema, v any) *Issue

// NormalizeStep rewrites an already-validated value.
type NormalizeStep func(s *Schema, v any) (any, error)

// Definition declares a controller for Registry.Define. Construct is
// required; CheckError and Normalize are optional and, when present, join
// the compiled pipelines of every descendant.
type Definition struct {
	Aliases    []any
	Inherits   []any
	Construct  Construct
	CheckError CheckError
	Normalize  NormalizeStep
}

// Descriptor is a read-only view of a registered controller. Mutating the
// returned slices does not affect the registry.
type Descriptor struct {
	Aliases    []any
	Inherits   []any
	Construct  Construct
	CheckError CheckError
	Normalize  NormalizeStep
	// New compiles a configuration against this controller's chain,
	// regardless of the configuration's own type field.
	New func(config any) (Typed, error)
}

// controller is the live registry record. chain, checks and steps are
// resolved once at Define time, never per compile.
type controller struct {
	def        Definition
	aliases    []any
	inherits   []any
	parents    []*controller
	chain      []*controller // root-first, self last
	checks     []CheckError  // aggregated from chain, root-first
	steps      []NormalizeStep
	dependents map[*controller]struct{}
}

// Registry is the process-wide controller catalog. Define and Delete take
// the writer lock; Get, Has, List and compilation only read, so once
// registration has stabilized the registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byAlias map[any]*controller
	order   []*controller
}

// NewRegistry returns an empty registry. The package-level registry already
// carries the built-in controllers; fresh registries start blank.
func NewRegistry() *Registry {
	return &Registry{byAlias: map[any]*controller{}}
}

// Define registers a controller under every one of its aliases. It fails
// with a *ConfigError when an alias is taken, the construct function is
// missing, or a parent alias is not registered. Parents must be defined
// before children.
func (r *Registry) Define(def Definition) error {
	if def.Construct == nil {
		return configErrorf(CodeInvalidDefinition, "controller definition requires a construct function")
	}
	if len(def.Aliases) == 0 {
		return configErrorf(CodeInvalidDefinition, "controller definition requires at least one alias")
	}
	for _, a := range def.Aliases {
		if !usableAlias(a) {
			return configErrorf(CodeInvalidDefinition, "alias %v is not usable as a map key", a)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range def.Aliases {
		if _, taken := r.byAlias[a]; taken {
			return configErrorf(CodeAliasInUse, "alias %v is already registered", a)
		}
	}
	parents := make([]*controller, 0, len(def.Inherits))
	seen := map[*controller]struct{}{}
	for _, pa := range def.Inherits {
		if !usableAlias(pa) {
			return configErrorf(CodeAliasUnknown, "cannot inherit from unregistered alias %v", pa)
		}
		p, ok := r.byAlias[pa]
		if !ok {
			return configErrorf(CodeAliasUnknown, "cannot inherit from unregistered alias %v", pa)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		parents = append(parents, p)
	}

	c := &controller{
		def:        def,
		aliases:    append([]any(nil), def.Aliases...),
		inherits:   append([]any(nil), def.Inherits...),
		parents:    parents,
		dependents: map[*controller]struct{}{},
	}
	c.chain = buildChain(parents, c)
	for _, anc := range c.chain {
		if anc.def.CheckError != nil {
			c.checks = append(c.checks, anc.def.CheckError)
		}
		if anc.def.Normalize != nil {
			c.steps = append(c.steps, anc.def.Normalize)
		}
	}

	for _, a := range c.aliases {
		r.byAlias[a] = c
	}
	for _, p := range parents {
		p.dependents[c] = struct{}{}
	}
	r.order = append(r.order, c)
	return nil
}

// buildChain flattens the ancestor graph root-first, deduplicated so a
// shared ancestor contributes exactly once, with self appended last.
func buildChain(parents []*controller, self *controller) []*controller {
	var chain []*controller
	seen := map[*controller]struct{}{}
	add := func(c *controller) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		chain = append(chain, c)
	}
	for _, p := range parents {
		for _, anc := range p.chain {
			add(anc)
		}
	}
	add(self)
	return chain
}

// Get returns a read-only copy of the descriptor registered under alias, or
// nil when the alias is unknown.
func (r *Registry) Get(alias any) *Descriptor {
	r.mu.RLock()
	c := r.lookup(alias)
	r.mu.RUnlock()
	if c == nil {
		return nil
	}
	return r.describe(c)
}

// Has reports whether alias currently resolves to a controller.
func (r *Registry) Has(alias any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(alias) != nil
}

// Delete removes the controller registered under alias from every one of its
// aliases. Unknown aliases are a no-op. Deletion is refused with a
// *DependencyError while any other controller still inherits from this one.
func (r *Registry) Delete(alias any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.lookup(alias)
	if c == nil {
		return nil
	}
	if len(c.dependents) > 0 {
		deps := make([]*Descriptor, 0, len(c.dependents))
		for _, d := range r.order {
			if _, ok := c.dependents[d]; ok {
				deps = append(deps, r.describe(d))
			}
		}
		return &DependencyError{Alias: alias, Dependents: deps}
	}
	for _, a := range c.aliases {
		delete(r.byAlias, a)
	}
	for _, p := range c.parents {
		delete(p.dependents, c)
	}
	for i, d := range r.order {
		if d == c {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns every registered controller exactly once, in definition
// order, even though each is reachable through multiple aliases.
func (r *Registry) List() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.describe(c))
	}
	return out
}

// lookup must run under r.mu. It guards against non-comparable alias values,
// which would otherwise panic on map access.
func (r *Registry) lookup(alias any) *controller {
	if !usableAlias(alias) {
		return nil
	}
	return r.byAlias[alias]
}

func (r *Registry) describe(c *controller) *Descriptor {
	return &Descriptor{
		Aliases:    append([]any(nil), c.aliases...),
		Inherits:   append([]any(nil), c.inherits...),
		Construct:  c.def.Construct,
		CheckError: c.def.CheckError,
		Normalize:  c.def.Normalize,
		New: func(config any) (Typed, error) {
			return r.newWith(c, config)
		},
	}
}

// usableAlias reports whether a value can serve as a map key: non-nil and of
// a comparable type. Strings, Symbols, and struct keys all qualify.
func usableAlias(a any) bool {
	if a == nil {
		return false
	}
	return reflect.TypeOf(a).Comparable()
}
