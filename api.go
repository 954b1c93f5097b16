package fullytyped

import (
	"gopkg.in/yaml.v3"
)

// Typed is the handle returned for a compiled configuration: either a single
// Schema or a MultiVariant over several acceptable shapes. Implementations
// are immutable and safe to share across concurrent validation calls.
type Typed interface {
	// Error reports why the value is unacceptable, or nil when it passes.
	// Failures are data, never returned errors; prefix is prepended to the
	// message when non-empty.
	Error(value any, prefix string) *Issue
	// Validate is Error converted to a returned failure.
	Validate(value any, prefix string) error
	// Normalize validates, substitutes defaults for missing (nil) input, and
	// applies the normalize pipeline, returning the canonical value.
	Normalize(value any) (any, error)
	// Hash is a stable content fingerprint, suitable as a cache key for
	// configuration identity.
	Hash() string
	// ToJSON returns the normalized configuration for introspection, with
	// functions and type references rendered as names.
	ToJSON() any
	MarshalJSON() ([]byte, error)
}

var defaultRegistry = NewRegistry()

func init() {
	registerBuiltins(defaultRegistry)
}

// DefaultRegistry returns the process-wide registry carrying the built-in
// controllers. Populate it during startup; reads are safe concurrently once
// registration has stabilized.
func DefaultRegistry() *Registry { return defaultRegistry }

// New compiles a configuration against this registry. A map compiles to a
// single Schema; a list compiles each element and wraps the distinct results
// in a one-of MultiVariant; nil compiles the bare base type.
func (r *Registry) New(config any) (Typed, error) {
	if isConfigList(config) {
		list, err := variantConfigs(config)
		if err != nil {
			return nil, err
		}
		members := make([]Typed, 0, len(list))
		for _, c := range list {
			s, err := r.compile(c)
			if err != nil {
				return nil, err
			}
			members = append(members, s)
		}
		return newMultiVariant(members), nil
	}
	c, err := singleConfig(config)
	if err != nil {
		return nil, err
	}
	s, err := r.compile(c)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newWith compiles against a fixed controller, ignoring the configuration's
// own type field. Backs Descriptor.New.
func (r *Registry) newWith(ctrl *controller, config any) (Typed, error) {
	alias := any("typed")
	if len(ctrl.aliases) > 0 {
		alias = ctrl.aliases[0]
	}
	if isConfigList(config) {
		list, err := variantConfigs(config)
		if err != nil {
			return nil, err
		}
		members := make([]Typed, 0, len(list))
		for _, c := range list {
			s, err := r.build(ctrl, alias, copyConfig(c))
			if err != nil {
				return nil, err
			}
			members = append(members, s)
		}
		return newMultiVariant(members), nil
	}
	c, err := singleConfig(config)
	if err != nil {
		return nil, err
	}
	s, err := r.build(ctrl, alias, copyConfig(c))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// New compiles a configuration against the default registry.
func New(config any) (Typed, error) { return defaultRegistry.New(config) }

// Must is like New but panics on a configuration error. Configuration errors
// are programming errors, so startup-time schema declarations typically use
// Must.
func Must(config any) Typed {
	t, err := New(config)
	if err != nil {
		panic(err)
	}
	return t
}

// FromYAML decodes a YAML document into a configuration and compiles it
// against the default registry. A top-level sequence is a one-of.
func FromYAML(data []byte) (Typed, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, configErrorf(CodeInvalidOption, "invalid YAML configuration: %v", err)
	}
	return New(raw)
}

// Define registers a controller on the default registry.
func Define(def Definition) error { return defaultRegistry.Define(def) }

// Get returns a read-only descriptor from the default registry, or nil.
func Get(alias any) *Descriptor { return defaultRegistry.Get(alias) }

// Has reports whether the default registry knows the alias.
func Has(alias any) bool { return defaultRegistry.Has(alias) }

// Delete removes a controller from the default registry.
func Delete(alias any) error { return defaultRegistry.Delete(alias) }

// List returns every controller on the default registry exactly once.
func List() []*Descriptor { return defaultRegistry.List() }

func copyConfig(c Config) Config {
	cp := make(Config, len(c))
	for k, v := range c {
		cp[k] = v
	}
	return cp
}

// isConfigList distinguishes the one-of form from a single configuration.
func isConfigList(config any) bool {
	switch config.(type) {
	case nil, Config, map[string]any:
		return false
	}
	_, ok := asAnySlice(config)
	return ok
}

// singleConfig views a single-configuration value as a Config.
func singleConfig(config any) (Config, error) {
	switch t := config.(type) {
	case nil:
		return Config{}, nil
	case Config:
		return t, nil
	case map[string]any:
		return Config(t), nil
	}
	if m, ok := asStringMap(config); ok {
		return Config(m), nil
	}
	return nil, configErrorf(CodeInvalidOption, "configuration must be a map or a list of maps, got %T", config)
}
