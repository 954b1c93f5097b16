package fullytyped

import (
	"fmt"
	"reflect"
	"runtime"

	gojson "github.com/goccy/go-json"

	"github.com/byu-oit/fully-typed/internal/confhash"
)

// Config is the raw, declarative description of a schema node.
type Config map[string]any

// Schema is one compiled validator: the attributes attached by every
// ancestor controller, plus the aggregated error and normalize pipelines.
// Instances are immutable after compilation and safe for concurrent use.
type Schema struct {
	registry   *Registry
	controller *controller
	typeAlias  any
	config     Config
	attrs      map[string]any // own attributes; the content hash covers exactly these
	aux        map[string]any // compiled bookkeeping (e.g. regexps); never hashed
	hash       string
}

// compile resolves the configuration's type alias and builds one instance.
func (r *Registry) compile(c Config) (*Schema, error) {
	// Copy on entry so later external edits cannot corrupt the instance.
	cp := make(Config, len(c))
	for k, v := range c {
		cp[k] = v
	}
	alias := any("typed")
	if t, ok := cp["type"]; ok {
		alias = t
	}
	r.mu.RLock()
	ctrl := r.lookup(alias)
	r.mu.RUnlock()
	if ctrl == nil {
		return nil, &UnknownTypeError{Alias: alias}
	}
	return r.build(ctrl, alias, cp)
}

// build runs every ancestor construct step root-first against the same
// instance, then fingerprints the attached attributes.
func (r *Registry) build(ctrl *controller, alias any, c Config) (*Schema, error) {
	s := &Schema{
		registry:   r,
		controller: ctrl,
		typeAlias:  alias,
		config:     c,
		attrs:      map[string]any{},
		aux:        map[string]any{},
	}
	for _, anc := range ctrl.chain {
		if err := anc.def.Construct(s, c); err != nil {
			return nil, err
		}
	}
	s.hash = confhash.Sum(renderValue(s.attrs, false))
	return s, nil
}

// Error runs the ordered error pipeline and returns the first non-nil issue,
// so the most general check reports before type-specific constraints. A nil
// result means the value is acceptable. prefix, when non-empty, is prepended
// to the issue message.
func (s *Schema) Error(value any, prefix string) *Issue {
	for _, check := range s.controller.checks {
		if iss := check(s, value); iss != nil {
			return iss.withPrefix(prefix)
		}
	}
	return nil
}

// Validate is Error converted to a returned failure.
func (s *Schema) Validate(value any, prefix string) error {
	if iss := s.Error(value, prefix); iss != nil {
		return iss
	}
	return nil
}

// Normalize substitutes the default when the value is missing (nil),
// validates, then feeds the value through the ordered normalize pipeline.
// The input is never mutated; containers produce fresh results.
func (s *Schema) Normalize(value any) (any, error) {
	if value == nil && s.hasDefault() {
		value = s.attrs["default"]
	}
	if err := s.Validate(value, ""); err != nil {
		return nil, err
	}
	var err error
	for _, step := range s.controller.steps {
		value, err = step(s, value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Hash returns the content fingerprint of this instance's own attributes.
// Structurally identical configurations share a hash regardless of object
// identity, which is what powers variant deduplication.
func (s *Schema) Hash() string { return s.hash }

// ToJSON returns the normalized configuration: functions and type references
// rendered as their names, nested schemas expanded recursively.
func (s *Schema) ToJSON() any { return renderValue(s.attrs, true) }

func (s *Schema) MarshalJSON() ([]byte, error) { return gojson.Marshal(s.ToJSON()) }

// Attr returns an attribute attached by a construct step.
func (s *Schema) Attr(name string) (any, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

// SetAttr attaches an attribute. Attributes participate in the content hash
// and in ToJSON; compiled bookkeeping belongs in SetAux instead.
func (s *Schema) SetAttr(name string, value any) { s.attrs[name] = value }

// Aux returns compiled bookkeeping stored by a construct step.
func (s *Schema) Aux(name string) (any, bool) {
	v, ok := s.aux[name]
	return v, ok
}

// SetAux stores compiled bookkeeping excluded from the hash and from ToJSON.
func (s *Schema) SetAux(name string, value any) { s.aux[name] = value }

// Registry returns the registry this instance was compiled against, so
// custom controllers can compile nested schemas.
func (s *Schema) Registry() *Registry { return s.registry }

// Subschema compiles a nested configuration (single or one-of) against the
// same registry.
func (s *Schema) Subschema(config any) (Typed, error) { return s.registry.New(config) }

func (s *Schema) hasDefault() bool {
	b, _ := s.attrs["hasDefault"].(bool)
	return b
}

func (s *Schema) attrBool(name string) bool {
	b, _ := s.attrs[name].(bool)
	return b
}

func (s *Schema) attrInt(name string) (int, bool) {
	n, ok := s.attrs[name].(int)
	return n, ok
}

func (s *Schema) attrFloat(name string) (float64, bool) {
	f, ok := s.attrs[name].(float64)
	return f, ok
}

func (s *Schema) attrSchema(name string) Typed {
	t, _ := s.attrs[name].(Typed)
	return t
}

// renderValue walks an attribute tree into a canonical plain form. In hash
// mode nested schemas collapse to their content hash and functions to their
// runtime name; in JSON mode schemas expand recursively and functions render
// as bare names.
func renderValue(v any, forJSON bool) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]*property:
		out := make(map[string]any, len(t))
		for k, p := range t {
			out[k] = renderValue(p, forJSON)
		}
		return out
	case *property:
		return map[string]any{
			"required": t.required,
			"schema":   renderValue(t.schema, forJSON),
		}
	case Config:
		return renderMap(t, forJSON)
	case map[string]any:
		return renderMap(t, forJSON)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = renderValue(e, forJSON)
		}
		return out
	case Symbol:
		return t.String()
	case Typed:
		if forJSON {
			return t.ToJSON()
		}
		return "schema:" + t.Hash()
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Func {
			if forJSON {
				return funcName(v)
			}
			return "func:" + funcName(v)
		}
		return v
	}
}

func renderMap(m map[string]any, forJSON bool) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = renderValue(v, forJSON)
	}
	return out
}

// funcName is the canonical identity of a function value. Go exposes no
// function source text, so the fully-qualified runtime name stands in; it is
// stable for any given build.
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return "func"
}

// typeName renders a type alias for attributes and ToJSON output.
func typeName(alias any) string {
	switch t := alias.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// asAnySlice views a slice or array value as []any without mutating it.
func asAnySlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asStringMap views a string-keyed map value as map[string]any.
func asStringMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return t, true
	case Config:
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
