package fullytyped

import (
	"reflect"

	"github.com/byu-oit/fully-typed/i18n"
	"github.com/byu-oit/fully-typed/internal/confhash"
)

// Transform rewrites a value during normalize, after validation.
type Transform func(value any) any

// Validator is a custom check run during error detection. ok=false flags the
// value as invalid; a non-empty msg overrides the generic message.
type Validator func(value any) (ok bool, msg string)

// typedDefinition is the base controller every built-in inherits from. It
// owns the options shared by every schema node: the type attribute itself,
// default, enum, transform, and validator.
func typedDefinition() Definition {
	return Definition{
		Aliases:    []any{"typed"},
		Construct:  typedConstruct,
		CheckError: typedCheckError,
		Normalize:  typedNormalize,
	}
}

func typedConstruct(s *Schema, c Config) error {
	s.SetAttr("type", typeName(s.typeAlias))
	if dv, ok := c["default"]; ok {
		s.SetAttr("default", dv)
		s.SetAttr("hasDefault", true)
	}
	if ev, ok := c["enum"]; ok {
		list, ok := asAnySlice(ev)
		if !ok || len(list) == 0 {
			return configErrorf(CodeInvalidOption, "enum must be a non-empty list, got %T", ev)
		}
		// Duplicates removed by canonical form, first occurrence wins.
		seen := map[string]struct{}{}
		out := make([]any, 0, len(list))
		for _, e := range list {
			key := confhash.Key(renderValue(e, false))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
		s.SetAttr("enum", out)
	}
	if tv, ok := c["transform"]; ok {
		fn, ok := coerceTransform(tv)
		if !ok {
			return configErrorf(CodeInvalidOption, "transform must be a func(any) any, got %T", tv)
		}
		// The attribute keeps the caller's function value so the hash sees
		// its identity; the compiled form goes to aux.
		s.SetAttr("transform", tv)
		s.SetAux("transform", fn)
	}
	if vv, ok := c["validator"]; ok {
		fn, ok := coerceValidator(vv)
		if !ok {
			return configErrorf(CodeInvalidOption, "validator must be a Validator, func(any) (bool, string), or func(any) bool, got %T", vv)
		}
		s.SetAttr("validator", vv)
		s.SetAux("validator", fn)
	}
	return nil
}

func typedCheckError(s *Schema, v any) *Issue {
	if ev, ok := s.Attr("enum"); ok {
		found := false
		for _, e := range ev.([]any) {
			if reflect.DeepEqual(e, v) {
				found = true
				break
			}
		}
		if !found {
			return issuef(CodeInvalidEnum, "value %v is not one of the accepted enum values", v)
		}
	}
	if fv, ok := s.Aux("validator"); ok {
		if valid, msg := fv.(Validator)(v); !valid {
			if msg == "" {
				msg = i18n.T(CodeCustom, nil)
			}
			return issueOf(CodeCustom, msg)
		}
	}
	return nil
}

func typedNormalize(s *Schema, v any) (any, error) {
	if fv, ok := s.Aux("transform"); ok {
		return fv.(Transform)(v), nil
	}
	return v, nil
}

func coerceTransform(v any) (Transform, bool) {
	switch f := v.(type) {
	case Transform:
		return f, true
	case func(any) any:
		return f, true
	}
	return nil, false
}

func coerceValidator(v any) (Validator, bool) {
	switch f := v.(type) {
	case Validator:
		return f, true
	case func(any) (bool, string):
		return f, true
	case func(any) bool:
		return func(x any) (bool, string) { return f(x), "" }, true
	}
	return nil, false
}
