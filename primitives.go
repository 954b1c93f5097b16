package fullytyped

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"unicode/utf8"
)

func stringDefinition() Definition {
	return Definition{
		Aliases:    []any{"string"},
		Inherits:   []any{"typed"},
		Construct:  stringConstruct,
		CheckError: stringCheckError,
	}
}

func stringConstruct(s *Schema, c Config) error {
	if err := requireIntegral(c, "minLength"); err != nil {
		return err
	}
	if err := requireIntegral(c, "maxLength"); err != nil {
		return err
	}
	var opts struct {
		MinLength *int `mapstructure:"minLength"`
		MaxLength *int `mapstructure:"maxLength"`
	}
	if err := decodeOptions(c, &opts); err != nil {
		return err
	}
	if opts.MinLength != nil {
		if *opts.MinLength < 0 {
			return configErrorf(CodeInvalidOption, "minLength must be a non-negative integer, got %d", *opts.MinLength)
		}
		s.SetAttr("minLength", *opts.MinLength)
	}
	if opts.MaxLength != nil {
		if *opts.MaxLength < 0 {
			return configErrorf(CodeInvalidOption, "maxLength must be a non-negative integer, got %d", *opts.MaxLength)
		}
		if opts.MinLength != nil && *opts.MaxLength < *opts.MinLength {
			return configErrorf(CodeInvalidOption, "maxLength %d must not be less than minLength %d", *opts.MaxLength, *opts.MinLength)
		}
		s.SetAttr("maxLength", *opts.MaxLength)
	}
	if pv, ok := c["pattern"]; ok {
		switch p := pv.(type) {
		case string:
			re, err := regexp.Compile(p)
			if err != nil {
				return configErrorf(CodeInvalidOption, "pattern is not a valid regular expression: %v", err)
			}
			s.SetAttr("pattern", p)
			s.SetAux("pattern", re)
		case *regexp.Regexp:
			s.SetAttr("pattern", p.String())
			s.SetAux("pattern", p)
		default:
			return configErrorf(CodeInvalidOption, "pattern must be a string or *regexp.Regexp, got %T", pv)
		}
	}
	return nil
}

func stringCheckError(s *Schema, v any) *Issue {
	str, ok := v.(string)
	if !ok {
		return issuef(CodeInvalidType, "expected a string, got %v", describeValue(v))
	}
	// Lengths count runes, not bytes.
	n := utf8.RuneCountInString(str)
	if min, ok := s.attrInt("minLength"); ok && n < min {
		return issuef(CodeTooShort, "string length %d is less than the minimum length %d", n, min)
	}
	if max, ok := s.attrInt("maxLength"); ok && n > max {
		return issuef(CodeTooLong, "string length %d is greater than the maximum length %d", n, max)
	}
	if rv, ok := s.Aux("pattern"); ok {
		if re := rv.(*regexp.Regexp); !re.MatchString(str) {
			return issuef(CodePattern, "string %q does not match pattern %s", str, re)
		}
	}
	return nil
}

func numberDefinition() Definition {
	return Definition{
		Aliases:    []any{"number"},
		Inherits:   []any{"typed"},
		Construct:  numberConstruct,
		CheckError: numberCheckError,
	}
}

func numberConstruct(s *Schema, c Config) error {
	var opts struct {
		Min          *float64 `mapstructure:"min"`
		Max          *float64 `mapstructure:"max"`
		ExclusiveMin bool     `mapstructure:"exclusiveMin"`
		ExclusiveMax bool     `mapstructure:"exclusiveMax"`
		Integer      bool     `mapstructure:"integer"`
	}
	if err := decodeOptions(c, &opts); err != nil {
		return err
	}
	if opts.Min != nil {
		s.SetAttr("min", *opts.Min)
	}
	if opts.Max != nil {
		if opts.Min != nil && *opts.Max < *opts.Min {
			return configErrorf(CodeInvalidOption, "max %v must not be less than min %v", *opts.Max, *opts.Min)
		}
		s.SetAttr("max", *opts.Max)
	}
	if opts.ExclusiveMin {
		s.SetAttr("exclusiveMin", true)
	}
	if opts.ExclusiveMax {
		s.SetAttr("exclusiveMax", true)
	}
	if opts.Integer {
		s.SetAttr("integer", true)
	}
	return nil
}

func numberCheckError(s *Schema, v any) *Issue {
	f, ok := numberValue(v)
	if !ok {
		return issuef(CodeInvalidType, "expected a number, got %v", describeValue(v))
	}
	if s.attrBool("integer") && math.Trunc(f) != f {
		return issuef(CodeNotInteger, "expected an integer, got %v", v)
	}
	if min, ok := s.attrFloat("min"); ok {
		if s.attrBool("exclusiveMin") {
			if f <= min {
				return issuef(CodeTooSmall, "number %v must be greater than %v", v, min)
			}
		} else if f < min {
			return issuef(CodeTooSmall, "number %v is less than the minimum %v", v, min)
		}
	}
	if max, ok := s.attrFloat("max"); ok {
		if s.attrBool("exclusiveMax") {
			if f >= max {
				return issuef(CodeTooBig, "number %v must be less than %v", v, max)
			}
		} else if f > max {
			return issuef(CodeTooBig, "number %v is greater than the maximum %v", v, max)
		}
	}
	return nil
}

// numberValue reads any numeric kind as a float64.
func numberValue(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func booleanDefinition() Definition {
	return Definition{
		Aliases:    []any{"boolean", "bool"},
		Inherits:   []any{"typed"},
		Construct:  func(*Schema, Config) error { return nil },
		CheckError: booleanCheckError,
	}
}

func booleanCheckError(_ *Schema, v any) *Issue {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Bool {
		return issuef(CodeInvalidType, "expected a boolean, got %v", describeValue(v))
	}
	return nil
}

func symbolDefinition() Definition {
	return Definition{
		Aliases:    []any{"symbol"},
		Inherits:   []any{"typed"},
		Construct:  func(*Schema, Config) error { return nil },
		CheckError: symbolCheckError,
	}
}

func symbolCheckError(_ *Schema, v any) *Issue {
	if _, ok := v.(Symbol); !ok {
		return issuef(CodeInvalidType, "expected a symbol, got %v", describeValue(v))
	}
	return nil
}

func functionDefinition() Definition {
	return Definition{
		Aliases:    []any{"function", "func"},
		Inherits:   []any{"typed"},
		Construct:  func(*Schema, Config) error { return nil },
		CheckError: functionCheckError,
	}
}

func functionCheckError(_ *Schema, v any) *Issue {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return issuef(CodeInvalidType, "expected a function, got %v", describeValue(v))
	}
	return nil
}

// describeValue names a value for error messages: null for nil, the dynamic
// type otherwise.
func describeValue(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}
