package fullytyped

import (
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// decodeOptions maps a controller's recognized configuration keys onto a
// typed option struct. Keys the struct does not declare are ignored, which
// is what makes merged-in attributes foreign to the winning type chain drop
// out instead of being coerced. A value of the wrong shape for a declared
// key is a configuration error.
func decodeOptions(c Config, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: out})
	if err != nil {
		return configErrorf(CodeInvalidOption, "option decoder: %v", err)
	}
	if err := dec.Decode(map[string]any(c)); err != nil {
		return configErrorf(CodeInvalidOption, "%v", err)
	}
	return nil
}

// requireIntegral rejects fractional numbers supplied for integer-valued
// options, which mapstructure would otherwise truncate silently.
func requireIntegral(c Config, name string) error {
	v, ok := c[name]
	if !ok {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); math.Trunc(f) != f {
			return configErrorf(CodeInvalidOption, "%s must be an integer, got %v", name, v)
		}
	}
	return nil
}
