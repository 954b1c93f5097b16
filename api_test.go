package fullytyped_test

import (
	"errors"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"

	fullytyped "github.com/byu-oit/fully-typed"
)

func TestFromYAML(t *testing.T) {
	doc := []byte(`
type: object
properties:
  host:
    type: string
    required: true
  port:
    type: number
    default: 8080
`)
	s, err := fullytyped.FromYAML(doc)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	got, err := s.Normalize(map[string]any{"host": "localhost"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	m := got.(map[string]any)
	if m["host"] != "localhost" || m["port"] != 8080 {
		t.Fatalf("Normalize = %v", m)
	}
	if iss := s.Error(map[string]any{}, ""); iss == nil {
		t.Fatalf("missing required host accepted")
	}
}

func TestFromYAMLOneOf(t *testing.T) {
	doc := []byte(`
- type: string
- type: number
`)
	s, err := fullytyped.FromYAML(doc)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if iss := s.Error("x", ""); iss != nil {
		t.Fatalf("string rejected: %v", iss)
	}
	if iss := s.Error(1, ""); iss != nil {
		t.Fatalf("number rejected: %v", iss)
	}
	if iss := s.Error(true, ""); iss == nil || iss.Code != fullytyped.CodeNoVariant {
		t.Fatalf("Error = %v, want no_variant", iss)
	}
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := fullytyped.FromYAML([]byte("{not yaml"))
	var ce *fullytyped.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
}

func TestMustPanicsOnBadConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Must did not panic on an invalid configuration")
		}
	}()
	fullytyped.Must(fullytyped.Config{"type": "no-such-type"})
}

func TestPackageLevelRegistry(t *testing.T) {
	alias := "api-test-port"
	err := fullytyped.Define(fullytyped.Definition{
		Aliases:  []any{alias},
		Inherits: []any{"number"},
		Construct: func(s *fullytyped.Schema, c fullytyped.Config) error {
			s.SetAttr("min", 1.0)
			s.SetAttr("max", 65535.0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	defer func() {
		if err := fullytyped.Delete(alias); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	}()

	if !fullytyped.Has(alias) {
		t.Fatalf("Has(%s) = false", alias)
	}
	if fullytyped.Get(alias) == nil {
		t.Fatalf("Get(%s) = nil", alias)
	}
	found := false
	for _, d := range fullytyped.List() {
		if len(d.Aliases) > 0 && d.Aliases[0] == alias {
			found = true
		}
	}
	if !found {
		t.Fatalf("List does not include %s", alias)
	}

	s, err := fullytyped.New(fullytyped.Config{"type": alias})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if iss := s.Error(0, ""); iss == nil || iss.Code != fullytyped.CodeTooSmall {
		t.Fatalf("Error(0) = %v, want too_small", iss)
	}
	if iss := s.Error(8080, ""); iss != nil {
		t.Fatalf("Error(8080) = %v", iss)
	}
}

func TestBuiltinsRegistered(t *testing.T) {
	for _, alias := range []string{"typed", "string", "number", "boolean", "bool", "symbol", "function", "func", "object", "array"} {
		if !fullytyped.Has(alias) {
			t.Fatalf("built-in alias %s missing", alias)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	s := fullytyped.Must(fullytyped.Config{"type": "string", "minLength": 2})
	data, err := gojson.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	js := string(data)
	if !strings.Contains(js, `"type":"string"`) || !strings.Contains(js, `"minLength":2`) {
		t.Fatalf("Marshal = %s", js)
	}
}

func TestIssueIsError(t *testing.T) {
	s := fullytyped.Must(fullytyped.Config{"type": "number"})
	err := s.Validate("x", "value")
	if err == nil {
		t.Fatalf("Validate accepted an invalid value")
	}
	iss, ok := fullytyped.AsIssue(err)
	if !ok {
		t.Fatalf("AsIssue failed for %v", err)
	}
	if iss.Code != fullytyped.CodeInvalidType || !strings.HasPrefix(err.Error(), "value: ") {
		t.Fatalf("issue = %+v", iss)
	}
}
