package fullytyped

import "sort"

// property is a container's compiled per-property entry: the schema that
// validates the value, plus the required flag the merge engine stripped from
// the configuration before compiling.
type property struct {
	schema   Typed
	required bool
}

func objectDefinition() Definition {
	return Definition{
		Aliases:    []any{"object"},
		Inherits:   []any{"typed"},
		Construct:  objectConstruct,
		CheckError: objectCheckError,
		Normalize:  objectNormalize,
	}
}

func objectConstruct(s *Schema, c Config) error {
	var opts struct {
		AllowNull bool `mapstructure:"allowNull"`
		Clean     bool `mapstructure:"clean"`
	}
	if err := decodeOptions(c, &opts); err != nil {
		return err
	}
	if opts.AllowNull {
		s.SetAttr("allowNull", true)
	}
	if opts.Clean {
		s.SetAttr("clean", true)
	}

	// The generic configuration applies to every declared property; each
	// property's own configuration is merged over it.
	generic := c["schema"]
	raw, ok := c["properties"]
	if !ok {
		return nil
	}
	m, ok := asStringMap(raw)
	if !ok {
		return configErrorf(CodeInvalidOption, "properties must be a map of property configurations, got %T", raw)
	}
	names := sortedKeys(m)
	props := make(map[string]*property, len(m))
	for _, name := range names {
		p, err := buildProperty(s, generic, m[name])
		if err != nil {
			return err
		}
		props[name] = p
	}
	s.SetAttr("properties", props)
	s.SetAux("propertyOrder", names)
	return nil
}

func objectCheckError(s *Schema, v any) *Issue {
	if v == nil {
		if s.attrBool("allowNull") {
			return nil
		}
		return issueOf(CodeInvalidType, "expected an object, got null")
	}
	m, ok := asStringMap(v)
	if !ok {
		return issuef(CodeInvalidType, "expected an object, got %v", describeValue(v))
	}
	props := s.objectProperties()
	var subs []*Issue
	for _, name := range s.propertyOrder() {
		p := props[name]
		val, present := m[name]
		if !present {
			if p.required {
				sub := issuef(CodeRequired, "missing required property %s", name)
				sub.Property = name
				subs = append(subs, sub)
			}
			continue
		}
		if iss := p.schema.Error(val, ""); iss != nil {
			sub := *iss
			sub.Property = name
			subs = append(subs, &sub)
		}
	}
	if len(subs) > 0 {
		return aggregate(CodeInvalidProperties, subs, func(_ int, sub *Issue) string {
			return sub.Property
		})
	}
	return nil
}

// objectNormalize builds a fresh map: declared properties normalized through
// their schemas, absent defaulted properties filled in, and, with clean set,
// undeclared keys dropped.
func objectNormalize(s *Schema, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := asStringMap(v)
	if !ok {
		return v, nil
	}
	props := s.objectProperties()
	clean := s.attrBool("clean")
	out := make(map[string]any, len(m))
	for k, val := range m {
		if p, declared := props[k]; declared {
			nv, err := p.schema.Normalize(val)
			if err != nil {
				return nil, err
			}
			out[k] = nv
			continue
		}
		if !clean {
			out[k] = val
		}
	}
	for _, name := range s.propertyOrder() {
		if _, present := m[name]; present {
			continue
		}
		p := props[name]
		if !typedHasDefault(p.schema) {
			continue
		}
		nv, err := p.schema.Normalize(nil)
		if err != nil {
			return nil, err
		}
		out[name] = nv
	}
	return out, nil
}

func (s *Schema) objectProperties() map[string]*property {
	p, _ := s.attrs["properties"].(map[string]*property)
	return p
}

func (s *Schema) propertyOrder() []string {
	v, _ := s.aux["propertyOrder"].([]string)
	return v
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
