package fullytyped

// The container merge engine reconciles a property's own configuration
// against the container's shared generic configuration. Either side may be a
// one-of list; the result is the Cartesian product of all pairings, merged
// specific-over-generic, compiled, then deduplicated by content hash.

// variantConfigs renders a configuration position as its ordered list of
// variant configurations: nil is one empty variant, a map is one variant, a
// list is taken as-is.
func variantConfigs(v any) ([]Config, error) {
	switch t := v.(type) {
	case nil:
		return []Config{{}}, nil
	case Config:
		return []Config{t}, nil
	case map[string]any:
		return []Config{Config(t)}, nil
	}
	list, ok := asAnySlice(v)
	if !ok {
		if m, ok := asStringMap(v); ok {
			return []Config{Config(m)}, nil
		}
		return nil, configErrorf(CodeInvalidOption, "configuration must be a map or a list of maps, got %T", v)
	}
	if len(list) == 0 {
		return nil, configErrorf(CodeInvalidOption, "one-of configuration must not be empty")
	}
	out := make([]Config, 0, len(list))
	for _, e := range list {
		c, err := singleConfig(e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// buildProperty crosses the generic per-property configuration with the
// property's own configuration and compiles the surviving variants.
//
// The required flag is owned by the container: leaf controllers never attach
// it, so it is read from each merged candidate, stripped before compilation,
// and re-attached as sidecar metadata on the resulting property. A candidate
// that is both required and carries a default is a configuration error.
func buildProperty(s *Schema, generic, specific any) (*property, error) {
	gens, err := variantConfigs(generic)
	if err != nil {
		return nil, err
	}
	specs, err := variantConfigs(specific)
	if err != nil {
		return nil, err
	}

	var required bool
	members := make([]Typed, 0, len(gens)*len(specs))
	for _, sp := range specs {
		for _, g := range gens {
			merged := make(Config, len(g)+len(sp))
			for k, v := range g {
				merged[k] = v
			}
			for k, v := range sp {
				merged[k] = v
			}
			if rv, ok := merged["required"]; ok {
				req, ok := rv.(bool)
				if !ok {
					return nil, configErrorf(CodeInvalidOption, "required must be a boolean, got %T", rv)
				}
				delete(merged, "required")
				if req {
					if _, hasDefault := merged["default"]; hasDefault {
						return nil, configErrorf(CodeRequiredDefaultConflict,
							"a property cannot both be required and carry a default value")
					}
					required = true
				}
			}
			inst, err := s.registry.compile(merged)
			if err != nil {
				return nil, err
			}
			members = append(members, inst)
		}
	}
	return &property{schema: newMultiVariant(members), required: required}, nil
}
