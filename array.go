package fullytyped

import (
	"fmt"

	"github.com/byu-oit/fully-typed/internal/confhash"
)

func arrayDefinition() Definition {
	return Definition{
		Aliases:    []any{"array"},
		Inherits:   []any{"typed"},
		Construct:  arrayConstruct,
		CheckError: arrayCheckError,
		Normalize:  arrayNormalize,
	}
}

func arrayConstruct(s *Schema, c Config) error {
	if err := requireIntegral(c, "minItems"); err != nil {
		return err
	}
	if err := requireIntegral(c, "maxItems"); err != nil {
		return err
	}
	var opts struct {
		MinItems    *int `mapstructure:"minItems"`
		MaxItems    *int `mapstructure:"maxItems"`
		UniqueItems bool `mapstructure:"uniqueItems"`
	}
	if err := decodeOptions(c, &opts); err != nil {
		return err
	}
	if opts.MinItems != nil {
		if *opts.MinItems < 0 {
			return configErrorf(CodeInvalidOption, "minItems must be a non-negative integer, got %d", *opts.MinItems)
		}
		s.SetAttr("minItems", *opts.MinItems)
	}
	if opts.MaxItems != nil {
		if *opts.MaxItems < 0 {
			return configErrorf(CodeInvalidOption, "maxItems must be a non-negative integer, got %d", *opts.MaxItems)
		}
		if opts.MinItems != nil && *opts.MaxItems < *opts.MinItems {
			return configErrorf(CodeInvalidOption, "maxItems %d must not be less than minItems %d", *opts.MaxItems, *opts.MinItems)
		}
		s.SetAttr("maxItems", *opts.MaxItems)
	}
	if opts.UniqueItems {
		s.SetAttr("uniqueItems", true)
	}
	if sv, ok := c["schema"]; ok {
		// The element position accepts a single configuration or a one-of
		// list of them.
		elem, err := s.registry.New(sv)
		if err != nil {
			return err
		}
		s.SetAttr("schema", elem)
	}
	return nil
}

func arrayCheckError(s *Schema, v any) *Issue {
	list, ok := asAnySlice(v)
	if !ok {
		return issuef(CodeInvalidType, "expected an array, got %v", describeValue(v))
	}
	if min, ok := s.attrInt("minItems"); ok && len(list) < min {
		return issuef(CodeTooShort, "array length %d is less than the minimum length %d", len(list), min)
	}
	if max, ok := s.attrInt("maxItems"); ok && len(list) > max {
		return issuef(CodeTooLong, "array length %d is greater than the maximum length %d", len(list), max)
	}
	if s.attrBool("uniqueItems") {
		seen := map[string]struct{}{}
		for i, e := range list {
			key := confhash.Key(renderValue(e, false))
			if _, dup := seen[key]; dup {
				iss := issuef(CodeNotUnique, "array item at index %d duplicates an earlier item", i)
				iss.Index = i
				return iss
			}
			seen[key] = struct{}{}
		}
	}
	elem := s.attrSchema("schema")
	if elem == nil {
		return nil
	}
	var subs []*Issue
	for i, e := range list {
		if iss := elem.Error(e, ""); iss != nil {
			sub := *iss
			sub.Index = i
			subs = append(subs, &sub)
		}
	}
	if len(subs) > 0 {
		return aggregate(CodeInvalidItems, subs, func(_ int, sub *Issue) string {
			return fmt.Sprintf("index %d", sub.Index)
		})
	}
	return nil
}

func arrayNormalize(s *Schema, v any) (any, error) {
	list, ok := asAnySlice(v)
	if !ok {
		return v, nil
	}
	elem := s.attrSchema("schema")
	out := make([]any, len(list))
	for i, e := range list {
		if elem == nil {
			out[i] = e
			continue
		}
		nv, err := elem.Normalize(e)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}
