package fullytyped

// Package fullytyped is a runtime schema engine: a declarative configuration
// describing the shape and constraints of a value is compiled into a
// reusable, immutable validator/normalizer.
//
// - A process-wide controller registry maps alias keys to type controllers
//   and tracks inheritance so controllers can be composed and safely deleted.
// - Compiling a configuration runs every ancestor's construct step against a
//   single schema instance and fingerprints the result, so structurally
//   identical configurations share a Hash.
// - A configuration supplied as a list compiles to a one-of resolver that
//   validates and normalizes against the first matching variant.
// - Object schemas reconcile per-property configuration with a shared
//   generic configuration by cross-producting the variants of both sides.
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations
//   under internal/.
// - Value errors are reported as data (*Issue) from Error and only converted
//   to returned Go errors by Validate/Normalize; configuration errors are
//   ordinary Go errors and never travel the Issue path.
//
// Typical usage:
//
//	schema := fullytyped.Must(fullytyped.Config{
//		"type":      "string",
//		"minLength": 1,
//	})
//	if iss := schema.Error(v, "username"); iss != nil { ... }
//	out, err := schema.Normalize(v)
