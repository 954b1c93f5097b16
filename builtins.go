package fullytyped

// registerBuiltins installs the built-in controller set. Every leaf inherits
// from typed, so the shared options (default, enum, transform, validator)
// apply everywhere.
func registerBuiltins(r *Registry) {
	mustDefine(r, typedDefinition())
	mustDefine(r, stringDefinition())
	mustDefine(r, numberDefinition())
	mustDefine(r, booleanDefinition())
	mustDefine(r, symbolDefinition())
	mustDefine(r, functionDefinition())
	mustDefine(r, objectDefinition())
	mustDefine(r, arrayDefinition())
}

func mustDefine(r *Registry, def Definition) {
	if err := r.Define(def); err != nil {
		panic(err)
	}
}
