package fullytyped

import "fmt"

// Symbol is an opaque, identity-compared token. Two symbols are equal only
// when produced by the same NewSymbol call, regardless of description, which
// makes them usable both as collision-free registry alias keys and as values
// checked by the symbol controller.
type Symbol struct {
	d *symbolData
}

type symbolData struct {
	description string
}

// NewSymbol mints a fresh symbol. The description is cosmetic.
func NewSymbol(description string) Symbol {
	return Symbol{d: &symbolData{description: description}}
}

// Description returns the cosmetic description given at creation.
func (s Symbol) Description() string {
	if s.d == nil {
		return ""
	}
	return s.d.description
}

func (s Symbol) String() string {
	return fmt.Sprintf("Symbol(%s)", s.Description())
}
