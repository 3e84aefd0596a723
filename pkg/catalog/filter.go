package catalog

import "slices"

// Filter selects packages and modules. The zero Filter matches every
// package; an empty Type selects no modules, matching the behaviour of a
// type-less module query.
type Filter struct {
	// Type is the module type to select.
	Type string
	// Packages restricts the package names; empty means any.
	Packages []string
	// Modules restricts the module names within Type; empty means any.
	Modules []string
}

// TypeFilter returns a Filter selecting a single module type.
func TypeFilter(typ string) Filter {
	return Filter{Type: typ}
}

// IsZero reports whether the filter has no constraints.
func (f Filter) IsZero() bool {
	return f.Type == "" && len(f.Packages) == 0 && len(f.Modules) == 0
}

// Match reports whether value satisfies names: no names match everything,
// one name is an equality test, several names are a membership test.
func Match(value string, names []string) bool {
	switch len(names) {
	case 0:
		return true
	case 1:
		return value == names[0]
	default:
		return slices.Contains(names, value)
	}
}
