package analysis

import (
	"fmt"

	"rasqal/internal/qir"
)

// The two recognized entry-point marker spellings. Both are probed exactly;
// this is not case normalization.
var entryPointAttrs = []string{"entry_point", "EntryPoint"}

// IsEntryPoint reports whether a function carries an entry-point marker
// attribute.
func IsEntryPoint(fn *qir.Function) bool {
	for _, attr := range entryPointAttrs {
		if _, ok := fn.GetStringAttribute(attr); ok {
			return true
		}
	}
	return false
}

// ChooseEntryPoint selects exactly one function to start execution from.
//
// With a requested name, the first function whose name matches exactly is
// returned whether or not it carries an entry-point marker. With no name,
// exactly one marker-carrying function must exist; zero or several is an
// error, auto-detection never guesses.
func ChooseEntryPoint(functions []*qir.Function, name string) (*qir.Function, error) {
	if name != "" {
		for _, fn := range functions {
			if fn.Name == name {
				return fn, nil
			}
		}
		return nil, fmt.Errorf("no function named %q", name)
	}

	var entryPoints []*qir.Function
	for _, fn := range functions {
		if IsEntryPoint(fn) {
			entryPoints = append(entryPoints, fn)
		}
	}
	switch len(entryPoints) {
	case 0:
		return nil, fmt.Errorf("no entry points found")
	case 1:
		return entryPoints[0], nil
	default:
		return nil, fmt.Errorf("ambiguous entry point, specify a name")
	}
}
