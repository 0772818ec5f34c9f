package template

import "io"

// FilterFunc is the call contract for a filter: a named transform applied to
// the piped value, with any extra template arguments passed positionally.
type FilterFunc func(in any, args ...any) (any, error)

// TestFunc is the call contract for a test: a named predicate usable in
// template conditionals ("value is odd").
type TestFunc func(in any, args ...any) (bool, error)

// Engine is the slice of a template engine the render pipeline relies on:
// resolve a template by name, execute it against a variable namespace, and
// accept merge-in filter/test registration. Registration is last-write-wins
// and performs no arity or signature validation.
type Engine interface {
	Render(out io.Writer, name string, data map[string]any) error
	RegisterFilter(name string, fn FilterFunc) error
	RegisterTest(name string, fn TestFunc) error
}
