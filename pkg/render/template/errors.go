package template

import "fmt"

// NotFoundError reports a template whose source could not be resolved. It is
// an engine-visible, recoverable condition so loaders with search paths can
// fall back; this module only ever has one candidate path, so it surfaces to
// the caller directly.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template: %s: not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// SyntaxError reports a template body the engine could not parse, including
// references to filters that are not registered.
type SyntaxError struct {
	Name string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template: parse %s: %v", e.Name, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// UndefinedError reports a reference to a missing context variable under the
// strict undefined policy.
type UndefinedError struct {
	Name string
	Err  error
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("template: render %s: %v", e.Name, e.Err)
}

func (e *UndefinedError) Unwrap() error { return e.Err }

// ExecError reports any other failure while executing a parsed template, such
// as a filter or test returning an error.
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("template: execute %s: %v", e.Name, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
