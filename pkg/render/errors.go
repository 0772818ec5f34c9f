package render

import "github.com/goliatone/go-j2/pkg/render/template"

// FilterFunc aliases the engine filter contract for callers registering
// filters through the renderer.
type FilterFunc = template.FilterFunc

// TestFunc aliases the engine test contract.
type TestFunc = template.TestFunc

// NotFoundError reports a template whose source file could not be resolved.
type NotFoundError = template.NotFoundError

// SyntaxError reports a template body the engine could not parse, including
// references to unregistered filters.
type SyntaxError = template.SyntaxError

// UndefinedVariableError reports a reference to a missing context variable
// under the strict undefined policy.
type UndefinedVariableError = template.UndefinedError

// ExecError reports any other failure while executing a parsed template.
type ExecError = template.ExecError
