// Package gonja adapts the gonja template engine to the template.Engine
// contract used by the render pipeline.
package gonja

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nikolalohinski/gonja/v2/builtins"
	"github.com/nikolalohinski/gonja/v2/config"
	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/nikolalohinski/gonja/v2/parser"

	"github.com/goliatone/go-j2/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*cfg)

type cfg struct {
	workingDir      string
	strictUndefined bool
	extensions      []string
}

// WithWorkingDir anchors relative template paths to dir.
func WithWorkingDir(dir string) Option {
	return func(c *cfg) {
		c.workingDir = strings.TrimSpace(dir)
	}
}

// WithStrictUndefined makes any reference to a missing context variable abort
// rendering. When off, undefined references render as empty text.
func WithStrictUndefined(strict bool) Option {
	return func(c *cfg) {
		c.strictUndefined = strict
	}
}

// WithExtensions overrides the syntax extensions installed into the engine.
func WithExtensions(names ...string) Option {
	return func(c *cfg) {
		c.extensions = append([]string(nil), names...)
	}
}

// Engine executes Jinja-style templates through gonja. Each instance owns a
// private environment: the builtin filter, test and control-structure sets
// are copied at construction so registration never leaks into other
// instances.
type Engine struct {
	config      *config.Config
	loader      *fileLoader
	environment *exec.Environment
	strict      bool
}

// Ensure Engine satisfies the engine capability contract.
var _ template.Engine = (*Engine)(nil)

// New constructs an Engine. The template's own trailing newline is preserved
// exactly as authored; gonja never strips it.
func New(options ...Option) (*Engine, error) {
	c := &cfg{
		workingDir: ".",
		extensions: DefaultExtensions(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.workingDir == "" {
		c.workingDir = "."
	}

	conf := config.New()
	conf.StrictUndefined = c.strictUndefined

	environment := &exec.Environment{
		Context:           exec.EmptyContext().Update(builtins.GlobalFunctions),
		Filters:           exec.NewFilterSet(map[string]exec.FilterFunction{}).Update(builtins.Filters),
		Tests:             exec.NewTestSet(map[string]exec.TestFunction{}).Update(builtins.Tests),
		ControlStructures: exec.NewControlStructureSet(map[string]parser.ControlStructureParser{}).Update(builtins.ControlStructures),
		Methods:           builtins.Methods,
	}

	engine := &Engine{
		config:      conf,
		loader:      newFileLoader(c.workingDir),
		environment: environment,
		strict:      c.strictUndefined,
	}
	for _, name := range c.extensions {
		install, ok := extensionInstallers[name]
		if !ok {
			return nil, fmt.Errorf("gonja: unknown extension %q", name)
		}
		if err := install(engine); err != nil {
			return nil, fmt.Errorf("gonja: install extension %q: %w", name, err)
		}
	}
	return engine, nil
}

// Render resolves name through the file loader, executes the template against
// data and writes the result to out. The template is read and parsed on every
// call; nothing is cached between renders.
func (e *Engine) Render(out io.Writer, name string, data map[string]any) error {
	if e == nil || e.environment == nil {
		return errors.New("gonja: engine is nil")
	}

	// Probe the source first so a missing file surfaces as the recoverable
	// not-found condition instead of a parse failure.
	if _, err := e.loader.Read(name); err != nil {
		return &template.NotFoundError{Name: name, Err: err}
	}

	tpl, err := exec.NewTemplate(name, e.config, e.loader, e.environment)
	if err != nil {
		return &template.SyntaxError{Name: name, Err: err}
	}

	if data == nil {
		data = map[string]any{}
	}
	if err := tpl.Execute(out, exec.NewContext(data)); err != nil {
		return e.classifyExecuteError(name, err)
	}
	return nil
}

// classifyExecuteError sorts execution failures into the render error
// taxonomy. The engine resolves filter and test names while executing, not
// while parsing, so a reference to an unregistered one is reported here; it
// is still a malformed-template condition. gonja reports strict-undefined
// failures as plain execution errors without a sentinel type, so under the
// strict policy the remaining execution failures are surfaced as
// undefined-variable errors with the engine message preserved.
func (e *Engine) classifyExecuteError(name string, err error) error {
	if errors.Is(err, errLoopBreak) || errors.Is(err, errLoopContinue) {
		return &template.ExecError{Name: name, Err: err}
	}
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "not found") &&
		(strings.Contains(message, "filter") || strings.Contains(message, "test")) {
		return &template.SyntaxError{Name: name, Err: err}
	}
	if e.strict {
		return &template.UndefinedError{Name: name, Err: err}
	}
	return &template.ExecError{Name: name, Err: err}
}

// RegisterFilter merges fn into the engine's filter namespace. An existing
// filter with the same name is replaced.
func (e *Engine) RegisterFilter(name string, fn template.FilterFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gonja: filter name and function required")
	}
	wrapped := func(ev *exec.Evaluator, in *exec.Value, params *exec.VarArgs) *exec.Value {
		out, err := fn(in.Interface(), valueArgs(params)...)
		if err != nil {
			return exec.AsValue(fmt.Errorf("filter %q: %w", name, err))
		}
		return exec.AsValue(out)
	}
	set := e.environment.Filters
	if set.Exists(name) {
		return set.Replace(name, wrapped)
	}
	return set.Register(name, wrapped)
}

// RegisterTest merges fn into the engine's test namespace. An existing test
// with the same name is replaced.
func (e *Engine) RegisterTest(name string, fn template.TestFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gonja: test name and function required")
	}
	wrapped := func(ctx *exec.Context, in *exec.Value, params *exec.VarArgs) (bool, error) {
		ok, err := fn(in.Interface(), valueArgs(params)...)
		if err != nil {
			return false, fmt.Errorf("test %q: %w", name, err)
		}
		return ok, nil
	}
	set := e.environment.Tests
	if set.Exists(name) {
		return set.Replace(name, wrapped)
	}
	return set.Register(name, wrapped)
}

func valueArgs(params *exec.VarArgs) []any {
	if params == nil || len(params.Args) == 0 {
		return nil
	}
	out := make([]any, 0, len(params.Args))
	for _, arg := range params.Args {
		out = append(out, arg.Interface())
	}
	return out
}
