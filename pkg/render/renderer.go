package render

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding"

	"github.com/goliatone/go-j2/pkg/render/template"
	gonjaengine "github.com/goliatone/go-j2/pkg/render/template/gonja"
)

// Renderer executes one template per invocation through a configured engine
// and serializes the result to bytes. The engine, its filter/test namespaces
// and the output encoding are fixed at construction; only registration
// mutates state, and rendering never does.
type Renderer struct {
	engine   template.Engine
	encoding encoding.Encoding
}

// New constructs a Renderer. Without WithEngine it builds a gonja-backed
// engine with the fixed extension set (i18n, do, loopcontrols) and the extra
// built-in filters installed.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{
		workingDir: ".",
		encoding:   DefaultEncoding(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine := cfg.engine
	if engine == nil {
		built, err := gonjaengine.New(
			gonjaengine.WithWorkingDir(cfg.workingDir),
			gonjaengine.WithStrictUndefined(!cfg.allowUndefined),
			gonjaengine.WithExtensions(gonjaengine.DefaultExtensions()...),
		)
		if err != nil {
			return nil, fmt.Errorf("render: create engine: %w", err)
		}
		engine = built
	}

	renderer := &Renderer{engine: engine, encoding: cfg.encoding}
	if err := renderer.RegisterFilters(extraFilters()); err != nil {
		return nil, err
	}
	return renderer, nil
}

// RegisterFilters merges filters into the engine namespace. Last write wins
// on name collision; no arity or signature validation is performed.
func (r *Renderer) RegisterFilters(filters map[string]template.FilterFunc) error {
	if r == nil || r.engine == nil {
		return errors.New("render: renderer is nil")
	}
	for name, fn := range filters {
		if err := r.engine.RegisterFilter(name, fn); err != nil {
			return fmt.Errorf("render: register filter %q: %w", name, err)
		}
	}
	return nil
}

// RegisterTests merges tests into the engine namespace with the same
// collision semantics as RegisterFilters.
func (r *Renderer) RegisterTests(tests map[string]template.TestFunc) error {
	if r == nil || r.engine == nil {
		return errors.New("render: renderer is nil")
	}
	for name, fn := range tests {
		if err := r.engine.RegisterTest(name, fn); err != nil {
			return fmt.Errorf("render: register test %q: %w", name, err)
		}
	}
	return nil
}

// RenderString executes the template at name against data and returns the
// rendered text. The template's trailing newline is preserved exactly as
// authored.
func (r *Renderer) RenderString(name string, data map[string]any) (string, error) {
	if r == nil || r.engine == nil {
		return "", errors.New("render: renderer is nil")
	}
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render executes the template and returns the result serialized with the
// configured output encoding.
func (r *Renderer) Render(name string, data map[string]any) ([]byte, error) {
	out, err := r.RenderString(name, data)
	if err != nil {
		return nil, err
	}
	encoded, err := r.encoding.NewEncoder().Bytes([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("render: encode output: %w", err)
	}
	return encoded, nil
}
