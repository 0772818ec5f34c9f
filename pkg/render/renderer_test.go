package render_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-j2/pkg/render"
)

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "hello.j2", "Hello {{ name }}!\n")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	out, err := renderer.RenderString("hello.j2", map[string]any{"name": "World"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello World!\n" {
		t.Fatalf("output mismatch: %q", out)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "list.j2", "{% for item in items %}{{ item }},{% endfor %}\n")
	data := map[string]any{"items": []any{"a", "b", "c"}}

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	first, err := renderer.Render("list.j2", data)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := renderer.Render("list.j2", data)
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("render %d differs: %q vs %q", i, first, again)
		}
	}
}

func TestRenderer_PermissiveUndefined(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "hello.j2", "Hello {{ name }}!\n")

	renderer := newRenderer(t, render.WithWorkingDir(dir), render.WithUndefined(true))
	out, err := renderer.RenderString("hello.j2", map[string]any{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello !\n" {
		t.Fatalf("output mismatch: %q", out)
	}
}

func TestRenderer_StrictUndefined(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "hello.j2", "Hello {{ name }}!\n")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	_, err := renderer.RenderString("hello.j2", map[string]any{})
	var undefined *render.UndefinedVariableError
	if !errors.As(err, &undefined) {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
}

func TestRenderer_TrailingNewline(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "with.j2", "value: {{ n }}\n")
	writeTemplate(t, dir, "without.j2", "value: {{ n }}")
	data := map[string]any{"n": 1}

	renderer := newRenderer(t, render.WithWorkingDir(dir))

	out, err := renderer.RenderString("with.j2", data)
	if err != nil {
		t.Fatalf("render with: %v", err)
	}
	if out != "value: 1\n" {
		t.Fatalf("trailing newline not preserved: %q", out)
	}

	out, err = renderer.RenderString("without.j2", data)
	if err != nil {
		t.Fatalf("render without: %v", err)
	}
	if out != "value: 1" {
		t.Fatalf("unexpected trailing bytes: %q", out)
	}
}

func TestRenderer_UnknownFilter(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "bad.j2", "{{ name | nosuchfilter }}")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	_, err := renderer.RenderString("bad.j2", map[string]any{"name": "x"})
	var syntaxErr *render.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}

func TestRenderer_MalformedTemplate(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "bad.j2", "{% if broken %}no end")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	_, err := renderer.RenderString("bad.j2", map[string]any{"broken": true})
	var syntaxErr *render.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}

func TestRenderer_TemplateNotFound(t *testing.T) {
	renderer := newRenderer(t, render.WithWorkingDir(t.TempDir()))
	_, err := renderer.RenderString("missing.j2", map[string]any{})
	var notFound *render.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRenderer_RegisterFilter(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "shout.j2", "{{ name | shout }}")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	err := renderer.RegisterFilters(map[string]render.FilterFunc{
		"shout": func(in any, _ ...any) (any, error) {
			return "HEY " + in.(string), nil
		},
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	out, err := renderer.RenderString("shout.j2", map[string]any{"name": "you"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "HEY you" {
		t.Fatalf("output mismatch: %q", out)
	}
}

func TestRenderer_RegisterTest(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "test.j2", "{% if n is big %}BIG{% else %}small{% endif %}")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	err := renderer.RegisterTests(map[string]render.TestFunc{
		"big": func(in any, _ ...any) (bool, error) {
			n, ok := in.(int)
			return ok && n > 3, nil
		},
	})
	if err != nil {
		t.Fatalf("register test: %v", err)
	}

	out, err := renderer.RenderString("test.j2", map[string]any{"n": 5})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "BIG" {
		t.Fatalf("output mismatch: %q", out)
	}
}

func TestRenderer_EncodedOutput(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "word.j2", "{{ word }}\n")

	// Default output encoding is Windows-1252: é must come out as 0xE9.
	renderer := newRenderer(t, render.WithWorkingDir(dir))
	out, err := renderer.Render("word.j2", map[string]any{"word": "café"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []byte{'c', 'a', 'f', 0xE9, '\n'}
	if !bytes.Equal(out, want) {
		t.Fatalf("encoded bytes mismatch: %v", out)
	}
}

func TestEncodingByName(t *testing.T) {
	if _, err := render.EncodingByName("windows-1252"); err != nil {
		t.Fatalf("windows-1252 should resolve: %v", err)
	}
	if _, err := render.EncodingByName("no-such-charset"); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func newRenderer(t *testing.T, options ...render.Option) *render.Renderer {
	t.Helper()
	renderer, err := render.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}
