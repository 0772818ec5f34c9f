package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-j2/pkg/render"
)

func TestFilter_StripTags(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "strip.j2", "{{ text | striptags }}")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	out, err := renderer.RenderString("strip.j2", map[string]any{
		"text": "<p>Hello   <b>World</b></p>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello World" {
		t.Fatalf("output mismatch: %q", out)
	}
}

func TestFilter_FileSizeFormat(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "size.j2", "{{ size | filesizeformat }}")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	out, err := renderer.RenderString("size.j2", map[string]any{"size": 1000000})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "1.0 MB" {
		t.Fatalf("output mismatch: %q", out)
	}
}

func TestFilter_FileSizeFormatBinary(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "size.j2", "{{ size | filesizeformat(true) }}")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	out, err := renderer.RenderString("size.j2", map[string]any{"size": 1048576})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "1.0 MiB" {
		t.Fatalf("output mismatch: %q", out)
	}
}

func TestFilter_FileSizeFormatRejectsNonNumber(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "size.j2", "{{ size | filesizeformat }}")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	if _, err := renderer.RenderString("size.j2", map[string]any{"size": "heavy"}); err == nil {
		t.Fatalf("expected error for non-numeric size")
	}
}

func TestFilter_StripTagsGolden(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "strip.j2", "{{ text | striptags }}\n")

	renderer := newRenderer(t, render.WithWorkingDir(dir))
	out, err := renderer.RenderString("strip.j2", map[string]any{
		"text": "a &amp; b",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want, err := os.ReadFile(filepath.Join("testdata", "striptags.golden"))
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if out != string(want) {
		t.Fatalf("output mismatch: %q want %q", out, want)
	}
}
