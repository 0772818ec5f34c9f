package j2

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/goliatone/go-j2/pkg/datafile"
	"github.com/goliatone/go-j2/pkg/extensions"
	"github.com/goliatone/go-j2/pkg/render"
	"github.com/goliatone/go-j2/pkg/render/template"
)

// Context aliases the data document tree; exported via the root package for
// convenience.
type Context = datafile.Context

// FilterFunc aliases the engine filter contract.
type FilterFunc = template.FilterFunc

// TestFunc aliases the engine test contract.
type TestFunc = template.TestFunc

// ArgumentError reports a malformed invocation. The command maps it to exit
// status 1.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return "j2: " + e.Msg }

// Request describes one render invocation.
type Request struct {
	// TemplatePath locates the template file, relative to WorkingDir unless
	// absolute.
	TemplatePath string
	// DataPath locates the YAML or JSON data document. Required.
	DataPath string
	// FilterFiles and TestFiles are Go source files whose exported functions
	// are registered as filters and tests respectively.
	FilterFiles []string
	TestFiles   []string
	// CustomizePath is accepted for command-line compatibility; the hook it
	// reserves has no behavior yet.
	CustomizePath string
	// AllowUndefined selects the permissive undefined-variable policy.
	AllowUndefined bool
	// OutputPath, when set, receives the rendered text as UTF-8 and stdout
	// receives nothing.
	OutputPath string
	// Encoding overrides the stdout byte encoding. Nil means Windows-1252.
	Encoding encoding.Encoding
	// WorkingDir anchors relative template paths. Empty means the process
	// working directory.
	WorkingDir string
}

// Run executes the full pipeline: parse the data document, load extension
// files, render the template and write the result to the requested sink. The
// context and both registries are fully built before the render starts.
func Run(ctx context.Context, req Request, stdout io.Writer) error {
	if strings.TrimSpace(req.TemplatePath) == "" {
		return &ArgumentError{Msg: "template file is required"}
	}
	if strings.TrimSpace(req.DataPath) == "" {
		return &ArgumentError{Msg: "data file is required"}
	}

	data, err := datafile.Load(ctx, req.DataPath)
	if err != nil {
		return err
	}

	options := []render.Option{
		render.WithWorkingDir(req.WorkingDir),
		render.WithUndefined(req.AllowUndefined),
	}
	if req.Encoding != nil {
		options = append(options, render.WithEncoding(req.Encoding))
	}
	renderer, err := render.New(options...)
	if err != nil {
		return err
	}

	for _, path := range req.FilterFiles {
		funcs, err := extensions.Load(path, extensions.DefaultOptions())
		if err != nil {
			return err
		}
		if err := renderer.RegisterFilters(extensions.Filters(funcs)); err != nil {
			return err
		}
	}
	for _, path := range req.TestFiles {
		funcs, err := extensions.Load(path, extensions.DefaultOptions())
		if err != nil {
			return err
		}
		if err := renderer.RegisterTests(extensions.Tests(funcs)); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if req.OutputPath != "" {
		out, err := renderer.RenderString(req.TemplatePath, data)
		if err != nil {
			return err
		}
		if err := os.WriteFile(req.OutputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("j2: write %s: %w", req.OutputPath, err)
		}
		return nil
	}

	out, err := renderer.Render(req.TemplatePath, data)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("j2: write output: %w", err)
	}
	return nil
}
