package extensions

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/goliatone/go-j2/pkg/render/template"
)

// LoadError reports an extension file that could not be read or interpreted.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("extensions: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options configure a single Load call. Build a fresh value per call; nothing
// is shared between loads.
type Options struct {
	// GoPath is handed to the interpreter for resolving imports beyond the
	// standard library. Empty means none.
	GoPath string
	// WithoutStdlib withholds the standard library from interpreted code.
	WithoutStdlib bool
}

// DefaultOptions returns the options used by the command-line pipeline.
func DefaultOptions() Options {
	return Options{}
}

// Load interprets the Go source file at path as an isolated unit of code and
// harvests every exported top-level function, keyed by its name with the
// first rune lowered ("Upper" becomes "upper") to match template naming
// conventions. A file that defines no functions yields an empty map.
func Load(path string, opts Options) (map[string]Func, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	pkgName, err := packageName(path, source)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	i := interp.New(interp.Options{GoPath: opts.GoPath})
	if !opts.WithoutStdlib {
		if err := i.Use(stdlib.Symbols); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
	}
	if _, err := i.Eval(string(source)); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	funcs := make(map[string]Func)
	for pkg, symbols := range i.Symbols(pkgName) {
		if pkg != pkgName && !strings.HasSuffix(pkg, "/"+pkgName) {
			continue
		}
		for symbol, value := range symbols {
			if value.Kind() != reflect.Func {
				continue
			}
			name := lowerFirst(symbol)
			funcs[name] = Func{name: name, symbol: symbol, fn: value}
		}
	}
	return funcs, nil
}

// Filters adapts a harvested set to the engine's filter registration shape.
func Filters(funcs map[string]Func) map[string]template.FilterFunc {
	out := make(map[string]template.FilterFunc, len(funcs))
	for name, fn := range funcs {
		out[name] = fn.Filter()
	}
	return out
}

// Tests adapts a harvested set to the engine's test registration shape.
func Tests(funcs map[string]Func) map[string]template.TestFunc {
	out := make(map[string]template.TestFunc, len(funcs))
	for name, fn := range funcs {
		out[name] = fn.Test()
	}
	return out
}

func packageName(path string, source []byte) (string, error) {
	file, err := parser.ParseFile(token.NewFileSet(), path, source, parser.PackageClauseOnly)
	if err != nil {
		return "", err
	}
	return file.Name.Name, nil
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return name
	}
	return string(unicode.ToLower(first)) + name[size:]
}
