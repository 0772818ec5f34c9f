package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/goliatone/go-j2/pkg/render/template"
)

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	workingDir     string
	allowUndefined bool
	encoding       encoding.Encoding
	engine         template.Engine
}

// WithWorkingDir anchors relative template paths to dir.
func WithWorkingDir(dir string) Option {
	return func(cfg *config) {
		cfg.workingDir = strings.TrimSpace(dir)
	}
}

// WithUndefined selects the permissive undefined-variable policy: undefined
// references render as empty text instead of aborting.
func WithUndefined(allow bool) Option {
	return func(cfg *config) {
		cfg.allowUndefined = allow
	}
}

// WithEncoding sets the encoding applied when serializing rendered text to
// bytes. The default is Windows-1252; the data file is always read as UTF-8,
// and that asymmetry is deliberate.
func WithEncoding(enc encoding.Encoding) Option {
	return func(cfg *config) {
		if enc != nil {
			cfg.encoding = enc
		}
	}
}

// WithEngine injects a template engine, replacing the default gonja-backed
// one. The working-dir and undefined options only apply to the default
// engine.
func WithEngine(engine template.Engine) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

// DefaultEncoding returns the encoding used for stdout bytes unless
// overridden.
func DefaultEncoding() encoding.Encoding {
	return charmap.Windows1252
}

// EncodingByName resolves an output encoding by its IANA name, e.g.
// "windows-1252" or "UTF-8".
func EncodingByName(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("render: unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("render: encoding %q has no available codec", name)
	}
	return enc, nil
}
