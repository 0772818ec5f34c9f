package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-j2/pkg/render/template"
)

// tagPolicy strips every element and attribute; bluemonday policies are
// immutable after construction and safe to share.
var tagPolicy = bluemonday.StrictPolicy()

// extraFilters returns the built-in filters installed on every renderer,
// overriding same-named engine builtins.
func extraFilters() map[string]template.FilterFunc {
	return map[string]template.FilterFunc{
		"striptags":      filterStripTags,
		"filesizeformat": filterFileSizeFormat,
	}
}

// filterStripTags removes markup, resolves entities and collapses runs of
// whitespace into single spaces.
func filterStripTags(in any, _ ...any) (any, error) {
	if in == nil {
		return "", nil
	}
	stripped := html.UnescapeString(tagPolicy.Sanitize(fmt.Sprint(in)))
	return strings.Join(strings.Fields(stripped), " "), nil
}

// filterFileSizeFormat renders a byte count for humans, decimal by default
// ("1.0 MB"); a true argument switches to binary units ("1.0 MiB").
func filterFileSizeFormat(in any, args ...any) (any, error) {
	size, err := toUint64(in)
	if err != nil {
		return nil, fmt.Errorf("filesizeformat: %w", err)
	}
	binary := false
	if len(args) > 0 {
		b, ok := args[0].(bool)
		if !ok {
			return nil, fmt.Errorf("filesizeformat: binary argument must be a boolean, got %T", args[0])
		}
		binary = b
	}
	if binary {
		return humanize.IBytes(size), nil
	}
	return humanize.Bytes(size), nil
}

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative size %d", n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("negative size %d", n)
		}
		return uint64(n), nil
	case uint64:
		return n, nil
	case float64:
		if n < 0 {
			return 0, fmt.Errorf("negative size %v", n)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
