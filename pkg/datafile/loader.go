package datafile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Context is the variable namespace a template renders against: string keys
// mapping to scalars (string, number, bool, nil), sequences ([]any) or nested
// mappings of the same shape.
type Context map[string]any

// NotFoundError reports a data file that does not exist or could not be
// opened.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("datafile: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// FormatError reports a document that could not be parsed into a context
// tree.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("datafile: parse %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Load reads the document at path and parses it into a Context. An empty or
// null document yields an empty Context. Mapping keys must be scalar and
// unique; anything else is a FormatError.
func Load(ctx context.Context, path string) (Context, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("datafile: path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("datafile: read %s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return Context{}, nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind == 0 {
		return Context{}, nil
	}

	value, err := decodeNode(doc)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	if value == nil {
		return Context{}, nil
	}
	mapping, ok := value.(map[string]any)
	if !ok {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("document root must be a mapping, got %s", kindName(doc.Kind))}
	}
	return Context(mapping), nil
}

func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.ScalarNode:
		var out any
		if err := node.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			var key string
			if err := keyNode.Decode(&key); err != nil {
				return nil, fmt.Errorf("line %d: decode mapping key: %w", keyNode.Line, err)
			}
			if _, exists := out[key]; exists {
				return nil, fmt.Errorf("line %d: duplicate mapping key %q", keyNode.Line, key)
			}
			value, err := decodeNode(valueNode)
			if err != nil {
				return nil, err
			}
			out[key] = value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind", node.Line)
	}
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
