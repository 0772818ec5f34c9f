// Package datafile loads the structured data document a template is rendered
// against. Documents are YAML (which covers JSON) and must have a mapping at
// the root; the parsed tree is built once per invocation and never mutated
// afterwards.
package datafile
