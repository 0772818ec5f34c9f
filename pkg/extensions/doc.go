// Package extensions loads user-supplied callables from Go source files and
// adapts them to the template engine's filter and test contracts.
//
// Extension files are interpreted, not sandboxed: their code runs with full
// host privileges and standard library access. This is a trust boundary for a
// local developer tool, not a security feature.
package extensions
