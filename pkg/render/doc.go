// Package render owns the configured template engine for one invocation:
// undefined-variable policy, output encoding and the fixed syntax extension
// set, plus registration of user-supplied filters and tests.
package render
