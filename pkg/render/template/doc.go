// Package template defines the engine-agnostic template capability this
// module renders through. It specifies the configuration surface and the
// filter/test call contracts, not a template grammar; any Jinja-style engine
// can sit behind it.
package template
