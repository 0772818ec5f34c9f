// Package j2 renders a Jinja-style text template against a structured data
// document, the way the j2 command does: load the data file into a context,
// harvest user-supplied filters and tests from extension files, execute the
// template once and write the result to stdout or a file. The process is
// single-shot and synchronous; nothing is cached or retried.
package j2
