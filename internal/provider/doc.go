// Package provider runs an operator-configured AI command-line tool with a
// prompt on its standard input.
//
// A run writes the prompt to a private temporary file, spawns the provider
// with that file as stdin, captures stdout and stderr as one stream and
// enforces an optional deadline that terminates the provider's whole process
// tree. A non-zero exit is a valid ExecutionResult; only configuration and
// resource faults are returned as errors.
package provider
