// Package dld is the call surface of dynamically loaded numerical functions:
// a registry of named functions taking positional arguments and returning
// positional results, with fixed-arity checking and argument conversion.
//
// A call with the wrong number of arguments fails with a [*UsageError]
// before the function body runs.
package dld
