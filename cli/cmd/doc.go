// Package cmd provides the civar subcommands: resolve (the default),
// which runs the full variable-resolution pipeline and writes step
// outputs, and catalog, which prints the standard-context variable
// definitions.
package cmd
