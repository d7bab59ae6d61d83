// Package cli contains the command line interface for civar.
//
// # Usage
//
// The CLI resolves CI pipeline variables from three sources: static
// key=value declarations, Jinja-style expressions, and the standard
// context derived from the ambient GitHub Actions event. Inputs bind
// both to flags and to the INPUT_* environment variables GitHub uses
// to pass action inputs, so the same binary serves flag-driven local
// runs and env-driven action runs:
//
//	civar --static-inputs 'env=prod' --jinja-inputs "user = login or 'guest'"
//	INPUT_STATIC_INPUTS='env=prod' civar
//
// # Commands
//
//   - resolve (default): run the full resolution pipeline and write
//     step outputs
//   - catalog: print the standard-context variable catalog
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o civar .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/civar/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	civar --log-level=debug --pprof-mode=cpu
//
//	# Inspect the standard-context catalog
//	civar catalog --format=yaml
package cli
