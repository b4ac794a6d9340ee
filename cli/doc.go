// Package cli contains the command line interface for markex.
//
// # Commands
//
//   - rewrite (default): parse source modules and print each item with
//     embedded markup lowered to document constructor calls
//   - elements: list the element vocabulary per namespace, with optional
//     fuzzy filtering
//   - repl: interactive line-at-a-time transform preview
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-caller: include caller information
//   - --log-pretty: colorized pretty printing for text format
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (cpu, heap, allocs, trace, ...)
//   - --pprof-dir: profile output directory
package cli
