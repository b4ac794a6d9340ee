// Package profile provides optional runtime profiling for markex.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at
// build time with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag every operation is a no-op with zero overhead. When
// enabled, the --pprof-* command-line flags select a mode and output
// directory; profile files are written with names matching the mode
// (cpu.pprof, heap.pprof, ...) for analysis with go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
