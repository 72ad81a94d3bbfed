// Package domain defines the core business entities for podchunk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawTranscript: Transcript bytes read from a source
//   - AnnotatedLine: One line of the canonical speaker/time annotated text
//   - Chunk: A run of speech attributed to one speaker and start time
//   - FilterConfig: Tunables for the quality filter
//   - RunResult: The outcome of one pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
