// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TranscriptSource: Lists and reads raw transcripts
//   - Normaliser: Rewrites raw transcripts into canonical annotated text
//   - Segmenter: Cuts canonical text into chunks
//   - ChunkPipeline: Runs chunk processors such as the quality filter
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChunkStore: Run persistence. Without it, runs are not recorded.
//   - Exporter: Output documents. Without it, results stay in memory.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
