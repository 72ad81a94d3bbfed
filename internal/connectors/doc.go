// Package connectors provides implementations of the TranscriptSource
// interface. Each connector knows how to list and read transcripts from a
// specific kind of storage.
package connectors
