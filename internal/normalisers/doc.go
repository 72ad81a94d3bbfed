// Package normalisers provides implementations of the Normaliser interface.
// Each normaliser rewrites one transcript format into canonical annotated
// lines; the transcript normaliser handles the "Speaker (HH:MM:SS):" style
// used by podcast transcripts.
package normalisers
