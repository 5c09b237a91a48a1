// Package ir defines the typed intermediate representation for operations
// and fragments: selection trees, their value/variable sub-language, and
// the directives sub-language (spec.md §3).
package ir

import "github.com/viant/queryc/intern"

// Location is (file_key, start_byte, end_byte) plus an optional "generated"
// marker, per spec.md §3. Every user-visible diagnostic carries at least
// one.
type Location struct {
	FileKey   intern.ID
	Start     int
	End       int
	Generated bool
}

// GeneratedAt returns a synthetic Location for nodes introduced by a
// transform rather than traced back to source text (e.g. an injected
// __typename selection).
func GeneratedAt(fileKey intern.ID) Location {
	return Location{FileKey: fileKey, Generated: true}
}

// WithLocation pairs a value with the Location it came from, used
// throughout the IR so every sub-node can point back to source.
type WithLocation[T any] struct {
	Value    T
	Location Location
}

// At constructs a WithLocation pair.
func At[T any](v T, loc Location) WithLocation[T] {
	return WithLocation[T]{Value: v, Location: loc}
}
