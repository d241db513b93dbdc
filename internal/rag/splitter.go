// Package rag holds the retrieval half of the legal assistant: document
// loading, chunking, vector search and prompt assembly.
package rag

import (
	"github.com/tmc/langchaingo/textsplitter"
)

// DefaultSeparators are tried in order, from paragraph down to single characters
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts text into overlapping chunks of at most ChunkSize characters,
// preferring to break on the earliest separator that occurs in the text.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

// NewSplitter returns a splitter with the default separators
func NewSplitter(chunkSize, overlap int) Splitter {
	return Splitter{inner: textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(DefaultSeparators),
	)}
}

// Split returns the chunks of text in order
func (s Splitter) Split(text string) ([]string, error) {
	return s.inner.SplitText(text)
}
