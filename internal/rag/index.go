package rag

import (
	"math"
	"sort"
)

// Chunk is one embedded piece of a source document
type Chunk struct {
	Source string
	Page   int // 1-based PDF page, 0 for text files
	Index  int
	Text   string
	Vector []float32
}

// Index is an in-memory vector index searched by cosine similarity.
// It is built once at startup and read-only afterwards.
type Index struct {
	chunks []Chunk
}

// NewIndex creates an index over chunks
func NewIndex(chunks []Chunk) *Index {
	return &Index{chunks: chunks}
}

// Len returns the number of chunks
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.chunks)
}

type scored struct {
	pos   int
	score float64
}

// TopK returns the k chunks most similar to query, best first.
// Ties keep document order.
func (idx *Index) TopK(query []float32, k int) []Chunk {
	if idx.Len() == 0 || k <= 0 {
		return nil
	}

	scores := make([]scored, len(idx.chunks))
	for i, c := range idx.chunks {
		scores[i] = scored{pos: i, score: Cosine(query, c.Vector)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]Chunk, k)
	for i := 0; i < k; i++ {
		out[i] = idx.chunks[scores[i].pos]
	}
	return out
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
