// Package index holds the in-memory help corpus used for similarity search.
// A Snapshot is immutable; rebuilding the corpus swaps in a new one.
package index

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

type Chunk struct {
	ID                string
	SourceTitle       string
	Text              string
	UnderConstruction bool
	Embedding         []float32
}

// Scored is a chunk with its cosine similarity to a query. Order is the
// chunk's position in the corpus and breaks score ties.
type Scored struct {
	Chunk Chunk
	Score float64
	Order int
}

type Snapshot struct {
	chunks    []Chunk
	norms     []float64
	dimension int
	BuiltAt   time.Time
}

// NewSnapshot validates that every chunk has the same non-zero dimension.
func NewSnapshot(chunks []Chunk) (*Snapshot, error) {
	s := &Snapshot{chunks: make([]Chunk, len(chunks)), norms: make([]float64, len(chunks)), BuiltAt: time.Now()}
	copy(s.chunks, chunks)
	for i, c := range s.chunks {
		if len(c.Embedding) == 0 {
			return nil, fmt.Errorf("chunk %s has no embedding", c.ID)
		}
		if s.dimension == 0 {
			s.dimension = len(c.Embedding)
		}
		if len(c.Embedding) != s.dimension {
			return nil, fmt.Errorf("chunk %s has dimension %d, want %d", c.ID, len(c.Embedding), s.dimension)
		}
		s.norms[i] = norm(c.Embedding)
	}
	return s, nil
}

func (s *Snapshot) Len() int       { return len(s.chunks) }
func (s *Snapshot) Dimension() int { return s.dimension }

// Score computes the cosine similarity of query against every chunk, in
// corpus order. A query of the wrong dimension matches nothing.
func (s *Snapshot) Score(query []float32) []Scored {
	if len(query) != s.dimension || s.dimension == 0 {
		return nil
	}
	qn := norm(query)
	if qn == 0 {
		return nil
	}
	out := make([]Scored, len(s.chunks))
	for i, c := range s.chunks {
		var dot float64
		for j, v := range c.Embedding {
			dot += float64(v) * float64(query[j])
		}
		score := 0.0
		if s.norms[i] > 0 {
			score = dot / (s.norms[i] * qn)
		}
		out[i] = Scored{Chunk: c, Score: score, Order: i}
	}
	return out
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Index publishes the current snapshot to concurrent readers.
type Index struct {
	current atomic.Pointer[Snapshot]
}

func New() *Index {
	idx := &Index{}
	empty, _ := NewSnapshot(nil)
	idx.current.Store(empty)
	return idx
}

func (i *Index) Snapshot() *Snapshot {
	return i.current.Load()
}

func (i *Index) Swap(s *Snapshot) {
	i.current.Store(s)
}
