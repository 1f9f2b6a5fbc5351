package coordinates

import "fmt"

type indexerKind int

const (
	indexerSlice indexerKind = iota
	indexerList
)

// Indexer is a positional index into a backing coordinate sequence: a
// compact (from, to, step) slice when the positions are evenly spaced, or an
// explicit position list otherwise. Selection results use the slice form
// whenever it is representable.
type Indexer struct {
	kind indexerKind
	from int
	to   int
	step int
	list []int
}

// SliceIndexer covers positions from, from+step, ... below to. step must be
// positive; an empty range is allowed.
func SliceIndexer(from, to, step int) Indexer {
	if step <= 0 {
		step = 1
	}
	if to < from {
		to = from
	}
	return Indexer{kind: indexerSlice, from: from, to: to, step: step}
}

func ListIndexer(positions []int) Indexer {
	out := make([]int, len(positions))
	copy(out, positions)
	return Indexer{kind: indexerList, list: out}
}

// Slice reports the compact form; ok is false for list indexers.
func (ix Indexer) Slice() (from, to, step int, ok bool) {
	if ix.kind != indexerSlice {
		return 0, 0, 0, false
	}
	return ix.from, ix.to, ix.step, true
}

// List materializes the covered positions in order.
func (ix Indexer) List() []int {
	if ix.kind == indexerList {
		out := make([]int, len(ix.list))
		copy(out, ix.list)
		return out
	}
	var out []int
	for i := ix.from; i < ix.to; i += ix.step {
		out = append(out, i)
	}
	return out
}

func (ix Indexer) Len() int {
	if ix.kind == indexerList {
		return len(ix.list)
	}
	n := ix.to - ix.from
	return (n + ix.step - 1) / ix.step
}

// Apply extracts the indexed values from a backing sequence.
func (ix Indexer) Apply(values []Value) ([]Value, error) {
	positions := ix.List()
	out := make([]Value, 0, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(values) {
			return nil, fmt.Errorf("%w: position %d of %d", ErrIndexOutOfRange, p, len(values))
		}
		out = append(out, values[p])
	}
	return out, nil
}
