package coordinates

import (
	"fmt"
	"iter"
	"strings"
)

// StackedCoordinates ties two or more equally sized dimensions together into
// tuples along a shared axis, such as (lat, lon) pairs along an orbit track.
type StackedCoordinates struct {
	comps []Coordinates1d
}

// NewStackedCoordinates stacks the given dimensions. At least two components
// of equal size are required; options fill in properties the components do
// not set themselves.
func NewStackedCoordinates(comps []Coordinates1d, opts ...Option) (*StackedCoordinates, error) {
	if len(comps) < 2 {
		return nil, fmt.Errorf("%w: stacking needs at least 2 dimensions, got %d",
			ErrInvalidCoords, len(comps))
	}

	s := &StackedCoordinates{comps: make([]Coordinates1d, len(comps))}
	seen := map[string]bool{}
	for i, comp := range comps {
		if comp.Size() != comps[0].Size() {
			return nil, fmt.Errorf("%w: stacked sizes %d and %d",
				ErrSizeMismatch, comps[0].Size(), comp.Size())
		}
		if name := comp.Name(); name != "" {
			if seen[name] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateDim, name)
			}
			seen[name] = true
		}
		cp, err := comp.Copy()
		if err != nil {
			return nil, err
		}
		s.comps[i] = cp
	}

	// options apply as defaults, only to components without their own value
	var defaults properties
	for _, opt := range opts {
		opt(&defaults)
	}
	for _, comp := range s.comps {
		p := comp.props()
		if p.ctype == "" {
			p.ctype = defaults.ctype
		}
		if p.crs == "" {
			p.crs = defaults.crs
		}
		if err := p.validate(comp.Dtype()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dims returns the component names in order, "?" for unnamed components.
func (s *StackedCoordinates) Dims() []string {
	dims := make([]string, len(s.comps))
	for i, comp := range s.comps {
		if dims[i] = comp.Name(); dims[i] == "" {
			dims[i] = "?"
		}
	}
	return dims
}

// Name joins the component names with underscores, e.g. "lat_lon".
func (s *StackedCoordinates) Name() string {
	return strings.Join(s.Dims(), "_")
}

// SetName names all components at once from an underscore-joined name. A "?"
// part leaves that component's name unchanged.
func (s *StackedCoordinates) SetName(name string) error {
	parts := strings.Split(name, "_")
	if len(parts) != len(s.comps) {
		return fmt.Errorf("%w: name %q has %d parts for %d stacked dimensions",
			ErrInvalidCoords, name, len(parts), len(s.comps))
	}
	seen := map[string]bool{}
	for i, part := range parts {
		if part == "?" {
			part = s.comps[i].Name()
		}
		if part == "" {
			continue
		}
		if seen[part] {
			return fmt.Errorf("%w: %q", ErrDuplicateDim, part)
		}
		seen[part] = true
	}
	for i, part := range parts {
		if part != "?" {
			s.comps[i].setName(part)
		}
	}
	return nil
}

func (s *StackedCoordinates) Size() int { return s.comps[0].Size() }

// Component returns the named component dimension.
func (s *StackedCoordinates) Component(dim string) (Coordinates1d, error) {
	for _, comp := range s.comps {
		if comp.Name() == dim {
			return comp, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in stacked %q", ErrDimNotFound, dim, s.Name())
}

// Components returns the component dimensions in order.
func (s *StackedCoordinates) Components() []Coordinates1d {
	out := make([]Coordinates1d, len(s.comps))
	copy(out, s.comps)
	return out
}

// Bounds returns the per-dimension value bounds.
func (s *StackedCoordinates) Bounds() map[string]Bounds {
	out := make(map[string]Bounds, len(s.comps))
	for i, comp := range s.comps {
		if b, ok := comp.Bounds(); ok {
			out[s.Dims()[i]] = b
		}
	}
	return out
}

// Rows iterates the coordinate tuples in order.
func (s *StackedCoordinates) Rows() iter.Seq[[]Value] {
	return func(yield func([]Value) bool) {
		values := make([][]Value, len(s.comps))
		for i, comp := range s.comps {
			values[i] = comp.Values()
		}
		for r := 0; r < s.Size(); r++ {
			row := make([]Value, len(s.comps))
			for i := range s.comps {
				row[i] = values[i][r]
			}
			if !yield(row) {
				return
			}
		}
	}
}

// apply maps a positional operation over every component.
func (s *StackedCoordinates) apply(f func(Coordinates1d) (Coordinates1d, error)) (*StackedCoordinates, error) {
	out := &StackedCoordinates{comps: make([]Coordinates1d, len(s.comps))}
	for i, comp := range s.comps {
		sub, err := f(comp)
		if err != nil {
			return nil, err
		}
		out.comps[i] = sub
	}
	return out, nil
}

func (s *StackedCoordinates) Index(i int) (*StackedCoordinates, error) {
	return s.apply(func(c Coordinates1d) (Coordinates1d, error) { return c.Index(i) })
}

func (s *StackedCoordinates) Range(lo, hi int) (*StackedCoordinates, error) {
	return s.apply(func(c Coordinates1d) (Coordinates1d, error) { return c.Range(lo, hi) })
}

func (s *StackedCoordinates) Stride(lo, hi, step int) (*StackedCoordinates, error) {
	return s.apply(func(c Coordinates1d) (Coordinates1d, error) { return c.Stride(lo, hi, step) })
}

func (s *StackedCoordinates) Pick(idx []int) (*StackedCoordinates, error) {
	return s.apply(func(c Coordinates1d) (Coordinates1d, error) { return c.Pick(idx) })
}

func (s *StackedCoordinates) Where(mask []bool) (*StackedCoordinates, error) {
	return s.apply(func(c Coordinates1d) (Coordinates1d, error) { return c.Where(mask) })
}

func (s *StackedCoordinates) Reverse() *StackedCoordinates {
	out, _ := s.apply(func(c Coordinates1d) (Coordinates1d, error) { return c.Reverse(), nil })
	return out
}

// Select keeps the tuples at positions selected by every constrained
// component, intersecting the per-component position sets. Dimensions
// without a bounds entry are unconstrained.
func (s *StackedCoordinates) Select(bounds map[string]Bounds, outer bool) (*StackedCoordinates, Indexer) {
	keep := make([]bool, s.Size())
	for i := range keep {
		keep[i] = true
	}
	for i, comp := range s.comps {
		b, ok := bounds[s.Dims()[i]]
		if !ok {
			continue
		}
		_, ix := comp.SelectIndex(b, outer)
		in := make([]bool, s.Size())
		for _, p := range ix.List() {
			in[p] = true
		}
		for p := range keep {
			keep[p] = keep[p] && in[p]
		}
	}

	var positions []int
	for p, k := range keep {
		if k {
			positions = append(positions, p)
		}
	}
	sub, _ := s.Pick(positions)
	return sub, ListIndexer(positions)
}

func (s *StackedCoordinates) Copy(opts ...Option) (*StackedCoordinates, error) {
	return NewStackedCoordinates(s.comps, opts...)
}

func (s *StackedCoordinates) Equal(other *StackedCoordinates) bool {
	if other == nil || len(s.comps) != len(other.comps) {
		return false
	}
	for i, comp := range s.comps {
		if !comp.Equal(other.comps[i]) {
			return false
		}
	}
	return true
}
