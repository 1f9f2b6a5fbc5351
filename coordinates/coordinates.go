package coordinates

import (
	"fmt"
	"iter"
	"strings"
)

// Dim is one entry of a multi-dimensional coordinate set: either a single
// dimension or a stacked group.
type Dim struct {
	c1      Coordinates1d
	stacked *StackedCoordinates
}

func DimOf(c Coordinates1d) Dim            { return Dim{c1: c} }
func StackedDim(s *StackedCoordinates) Dim { return Dim{stacked: s} }

func (d Dim) IsStacked() bool { return d.stacked != nil }

// Unstacked returns the single dimension, nil for a stacked entry.
func (d Dim) Unstacked() Coordinates1d { return d.c1 }

// Stacked returns the stacked group, nil for a single dimension.
func (d Dim) Stacked() *StackedCoordinates { return d.stacked }

func (d Dim) Name() string {
	if d.stacked != nil {
		return d.stacked.Name()
	}
	return d.c1.Name()
}

// Dims lists the underlying dimension names, one for a single dimension.
func (d Dim) Dims() []string {
	if d.stacked != nil {
		return d.stacked.Dims()
	}
	return []string{d.c1.Name()}
}

func (d Dim) Size() int {
	if d.stacked != nil {
		return d.stacked.Size()
	}
	return d.c1.Size()
}

func (d Dim) equal(o Dim) bool {
	if d.IsStacked() != o.IsStacked() {
		return false
	}
	if d.stacked != nil {
		return d.stacked.Equal(o.stacked)
	}
	return d.c1.Equal(o.c1)
}

func (d Dim) copy() (Dim, error) {
	if d.stacked != nil {
		s, err := d.stacked.Copy()
		return Dim{stacked: s}, err
	}
	c, err := d.c1.Copy()
	return Dim{c1: c}, err
}

func (d Dim) rangeAxis(lo, hi int) (Dim, error) {
	if d.stacked != nil {
		s, err := d.stacked.Range(lo, hi)
		return Dim{stacked: s}, err
	}
	c, err := d.c1.Range(lo, hi)
	return Dim{c1: c}, err
}

// Coordinates is an ordered, dimension-keyed set of single and stacked
// coordinate axes sharing one reference system.
type Coordinates struct {
	keys []string
	dims map[string]Dim
	crs  string
}

// CoordsOption configures a Coordinates set.
type CoordsOption func(*Coordinates)

// WithCoordsCRS sets the shared coordinate reference system.
func WithCoordsCRS(crs string) CoordsOption {
	return func(c *Coordinates) { c.crs = crs }
}

// NewCoordinates assembles a coordinate set from named dimensions. Every
// entry must be fully named and names must not repeat; per-dimension
// reference systems must agree with the shared one.
func NewCoordinates(dims []Dim, opts ...CoordsOption) (*Coordinates, error) {
	c := &Coordinates{dims: make(map[string]Dim, len(dims))}
	for _, opt := range opts {
		opt(c)
	}

	for _, d := range dims {
		if err := c.append(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Coordinates) append(d Dim) error {
	for _, udim := range d.Dims() {
		if udim == "" || udim == "?" {
			return fmt.Errorf("%w: unnamed dimension", ErrInvalidCoords)
		}
		if c.has(udim) {
			return fmt.Errorf("%w: %q", ErrDuplicateDim, udim)
		}
	}
	if err := c.adoptCRS(d); err != nil {
		return err
	}
	cp, err := d.copy()
	if err != nil {
		return err
	}
	c.keys = append(c.keys, d.Name())
	c.dims[d.Name()] = cp
	return nil
}

// adoptCRS inherits the first explicit per-dimension reference system and
// rejects conflicting ones.
func (c *Coordinates) adoptCRS(d Dim) error {
	comps := []Coordinates1d{d.c1}
	if d.stacked != nil {
		comps = d.stacked.Components()
	}
	for _, comp := range comps {
		crs := comp.props().crs
		if crs == "" {
			continue
		}
		if c.crs == "" {
			c.crs = crs
		} else if crs != c.crs {
			return fmt.Errorf("%w: reference system %q with %q", ErrIncompatible, crs, c.crs)
		}
	}
	return nil
}

// Grid builds unstacked coordinates, naming each axis from dims in order.
func Grid(dims []string, cs ...Coordinates1d) (*Coordinates, error) {
	if len(dims) != len(cs) {
		return nil, fmt.Errorf("%w: %d names for %d dimensions", ErrSizeMismatch, len(dims), len(cs))
	}
	entries := make([]Dim, len(cs))
	for i, c1 := range cs {
		named, err := c1.Copy(WithName(dims[i]))
		if err != nil {
			return nil, err
		}
		entries[i] = DimOf(named)
	}
	return NewCoordinates(entries)
}

// Points builds a single stacked axis of coordinate tuples, naming the
// components from dims in order.
func Points(dims []string, cs ...Coordinates1d) (*Coordinates, error) {
	if len(dims) != len(cs) {
		return nil, fmt.Errorf("%w: %d names for %d dimensions", ErrSizeMismatch, len(dims), len(cs))
	}
	named := make([]Coordinates1d, len(cs))
	for i, c1 := range cs {
		cp, err := c1.Copy(WithName(dims[i]))
		if err != nil {
			return nil, err
		}
		named[i] = cp
	}
	s, err := NewStackedCoordinates(named)
	if err != nil {
		return nil, err
	}
	return NewCoordinates([]Dim{StackedDim(s)})
}

// Dims returns the axis keys in order, stacked groups underscore-joined.
func (c *Coordinates) Dims() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// UDims returns the underlying dimension names in order, stacked groups
// flattened.
func (c *Coordinates) UDims() []string {
	var out []string
	for _, key := range c.keys {
		out = append(out, c.dims[key].Dims()...)
	}
	return out
}

func (c *Coordinates) Ndim() int { return len(c.keys) }

func (c *Coordinates) Shape() []int {
	out := make([]int, len(c.keys))
	for i, key := range c.keys {
		out[i] = c.dims[key].Size()
	}
	return out
}

// Size is the total number of grid points, zero for an empty set.
func (c *Coordinates) Size() int {
	if len(c.keys) == 0 {
		return 0
	}
	n := 1
	for _, key := range c.keys {
		n *= c.dims[key].Size()
	}
	return n
}

// CRS returns the shared reference system, defaulted when never set.
func (c *Coordinates) CRS() string {
	if c.crs == "" {
		return DefaultCRS
	}
	return c.crs
}

func (c *Coordinates) has(udim string) bool {
	for _, key := range c.keys {
		for _, d := range c.dims[key].Dims() {
			if d == udim {
				return true
			}
		}
	}
	return false
}

// Get returns the axis entry for a key, stacked keys underscore-joined.
func (c *Coordinates) Get(key string) (Dim, error) {
	d, ok := c.dims[key]
	if !ok {
		return Dim{}, fmt.Errorf("%w: %q", ErrDimNotFound, key)
	}
	return d, nil
}

// Get1d returns a single underlying dimension, reaching inside stacked
// groups.
func (c *Coordinates) Get1d(dim string) (Coordinates1d, error) {
	for _, key := range c.keys {
		d := c.dims[key]
		if d.stacked != nil {
			if comp, err := d.stacked.Component(dim); err == nil {
				return comp, nil
			}
			continue
		}
		if d.c1.Name() == dim {
			return d.c1, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrDimNotFound, dim)
}

// Bounds returns the value bounds per underlying dimension.
func (c *Coordinates) Bounds() map[string]Bounds {
	out := make(map[string]Bounds)
	for _, dim := range c.UDims() {
		c1, _ := c.Get1d(dim)
		if b, ok := c1.Bounds(); ok {
			out[dim] = b
		}
	}
	return out
}

// Set inserts or replaces the axis under key. An unnamed value adopts the
// key as its name; a named value must already match it.
func (c *Coordinates) Set(key string, d Dim) error {
	cp, err := d.copy()
	if err != nil {
		return err
	}
	if cp.stacked != nil {
		parts := strings.Split(key, "_")
		dims := cp.stacked.Dims()
		if len(parts) == len(dims) {
			for i, name := range dims {
				if name != "?" && name != parts[i] {
					return fmt.Errorf("%w: dimension name %q under key %q",
						ErrInvalidCoords, cp.stacked.Name(), key)
				}
			}
		}
		if err := cp.stacked.SetName(key); err != nil {
			return err
		}
	} else {
		if name := cp.c1.Name(); name != "" && name != key {
			return fmt.Errorf("%w: dimension name %q under key %q", ErrInvalidCoords, name, key)
		}
		cp.c1.setName(key)
	}

	if _, ok := c.dims[key]; ok {
		if err := c.adoptCRS(cp); err != nil {
			return err
		}
		c.dims[key] = cp
		return nil
	}
	return c.append(cp)
}

// Delete removes an axis by key.
func (c *Coordinates) Delete(key string) error {
	if _, ok := c.dims[key]; !ok {
		return fmt.Errorf("%w: %q", ErrDimNotFound, key)
	}
	delete(c.dims, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Update replaces matching axes from other and appends its new ones.
func (c *Coordinates) Update(other *Coordinates) error {
	for _, key := range other.keys {
		if err := c.Set(key, other.dims[key]); err != nil {
			return err
		}
	}
	return nil
}

// Transpose reorders the axes. order must be a permutation of the keys;
// with no arguments the current order is reversed.
func (c *Coordinates) Transpose(order ...string) (*Coordinates, error) {
	if len(order) == 0 {
		order = make([]string, len(c.keys))
		for i, key := range c.keys {
			order[len(c.keys)-1-i] = key
		}
	}
	if len(order) != len(c.keys) {
		return nil, fmt.Errorf("%w: %d keys in transpose of %d axes",
			ErrSizeMismatch, len(order), len(c.keys))
	}
	out := &Coordinates{dims: make(map[string]Dim, len(c.keys)), crs: c.crs}
	for _, key := range order {
		d, ok := c.dims[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrDimNotFound, key)
		}
		if _, dup := out.dims[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDim, key)
		}
		cp, err := d.copy()
		if err != nil {
			return nil, err
		}
		out.keys = append(out.keys, key)
		out.dims[key] = cp
	}
	return out, nil
}

// Drop removes the given axis keys.
func (c *Coordinates) Drop(keys ...string) (*Coordinates, error) {
	out, err := c.Copy()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if err := out.Delete(key); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UDrop removes underlying dimensions. Dropping part of a stacked group
// keeps the remaining components, unstacking a group reduced to one.
func (c *Coordinates) UDrop(udims ...string) (*Coordinates, error) {
	drop := make(map[string]bool, len(udims))
	for _, dim := range udims {
		if !c.has(dim) {
			return nil, fmt.Errorf("%w: %q", ErrDimNotFound, dim)
		}
		drop[dim] = true
	}

	out := &Coordinates{dims: make(map[string]Dim), crs: c.crs}
	for _, key := range c.keys {
		d := c.dims[key]
		if d.stacked == nil {
			if !drop[d.c1.Name()] {
				if err := out.append(d); err != nil {
					return nil, err
				}
			}
			continue
		}

		var kept []Coordinates1d
		for _, comp := range d.stacked.Components() {
			if !drop[comp.Name()] {
				kept = append(kept, comp)
			}
		}
		switch len(kept) {
		case 0:
		case 1:
			if err := out.append(DimOf(kept[0])); err != nil {
				return nil, err
			}
		default:
			s, err := NewStackedCoordinates(kept)
			if err != nil {
				return nil, err
			}
			if err := out.append(StackedDim(s)); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Unstack splits every stacked group into separate axes, preserving order.
func (c *Coordinates) Unstack() (*Coordinates, error) {
	out := &Coordinates{dims: make(map[string]Dim), crs: c.crs}
	for _, key := range c.keys {
		d := c.dims[key]
		if d.stacked == nil {
			if err := out.append(d); err != nil {
				return nil, err
			}
			continue
		}
		for _, comp := range d.stacked.Components() {
			if err := out.append(DimOf(comp)); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Stack combines the named unstacked axes into one stacked group, placed at
// the first named axis's position. The axes must be equally sized.
func (c *Coordinates) Stack(dims ...string) (*Coordinates, error) {
	if len(dims) < 2 {
		return nil, fmt.Errorf("%w: stacking needs at least 2 dimensions", ErrInvalidCoords)
	}
	comps := make([]Coordinates1d, len(dims))
	pick := make(map[string]bool, len(dims))
	for i, dim := range dims {
		d, ok := c.dims[dim]
		if !ok || d.stacked != nil {
			return nil, fmt.Errorf("%w: unstacked %q", ErrDimNotFound, dim)
		}
		comps[i] = d.c1
		pick[dim] = true
	}
	s, err := NewStackedCoordinates(comps)
	if err != nil {
		return nil, err
	}

	out := &Coordinates{dims: make(map[string]Dim), crs: c.crs}
	for _, key := range c.keys {
		if key == dims[0] {
			if err := out.append(StackedDim(s)); err != nil {
				return nil, err
			}
			continue
		}
		if pick[key] {
			continue
		}
		if err := out.append(c.dims[key]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Select constrains each axis to the named bounds, keyed by underlying
// dimension. Unnamed dimensions pass through unchanged.
func (c *Coordinates) Select(bounds map[string]Bounds, outer bool) (*Coordinates, error) {
	sub, _, err := c.SelectIndex(bounds, outer)
	return sub, err
}

// SelectIndex is Select plus the positional index per axis key that maps
// the input onto the selection.
func (c *Coordinates) SelectIndex(bounds map[string]Bounds, outer bool) (*Coordinates, map[string]Indexer, error) {
	out := &Coordinates{dims: make(map[string]Dim), crs: c.crs}
	index := make(map[string]Indexer, len(c.keys))
	for _, key := range c.keys {
		d := c.dims[key]
		if d.stacked != nil {
			sub, ix := d.stacked.Select(bounds, outer)
			if err := out.append(StackedDim(sub)); err != nil {
				return nil, nil, err
			}
			index[key] = ix
			continue
		}

		b, ok := bounds[key]
		if !ok {
			if err := out.append(d); err != nil {
				return nil, nil, err
			}
			index[key] = SliceIndexer(0, d.Size(), 1)
			continue
		}
		sub, ix := d.c1.SelectIndex(b, outer)
		if err := out.append(DimOf(sub)); err != nil {
			return nil, nil, err
		}
		index[key] = ix
	}
	return out, index, nil
}

// Intersect constrains this set to the other's area bounds, dimension by
// dimension. Dimensions the other set lacks pass through unchanged; shared
// dimensions must agree in dtype.
func (c *Coordinates) Intersect(other *Coordinates, outer bool) (*Coordinates, error) {
	sub, _, err := c.IntersectIndex(other, outer)
	return sub, err
}

func (c *Coordinates) IntersectIndex(other *Coordinates, outer bool) (*Coordinates, map[string]Indexer, error) {
	bounds := make(map[string]Bounds)
	for _, dim := range c.UDims() {
		o, err := other.Get1d(dim)
		if err != nil {
			continue
		}
		mine, _ := c.Get1d(dim)
		if o.Dtype() != mine.Dtype() {
			return nil, nil, fmt.Errorf("%w: %q is %s here and %s in the other set",
				ErrDtypeMismatch, dim, mine.Dtype(), o.Dtype())
		}
		if b, ok := o.AreaBounds(); ok {
			bounds[dim] = b
		}
	}
	return c.SelectIndex(bounds, outer)
}

func (c *Coordinates) Equal(other *Coordinates) bool {
	if other == nil || len(c.keys) != len(other.keys) || c.CRS() != other.CRS() {
		return false
	}
	for i, key := range c.keys {
		if other.keys[i] != key {
			return false
		}
		if !c.dims[key].equal(other.dims[key]) {
			return false
		}
	}
	return true
}

func (c *Coordinates) Copy() (*Coordinates, error) {
	out := &Coordinates{dims: make(map[string]Dim, len(c.keys)), crs: c.crs}
	for _, key := range c.keys {
		cp, err := c.dims[key].copy()
		if err != nil {
			return nil, err
		}
		out.keys = append(out.keys, key)
		out.dims[key] = cp
	}
	return out, nil
}

func (c *Coordinates) String() string {
	parts := make([]string, len(c.keys))
	for i, key := range c.keys {
		parts[i] = fmt.Sprintf("%s[%d]", key, c.dims[key].Size())
	}
	return "Coordinates(" + strings.Join(parts, ", ") + ")"
}

// Iterchunks walks the set in blocks of at most the given per-axis sizes,
// yielding one sub-Coordinates per block in row-major order. shape entries
// align with Dims(); a zero or negative entry takes the whole axis.
func (c *Coordinates) Iterchunks(shape []int) (iter.Seq[*Coordinates], error) {
	if len(shape) != len(c.keys) {
		return nil, fmt.Errorf("%w: chunk shape %d for %d axes", ErrSizeMismatch, len(shape), len(c.keys))
	}
	full := c.Shape()
	steps := make([]int, len(shape))
	for i, n := range shape {
		if n <= 0 || n > full[i] {
			n = full[i]
		}
		steps[i] = n
	}

	return func(yield func(*Coordinates) bool) {
		offsets := make([]int, len(c.keys))
		for {
			chunk := &Coordinates{dims: make(map[string]Dim, len(c.keys)), crs: c.crs}
			for i, key := range c.keys {
				hi := offsets[i] + steps[i]
				if hi > full[i] {
					hi = full[i]
				}
				d, err := c.dims[key].rangeAxis(offsets[i], hi)
				if err != nil {
					return
				}
				chunk.keys = append(chunk.keys, key)
				chunk.dims[key] = d
			}
			if !yield(chunk) {
				return
			}

			// advance row-major, last axis fastest
			i := len(offsets) - 1
			for ; i >= 0; i-- {
				offsets[i] += steps[i]
				if offsets[i] < full[i] {
					break
				}
				offsets[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}, nil
}
