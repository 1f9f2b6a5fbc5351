package coordinates

import (
	"fmt"
	"time"
)

// ArrayCoordinates1d is a single dimension backed by an explicit value
// array, ordered or unordered. Monotonicity and bounds are computed once at
// construction.
type ArrayCoordinates1d struct {
	properties
	values []Value
	dtype  Dtype

	monotonic   bool
	descending  bool
	descDefined bool
	vmin        Value
	vmax        Value
}

var _ Coordinates1d = (*ArrayCoordinates1d)(nil)

func NewArrayCoordinates1d(values []Value, opts ...Option) (*ArrayCoordinates1d, error) {
	c := &ArrayCoordinates1d{values: make([]Value, len(values))}
	copy(c.values, values)

	for i, v := range c.values {
		if v.dtype == DtypeNone {
			return nil, fmt.Errorf("%w: value at position %d has no dtype", ErrInvalidCoords, i)
		}
		if i == 0 {
			c.dtype = v.dtype
		} else if v.dtype != c.dtype {
			return nil, fmt.Errorf("%w: mixed %s and %s values", ErrDtypeMismatch, c.dtype, v.dtype)
		}
	}

	for _, opt := range opts {
		opt(&c.properties)
	}
	if err := c.properties.validate(c.dtype); err != nil {
		return nil, err
	}

	c.analyze()
	return c, nil
}

// ArrayFromFloats builds numeric array coordinates.
func ArrayFromFloats(values []float64, opts ...Option) (*ArrayCoordinates1d, error) {
	vs := make([]Value, len(values))
	for i, f := range values {
		vs[i] = FloatValue(f)
	}
	return NewArrayCoordinates1d(vs, opts...)
}

// ArrayFromTimes builds datetime array coordinates.
func ArrayFromTimes(values []time.Time, opts ...Option) (*ArrayCoordinates1d, error) {
	vs := make([]Value, len(values))
	for i, t := range values {
		vs[i] = TimeValue(t)
	}
	return NewArrayCoordinates1d(vs, opts...)
}

// ArrayFromStrings builds array coordinates from ISO date/time or numeric
// strings.
func ArrayFromStrings(values []string, opts ...Option) (*ArrayCoordinates1d, error) {
	vs := make([]Value, len(values))
	for i, s := range values {
		v, err := ParseValue(s)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return NewArrayCoordinates1d(vs, opts...)
}

// analyze computes ordering and bounds. Called once at construction.
func (c *ArrayCoordinates1d) analyze() {
	n := len(c.values)
	if n == 0 {
		c.monotonic = true
		return
	}
	c.vmin, c.vmax = c.values[0], c.values[0]
	for _, v := range c.values[1:] {
		c.vmin = minValue(c.vmin, v)
		c.vmax = maxValue(c.vmax, v)
	}
	if n == 1 {
		c.monotonic = true
		return
	}

	asc, desc := true, true
	for i := 1; i < n; i++ {
		switch c.values[i-1].Cmp(c.values[i]) {
		case -1:
			desc = false
		case 1:
			asc = false
		default: // repeated value breaks strict monotonicity
			asc, desc = false, false
		}
	}
	c.monotonic = asc || desc
	if c.monotonic {
		c.descending = desc
		c.descDefined = true
	}
}

func (c *ArrayCoordinates1d) Name() string  { return c.name }
func (c *ArrayCoordinates1d) Ctype() Ctype  { return c.effectiveCtype() }
func (c *ArrayCoordinates1d) CRS() string   { return c.effectiveCRS() }
func (c *ArrayCoordinates1d) Units() string { return c.units }

func (c *ArrayCoordinates1d) Extents() (Bounds, bool) {
	if c.extents == nil {
		return Bounds{}, false
	}
	return *c.extents, true
}

func (c *ArrayCoordinates1d) Dtype() Dtype { return c.dtype }
func (c *ArrayCoordinates1d) Size() int    { return len(c.values) }

func (c *ArrayCoordinates1d) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

func (c *ArrayCoordinates1d) Bounds() (Bounds, bool) {
	if len(c.values) == 0 {
		return Bounds{}, false
	}
	return Bounds{Lower: c.vmin, Upper: c.vmax}, true
}

func (c *ArrayCoordinates1d) AreaBounds() (Bounds, bool) {
	b, ok := c.Bounds()
	if !ok {
		return Bounds{}, false
	}
	lo, hi, haveSteps := c.endSteps()
	return expandArea(b, c.Ctype(), c.extents, lo, hi, haveSteps), true
}

// endSteps reports the boundary spacing at the min and max ends, taken from
// the adjacent differences. Undefined for non-monotonic or size < 2 arrays.
func (c *ArrayCoordinates1d) endSteps() (lo, hi Step, ok bool) {
	n := len(c.values)
	if !c.monotonic || n < 2 {
		return Step{}, Step{}, false
	}
	if c.descending {
		lo = diffStep(c.values[n-1], c.values[n-2])
		hi = diffStep(c.values[1], c.values[0])
	} else {
		lo = diffStep(c.values[0], c.values[1])
		hi = diffStep(c.values[n-2], c.values[n-1])
	}
	return lo, hi, true
}

func (c *ArrayCoordinates1d) IsMonotonic() bool { return c.monotonic }

func (c *ArrayCoordinates1d) IsDescending() (bool, bool) {
	return c.descending, c.descDefined
}

func (c *ArrayCoordinates1d) IsUniform() bool { return false }

func (c *ArrayCoordinates1d) Index(i int) (Coordinates1d, error) {
	if i < 0 || i >= len(c.values) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, len(c.values))
	}
	return c.withValues(c.values[i : i+1]), nil
}

func (c *ArrayCoordinates1d) Range(lo, hi int) (Coordinates1d, error) {
	if lo < 0 || hi < lo || hi > len(c.values) {
		return nil, fmt.Errorf("%w: range [%d:%d) of %d", ErrIndexOutOfRange, lo, hi, len(c.values))
	}
	return c.withValues(c.values[lo:hi]), nil
}

func (c *ArrayCoordinates1d) Stride(lo, hi, step int) (Coordinates1d, error) {
	positions, err := stridePositions(lo, hi, step, len(c.values))
	if err != nil {
		return nil, err
	}
	return c.pick(positions), nil
}

func (c *ArrayCoordinates1d) Pick(idx []int) (Coordinates1d, error) {
	for _, i := range idx {
		if i < 0 || i >= len(c.values) {
			return nil, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, len(c.values))
		}
	}
	return c.pick(idx), nil
}

func (c *ArrayCoordinates1d) Where(mask []bool) (Coordinates1d, error) {
	if len(mask) != len(c.values) {
		return nil, fmt.Errorf("%w: mask length %d for %d coordinates",
			ErrSizeMismatch, len(mask), len(c.values))
	}
	var positions []int
	for i, keep := range mask {
		if keep {
			positions = append(positions, i)
		}
	}
	return c.pick(positions), nil
}

func (c *ArrayCoordinates1d) Reverse() Coordinates1d {
	n := len(c.values)
	vs := make([]Value, n)
	for i, v := range c.values {
		vs[n-1-i] = v
	}
	return c.withValues(vs)
}

func (c *ArrayCoordinates1d) pick(positions []int) *ArrayCoordinates1d {
	vs := make([]Value, len(positions))
	for i, p := range positions {
		vs[i] = c.values[p]
	}
	return c.withValues(vs)
}

// withValues clones the properties around a new value slice.
func (c *ArrayCoordinates1d) withValues(values []Value) *ArrayCoordinates1d {
	out := &ArrayCoordinates1d{properties: c.clone(), dtype: c.dtype}
	if len(values) == 0 {
		out.monotonic = true
		return out
	}
	out.values = make([]Value, len(values))
	copy(out.values, values)
	out.analyze()
	return out
}

func (c *ArrayCoordinates1d) Select(b Bounds, outer bool) Coordinates1d {
	sub, _ := c.SelectIndex(b, outer)
	return sub
}

func (c *ArrayCoordinates1d) SelectIndex(b Bounds, outer bool) (Coordinates1d, Indexer) {
	empty := func() (Coordinates1d, Indexer) {
		return emptyLike(c), SliceIndexer(0, 0, 1)
	}
	if len(c.values) == 0 || b.Dtype() != c.dtype || b.Upper.Less(b.Lower) {
		return empty()
	}

	if !c.monotonic {
		// no contiguous window exists; outer degrades to inner
		var positions []int
		for i, v := range c.values {
			if !v.Less(b.Lower) && !b.Upper.Less(v) {
				positions = append(positions, i)
			}
		}
		if len(positions) == 0 {
			return empty()
		}
		return c.pick(positions), ListIndexer(positions)
	}

	// monotonic: the selection is a contiguous position window
	i0, i1 := -1, -1
	for i, v := range c.values {
		if !v.Less(b.Lower) && !b.Upper.Less(v) {
			if i0 < 0 {
				i0 = i
			}
			i1 = i
		}
	}
	if i0 < 0 {
		if !outer {
			return empty()
		}
		// no inner values: take the two positions straddling the bounds
		i0, i1 = c.straddle(b)
		if i0 > i1 {
			return empty()
		}
	} else if outer {
		i0--
		i1++
	}
	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(c.values)-1 {
		i1 = len(c.values) - 1
	}
	sub, _ := c.Range(i0, i1+1)
	return sub, SliceIndexer(i0, i1+1, 1)
}

// straddle finds the window of positions around an empty inner selection:
// the last value before the bounds and the first value after them.
func (c *ArrayCoordinates1d) straddle(b Bounds) (int, int) {
	i0, i1 := len(c.values), -1
	for i, v := range c.values {
		inside := !v.Less(b.Lower) && !b.Upper.Less(v)
		below := v.Less(b.Lower)
		if c.descending {
			below = b.Upper.Less(v)
		}
		switch {
		case inside:
			// unreachable when the inner selection was empty
		case below:
			i1 = i + 1
		default:
			if i < i0 {
				i0 = i - 1
			}
		}
	}
	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(c.values)-1 {
		i1 = len(c.values) - 1
	}
	return i0, i1
}

func (c *ArrayCoordinates1d) Intersect(other Coordinates1d, outer bool) (Coordinates1d, error) {
	return intersect1d(c, other, outer)
}

func (c *ArrayCoordinates1d) Copy(opts ...Option) (Coordinates1d, error) {
	out := &ArrayCoordinates1d{properties: c.clone(opts...), dtype: c.dtype}
	out.values = make([]Value, len(c.values))
	copy(out.values, c.values)
	if err := out.properties.validate(out.dtype); err != nil {
		return nil, err
	}
	out.analyze()
	return out, nil
}

func (c *ArrayCoordinates1d) Equal(other Coordinates1d) bool {
	o, ok := other.(*ArrayCoordinates1d)
	if !ok {
		return false
	}
	if c.dtype != o.dtype || len(c.values) != len(o.values) || !c.properties.equal(&o.properties) {
		return false
	}
	for i := range c.values {
		if !c.values[i].Equal(o.values[i]) {
			return false
		}
	}
	return true
}

func (c *ArrayCoordinates1d) setName(name string) { c.name = name }

func (c *ArrayCoordinates1d) props() *properties { return &c.properties }

// stridePositions expands a half-open [lo, hi) range sampled every step
// positions. step must be >= 1.
func stridePositions(lo, hi, step, size int) ([]int, error) {
	if step < 1 {
		return nil, fmt.Errorf("%w: stride step %d", ErrIndexOutOfRange, step)
	}
	if lo < 0 || hi < lo || hi > size {
		return nil, fmt.Errorf("%w: stride [%d:%d) of %d", ErrIndexOutOfRange, lo, hi, size)
	}
	var positions []int
	for i := lo; i < hi; i += step {
		positions = append(positions, i)
	}
	return positions, nil
}

// diffStep is the spacing between two adjacent values as a Step.
func diffStep(a, b Value) Step {
	if a.dtype == DtypeTime {
		return DurationStep(b.t.Sub(a.t))
	}
	return FloatStep(b.f - a.f)
}

// expandArea applies the ctype's area rule to a bounds pair. Explicit
// extents override; without end steps the bounds pass through unchanged.
func expandArea(b Bounds, ct Ctype, extents *Bounds, lo, hi Step, haveSteps bool) Bounds {
	if extents != nil {
		return *extents
	}
	if ct == CtypePoint || !haveSteps {
		return b
	}
	lo, hi = lo.Abs(), hi.Abs()
	switch ct {
	case CtypeLeft:
		return Bounds{Lower: b.Lower, Upper: hi.apply(b.Upper, 1)}
	case CtypeRight:
		return Bounds{Lower: lo.apply(b.Lower, -1), Upper: b.Upper}
	default: // midpoint
		return Bounds{
			Lower: halfStep(lo).apply(b.Lower, -1),
			Upper: halfStep(hi).apply(b.Upper, 1),
		}
	}
}

// halfStep halves a float or fixed-duration step. Calendar steps never
// reach here; area expansion converts them to durations first.
func halfStep(s Step) Step {
	if s.kind == stepFloat {
		return FloatStep(s.f / 2)
	}
	d, _ := s.Duration()
	return DurationStep(d / 2)
}
