package coordinates

import (
	"fmt"
	"sort"
	"time"
)

// UniformCoordinates1d is a single dimension of evenly spaced values,
// defined by start, stop and step. Values are generated on demand; an
// inexact stop is truncated to the last whole step.
type UniformCoordinates1d struct {
	properties
	start Value
	stop  Value
	step  Step
	size  int

	// fromSize marks numeric coordinates built from an endpoint count, so
	// value generation interpolates between the endpoints instead of
	// accumulating the derived step.
	fromSize bool
}

var _ Coordinates1d = (*UniformCoordinates1d)(nil)

func NewUniformCoordinates1d(start, stop Value, step Step, opts ...Option) (*UniformCoordinates1d, error) {
	if start.dtype == DtypeNone || start.dtype != stop.dtype {
		return nil, fmt.Errorf("%w: start %s and stop %s", ErrDtypeMismatch, start.dtype, stop.dtype)
	}
	if step.Dtype() != start.dtype {
		return nil, fmt.Errorf("%w: %s step for %s coordinates", ErrDtypeMismatch, step.Dtype(), start.dtype)
	}
	if step.IsZero() {
		return nil, fmt.Errorf("%w: step must be nonzero", ErrInvalidStep)
	}
	if !start.Equal(stop) && step.Positive() != start.Less(stop) {
		return nil, fmt.Errorf("%w: step %s runs against the %s to %s direction",
			ErrInvalidStep, step, start, stop)
	}

	c := &UniformCoordinates1d{start: start, stop: stop, step: step}
	for _, opt := range opts {
		opt(&c.properties)
	}
	if err := c.properties.validate(start.dtype); err != nil {
		return nil, err
	}
	c.size = step.count(start, stop) + 1
	return c, nil
}

// NewUniformCoordinates1dSize builds uniform coordinates from endpoints and
// a value count, deriving the step. size must be at least 2; datetime spans
// must divide evenly into size-1 steps.
func NewUniformCoordinates1dSize(start, stop Value, size int, opts ...Option) (*UniformCoordinates1d, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: size %d, need at least 2", ErrInvalidCoords, size)
	}
	if start.dtype == DtypeNone || start.dtype != stop.dtype {
		return nil, fmt.Errorf("%w: start %s and stop %s", ErrDtypeMismatch, start.dtype, stop.dtype)
	}
	if start.Equal(stop) {
		return nil, fmt.Errorf("%w: zero step from equal endpoints %s", ErrInvalidStep, start)
	}

	var step Step
	fromSize := false
	if start.dtype == DtypeFloat {
		step = FloatStep((stop.f - start.f) / float64(size-1))
		fromSize = true
	} else {
		span := stop.t.Sub(start.t)
		if span%time.Duration(size-1) != 0 {
			return nil, fmt.Errorf("%w: %s span does not divide into %d steps",
				ErrInvalidStep, span, size-1)
		}
		step = DurationStep(span / time.Duration(size-1))
	}

	c := &UniformCoordinates1d{start: start, stop: stop, step: step, size: size, fromSize: fromSize}
	for _, opt := range opts {
		opt(&c.properties)
	}
	if err := c.properties.validate(start.dtype); err != nil {
		return nil, err
	}
	return c, nil
}

// Crange builds uniform coordinates from loosely typed endpoints and step.
// start and stop accept float64, time.Time or ISO strings; step accepts
// float64 or a "<n>,<unit>" string.
func Crange(start, stop, step any, opts ...Option) (*UniformCoordinates1d, error) {
	lo, err := valueFromAny(start)
	if err != nil {
		return nil, err
	}
	hi, err := valueFromAny(stop)
	if err != nil {
		return nil, err
	}
	st, err := stepFromAny(step)
	if err != nil {
		return nil, err
	}
	return NewUniformCoordinates1d(lo, hi, st, opts...)
}

// Clinspace builds uniform coordinates from loosely typed endpoints and a
// value count.
func Clinspace(start, stop any, size int, opts ...Option) (*UniformCoordinates1d, error) {
	lo, err := valueFromAny(start)
	if err != nil {
		return nil, err
	}
	hi, err := valueFromAny(stop)
	if err != nil {
		return nil, err
	}
	return NewUniformCoordinates1dSize(lo, hi, size, opts...)
}

func (c *UniformCoordinates1d) Name() string  { return c.name }
func (c *UniformCoordinates1d) Ctype() Ctype  { return c.effectiveCtype() }
func (c *UniformCoordinates1d) CRS() string   { return c.effectiveCRS() }
func (c *UniformCoordinates1d) Units() string { return c.units }

func (c *UniformCoordinates1d) Extents() (Bounds, bool) {
	if c.extents == nil {
		return Bounds{}, false
	}
	return *c.extents, true
}

func (c *UniformCoordinates1d) Dtype() Dtype { return c.start.dtype }
func (c *UniformCoordinates1d) Size() int    { return c.size }

// Start, Stop and Step return the defining parameters. Stop is the given
// endpoint, which the generated values may fall short of.
func (c *UniformCoordinates1d) Start() Value { return c.start }
func (c *UniformCoordinates1d) Stop() Value  { return c.stop }
func (c *UniformCoordinates1d) Step() Step   { return c.step }

// valueAt generates the value at stored position i.
func (c *UniformCoordinates1d) valueAt(i int) Value {
	if c.fromSize {
		if i == c.size-1 {
			return c.stop
		}
		return FloatValue(c.start.f + (c.stop.f-c.start.f)*float64(i)/float64(c.size-1))
	}
	return c.step.apply(c.start, int64(i))
}

func (c *UniformCoordinates1d) Values() []Value {
	out := make([]Value, c.size)
	for i := range out {
		out[i] = c.valueAt(i)
	}
	return out
}

func (c *UniformCoordinates1d) Bounds() (Bounds, bool) {
	return NewBounds(c.valueAt(0), c.valueAt(c.size-1)), true
}

func (c *UniformCoordinates1d) AreaBounds() (Bounds, bool) {
	b, _ := c.Bounds()
	lo, hi := c.endSteps()
	return expandArea(b, c.Ctype(), c.extents, lo, hi, true), true
}

// endSteps reports the boundary spacing at the min and max ends as fixed
// spans, resolving calendar steps against the actual end values.
func (c *UniformCoordinates1d) endSteps() (lo, hi Step) {
	if c.start.dtype == DtypeFloat {
		s := c.step.Abs()
		return s, s
	}
	if c.size == 1 {
		s := c.step.Abs()
		d := diffStep(c.start, s.apply(c.start, 1))
		return d, d
	}
	first := diffStep(c.valueAt(0), c.valueAt(1)).Abs()
	last := diffStep(c.valueAt(c.size-2), c.valueAt(c.size-1)).Abs()
	if desc, _ := c.IsDescending(); desc {
		return last, first
	}
	return first, last
}

func (c *UniformCoordinates1d) IsMonotonic() bool { return true }

func (c *UniformCoordinates1d) IsDescending() (bool, bool) {
	return !c.step.Positive(), true
}

func (c *UniformCoordinates1d) IsUniform() bool { return true }

func (c *UniformCoordinates1d) Index(i int) (Coordinates1d, error) {
	if i < 0 || i >= c.size {
		return nil, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, c.size)
	}
	v := c.valueAt(i)
	out := &UniformCoordinates1d{properties: c.clone(), start: v, stop: v, step: c.step, size: 1}
	return out, nil
}

func (c *UniformCoordinates1d) Range(lo, hi int) (Coordinates1d, error) {
	if lo < 0 || hi < lo || hi > c.size {
		return nil, fmt.Errorf("%w: range [%d:%d) of %d", ErrIndexOutOfRange, lo, hi, c.size)
	}
	if hi == lo {
		return emptyLike(c), nil
	}
	out := &UniformCoordinates1d{
		properties: c.clone(),
		start:      c.valueAt(lo),
		stop:       c.valueAt(hi - 1),
		step:       c.step,
		size:       hi - lo,
	}
	return out, nil
}

func (c *UniformCoordinates1d) Stride(lo, hi, step int) (Coordinates1d, error) {
	positions, err := stridePositions(lo, hi, step, c.size)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return emptyLike(c), nil
	}
	out := &UniformCoordinates1d{
		properties: c.clone(),
		start:      c.valueAt(positions[0]),
		stop:       c.valueAt(positions[len(positions)-1]),
		step:       c.step.scale(int64(step)),
		size:       len(positions),
	}
	return out, nil
}

func (c *UniformCoordinates1d) Pick(idx []int) (Coordinates1d, error) {
	vs := make([]Value, len(idx))
	for i, p := range idx {
		if p < 0 || p >= c.size {
			return nil, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, p, c.size)
		}
		vs[i] = c.valueAt(p)
	}
	out := &ArrayCoordinates1d{properties: c.clone(), dtype: c.start.dtype, values: vs}
	out.analyze()
	return out, nil
}

func (c *UniformCoordinates1d) Where(mask []bool) (Coordinates1d, error) {
	if len(mask) != c.size {
		return nil, fmt.Errorf("%w: mask length %d for %d coordinates", ErrSizeMismatch, len(mask), c.size)
	}
	var idx []int
	for i, keep := range mask {
		if keep {
			idx = append(idx, i)
		}
	}
	return c.Pick(idx)
}

func (c *UniformCoordinates1d) Reverse() Coordinates1d {
	return &UniformCoordinates1d{
		properties: c.clone(),
		start:      c.valueAt(c.size - 1),
		stop:       c.valueAt(0),
		step:       c.step.Negate(),
		size:       c.size,
		fromSize:   c.fromSize,
	}
}

func (c *UniformCoordinates1d) Select(b Bounds, outer bool) Coordinates1d {
	sub, _ := c.SelectIndex(b, outer)
	return sub
}

func (c *UniformCoordinates1d) SelectIndex(b Bounds, outer bool) (Coordinates1d, Indexer) {
	empty := func() (Coordinates1d, Indexer) {
		return emptyLike(c), SliceIndexer(0, 0, 1)
	}
	if b.Dtype() != c.start.dtype || b.Upper.Less(b.Lower) {
		return empty()
	}

	// positions counted from the min-value end
	kmin := c.kFirstGE(b.Lower)
	kmax := c.kLastLE(b.Upper)
	if kmax < kmin {
		// no values inside the bounds; outer still straddles a gap
		// between values, but bounds past either end select nothing
		if !outer || c.lessTol(b.Upper, c.valueAtK(0)) || c.lessTol(c.valueAtK(c.size-1), b.Lower) {
			return empty()
		}
	}
	if outer {
		kmin--
		kmax++
		if kmin < 0 {
			kmin = 0
		}
		if kmax > c.size-1 {
			kmax = c.size - 1
		}
	}

	lo, hi := kmin, kmax+1
	if desc, _ := c.IsDescending(); desc {
		lo, hi = c.size-1-kmax, c.size-kmin
	}
	sub, _ := c.Range(lo, hi)
	return sub, SliceIndexer(lo, hi, 1)
}

// valueAtK generates values by ascending magnitude, position 0 at the
// minimum end regardless of storage direction.
func (c *UniformCoordinates1d) valueAtK(k int) Value {
	if desc, _ := c.IsDescending(); desc {
		return c.valueAt(c.size - 1 - k)
	}
	return c.valueAt(k)
}

// kFirstGE is the smallest bounds-space position at or above v, size if
// none. Float comparison carries a step-relative tolerance.
func (c *UniformCoordinates1d) kFirstGE(v Value) int {
	return sort.Search(c.size, func(k int) bool {
		return !c.lessTol(c.valueAtK(k), v)
	})
}

// kLastLE is the largest bounds-space position at or below v, -1 if none.
func (c *UniformCoordinates1d) kLastLE(v Value) int {
	return sort.Search(c.size, func(k int) bool {
		return c.lessTol(v, c.valueAtK(k))
	}) - 1
}

func (c *UniformCoordinates1d) lessTol(a, b Value) bool {
	if a.dtype == DtypeFloat {
		tol := c.step.Abs().f * floatStepTol
		return a.f < b.f-tol
	}
	return a.Less(b)
}

func (c *UniformCoordinates1d) Intersect(other Coordinates1d, outer bool) (Coordinates1d, error) {
	return intersect1d(c, other, outer)
}

func (c *UniformCoordinates1d) Copy(opts ...Option) (Coordinates1d, error) {
	out := &UniformCoordinates1d{
		properties: c.clone(opts...),
		start:      c.start,
		stop:       c.stop,
		step:       c.step,
		size:       c.size,
		fromSize:   c.fromSize,
	}
	if err := out.properties.validate(out.start.dtype); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UniformCoordinates1d) Equal(other Coordinates1d) bool {
	o, ok := other.(*UniformCoordinates1d)
	if !ok {
		return false
	}
	return c.start.Equal(o.start) &&
		c.stop.Equal(o.stop) &&
		c.step == o.step &&
		c.size == o.size &&
		c.properties.equal(&o.properties)
}

func (c *UniformCoordinates1d) setName(name string) { c.name = name }

func (c *UniformCoordinates1d) props() *properties { return &c.properties }
