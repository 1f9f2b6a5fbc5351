package coordinates

import "fmt"

// Ctype controls how a single coordinate value's covered area is computed:
// a zero-width point, a segment extending one step left or right, or a
// segment extending half a step in each direction.
type Ctype string

const (
	CtypePoint    Ctype = "point"
	CtypeLeft     Ctype = "left"
	CtypeRight    Ctype = "right"
	CtypeMidpoint Ctype = "midpoint"
)

// DefaultCtype is applied when no ctype was set explicitly.
const DefaultCtype = CtypeMidpoint

// DefaultCRS is applied at Coordinates construction when no coordinate
// reference system was set explicitly.
const DefaultCRS = "WGS84"

func validCtype(ct Ctype) bool {
	switch ct {
	case CtypePoint, CtypeLeft, CtypeRight, CtypeMidpoint:
		return true
	}
	return false
}

// properties is the option set shared by both Coordinates1d variants.
// Zero values mean "unset"; unset ctype and crs read as the defaults.
type properties struct {
	name    string
	ctype   Ctype
	crs     string
	units   string
	extents *Bounds
}

// Option configures a coordinate object at construction or copy time.
type Option func(*properties)

func WithName(name string) Option { return func(p *properties) { p.name = name } }

func WithCtype(ct Ctype) Option { return func(p *properties) { p.ctype = ct } }

func WithCRS(crs string) Option { return func(p *properties) { p.crs = crs } }

func WithUnits(units string) Option { return func(p *properties) { p.units = units } }

// WithExtents overrides the computed area bounds. Only valid for non-point
// ctypes and values of the coordinate dtype.
func WithExtents(lo, hi Value) Option {
	return func(p *properties) {
		b := NewBounds(lo, hi)
		p.extents = &b
	}
}

// validate checks option consistency against the coordinate dtype.
func (p *properties) validate(dtype Dtype) error {
	if p.ctype != "" && !validCtype(p.ctype) {
		return fmt.Errorf("%w: unknown ctype %q", ErrInvalidCoords, p.ctype)
	}
	if p.extents != nil {
		if p.ctype == CtypePoint {
			return fmt.Errorf("%w: extents are invalid for ctype point", ErrIncompatible)
		}
		if dtype != DtypeNone && p.extents.Dtype() != dtype {
			return fmt.Errorf("%w: extents dtype %s does not match coordinates dtype %s",
				ErrDtypeMismatch, p.extents.Dtype(), dtype)
		}
	}
	return nil
}

func (p *properties) effectiveCtype() Ctype {
	if p.ctype == "" {
		return DefaultCtype
	}
	return p.ctype
}

func (p *properties) effectiveCRS() string {
	if p.crs == "" {
		return DefaultCRS
	}
	return p.crs
}

func (p *properties) equal(o *properties) bool {
	if p.name != o.name || p.effectiveCtype() != o.effectiveCtype() ||
		p.effectiveCRS() != o.effectiveCRS() || p.units != o.units {
		return false
	}
	if (p.extents == nil) != (o.extents == nil) {
		return false
	}
	if p.extents != nil &&
		(!p.extents.Lower.Equal(o.extents.Lower) || !p.extents.Upper.Equal(o.extents.Upper)) {
		return false
	}
	return true
}

// clone copies the property set, then applies opts.
func (p *properties) clone(opts ...Option) properties {
	out := *p
	if p.extents != nil {
		b := *p.extents
		out.extents = &b
	}
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// Coordinates1d is a single-dimension coordinate sequence. Implementations
// are ArrayCoordinates1d (explicit values) and UniformCoordinates1d
// (start/stop/step-or-size). Instances are immutable after construction
// except for the dimension name, which may be assigned once stacking or
// mapping requires it.
type Coordinates1d interface {
	Name() string
	Ctype() Ctype
	CRS() string
	Units() string
	// Extents reports the explicit area-bounds override, if set.
	Extents() (Bounds, bool)

	Dtype() Dtype
	Size() int
	// Values materializes the coordinate values in storage order.
	Values() []Value
	// Bounds is the ascending (min, max) pair; ok is false when empty.
	Bounds() (Bounds, bool)
	// AreaBounds expands Bounds per the ctype, or returns the explicit
	// extents when set.
	AreaBounds() (Bounds, bool)
	IsMonotonic() bool
	// IsDescending reports the ordering. Array coordinates of size <= 1
	// have no ordering and report defined false; uniform coordinates
	// derive theirs from the step sign and are always defined.
	IsDescending() (descending, defined bool)
	IsUniform() bool

	// Positional indexing. Index, Range, Stride and Reverse preserve
	// uniform spacing; Pick and Where always return array coordinates.
	Index(i int) (Coordinates1d, error)
	Range(lo, hi int) (Coordinates1d, error)
	Stride(lo, hi, step int) (Coordinates1d, error)
	Pick(idx []int) (Coordinates1d, error)
	Where(mask []bool) (Coordinates1d, error)
	Reverse() Coordinates1d

	// Select returns the subset of coordinates within the inclusive
	// bounds. With outer, the smallest superset internally covering the
	// bounds is returned instead. No overlap yields empty coordinates,
	// never an error.
	Select(b Bounds, outer bool) Coordinates1d
	// SelectIndex additionally returns the positional index extracting
	// the subset from the backing sequence.
	SelectIndex(b Bounds, outer bool) (Coordinates1d, Indexer)
	// Intersect selects against the other coordinates' bounds. Mixing
	// dtypes is an error.
	Intersect(other Coordinates1d, outer bool) (Coordinates1d, error)

	Copy(opts ...Option) (Coordinates1d, error)
	Equal(other Coordinates1d) bool

	// definition lowers the object to a serializable form.
	definition() *definition1d
	// setName assigns the dimension name in place (stacking, mapping).
	setName(name string)
	props() *properties
}

// intersect1d implements Intersect for both variants.
func intersect1d(c, other Coordinates1d, outer bool) (Coordinates1d, error) {
	if c.Dtype() != DtypeNone && other.Dtype() != DtypeNone && c.Dtype() != other.Dtype() {
		return nil, fmt.Errorf("%w: cannot intersect %s coordinates with %s coordinates",
			ErrDtypeMismatch, c.Dtype(), other.Dtype())
	}
	b, ok := other.Bounds()
	if !ok {
		return emptyLike(c), nil
	}
	return c.Select(b, outer), nil
}

// emptyLike builds the empty selection result for c, preserving its
// properties and dtype.
func emptyLike(c Coordinates1d) *ArrayCoordinates1d {
	return &ArrayCoordinates1d{
		properties: c.props().clone(),
		dtype:      c.Dtype(),
		monotonic:  true,
	}
}
