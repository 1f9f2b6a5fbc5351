package coordinates

import (
	"fmt"
	"time"
)

// AxisComponent is the flat value array of one underlying dimension, as
// array and storage layers consume it. Exactly one of Floats and Times is
// set, matching the dtype.
type AxisComponent struct {
	Name   string
	Floats []float64
	Times  []time.Time
}

// Axis is the flat view of one coordinate axis. A stacked axis carries one
// component per underlying dimension, all of equal length.
type Axis struct {
	Name       string
	Components []AxisComponent
}

// Axes lowers the coordinate set to flat per-axis value arrays, in axis
// order. Properties beyond the names are not carried; the round trip back
// through FromAxes yields plain array coordinates.
func (c *Coordinates) Axes() []Axis {
	out := make([]Axis, len(c.keys))
	for i, key := range c.keys {
		d := c.dims[key]
		comps := []Coordinates1d{d.c1}
		if d.stacked != nil {
			comps = d.stacked.Components()
		}
		ax := Axis{Name: key, Components: make([]AxisComponent, len(comps))}
		for j, comp := range comps {
			ax.Components[j] = flatten(comp)
		}
		out[i] = ax
	}
	return out
}

func flatten(c1 Coordinates1d) AxisComponent {
	comp := AxisComponent{Name: c1.Name()}
	vs := c1.Values()
	if c1.Dtype() == DtypeTime {
		comp.Times = make([]time.Time, len(vs))
		for i, v := range vs {
			comp.Times[i] = v.Time()
		}
		return comp
	}
	comp.Floats = make([]float64, len(vs))
	for i, v := range vs {
		comp.Floats[i] = v.Float()
	}
	return comp
}

// FromAxes lifts flat per-axis arrays back into coordinates. Axes with more
// than one component become stacked; every component must set exactly one
// value array.
func FromAxes(axes []Axis, opts ...CoordsOption) (*Coordinates, error) {
	dims := make([]Dim, len(axes))
	for i, ax := range axes {
		if len(ax.Components) == 0 {
			return nil, fmt.Errorf("%w: axis %q has no components", ErrInvalidCoords, ax.Name)
		}
		comps := make([]Coordinates1d, len(ax.Components))
		for j, comp := range ax.Components {
			c1, err := lift(comp)
			if err != nil {
				return nil, err
			}
			comps[j] = c1
		}
		if len(comps) == 1 {
			dims[i] = DimOf(comps[0])
			continue
		}
		s, err := NewStackedCoordinates(comps)
		if err != nil {
			return nil, err
		}
		dims[i] = StackedDim(s)
	}
	return NewCoordinates(dims, opts...)
}

func lift(comp AxisComponent) (Coordinates1d, error) {
	if (comp.Floats != nil) == (comp.Times != nil) {
		return nil, fmt.Errorf("%w: component %q must set exactly one of Floats and Times",
			ErrInvalidCoords, comp.Name)
	}
	if comp.Times != nil {
		return ArrayFromTimes(comp.Times, WithName(comp.Name))
	}
	return ArrayFromFloats(comp.Floats, WithName(comp.Name))
}
