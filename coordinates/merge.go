package coordinates

import "fmt"

// MergeDims combines disjoint coordinate sets into one, keeping each set's
// axis order. Shared dimensions or conflicting reference systems are errors.
func MergeDims(coords ...*Coordinates) (*Coordinates, error) {
	out := &Coordinates{dims: make(map[string]Dim)}
	for _, c := range coords {
		if c.crs != "" {
			if out.crs == "" {
				out.crs = c.crs
			} else if out.crs != c.crs {
				return nil, fmt.Errorf("%w: reference system %q with %q",
					ErrIncompatible, c.crs, out.crs)
			}
		}
		for _, key := range c.keys {
			if err := out.append(c.dims[key]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// ConcatDims joins coordinate sets with the same axes end to end, producing
// array coordinates per dimension. The sets must agree in axis keys, order
// and stacking structure.
func ConcatDims(coords ...*Coordinates) (*Coordinates, error) {
	if len(coords) == 0 {
		return NewCoordinates(nil)
	}
	first := coords[0]
	for _, c := range coords[1:] {
		if len(c.keys) != len(first.keys) {
			return nil, fmt.Errorf("%w: %d axes with %d", ErrIncompatible, len(c.keys), len(first.keys))
		}
		for i, key := range first.keys {
			if c.keys[i] != key {
				return nil, fmt.Errorf("%w: axis %q with %q", ErrIncompatible, c.keys[i], key)
			}
		}
	}

	out := &Coordinates{dims: make(map[string]Dim), crs: first.crs}
	for _, key := range first.keys {
		if first.dims[key].IsStacked() {
			ncomp := len(first.dims[key].stacked.comps)
			comps := make([]Coordinates1d, ncomp)
			for j := 0; j < ncomp; j++ {
				parts := make([]Coordinates1d, len(coords))
				for i, c := range coords {
					d := c.dims[key]
					if !d.IsStacked() || len(d.stacked.comps) != ncomp {
						return nil, fmt.Errorf("%w: axis %q stacking differs", ErrIncompatible, key)
					}
					parts[i] = d.stacked.comps[j]
				}
				joined, err := concat1d(parts)
				if err != nil {
					return nil, err
				}
				comps[j] = joined
			}
			s, err := NewStackedCoordinates(comps)
			if err != nil {
				return nil, err
			}
			if err := out.append(StackedDim(s)); err != nil {
				return nil, err
			}
			continue
		}

		parts := make([]Coordinates1d, len(coords))
		for i, c := range coords {
			d := c.dims[key]
			if d.IsStacked() {
				return nil, fmt.Errorf("%w: axis %q stacking differs", ErrIncompatible, key)
			}
			parts[i] = d.c1
		}
		joined, err := concat1d(parts)
		if err != nil {
			return nil, err
		}
		if err := out.append(DimOf(joined)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// concat1d joins single dimensions end to end into array coordinates,
// keeping the first part's properties.
func concat1d(parts []Coordinates1d) (*ArrayCoordinates1d, error) {
	var values []Value
	dtype := DtypeNone
	for _, p := range parts {
		if p.Dtype() == DtypeNone {
			continue
		}
		if dtype == DtypeNone {
			dtype = p.Dtype()
		} else if p.Dtype() != dtype {
			return nil, fmt.Errorf("%w: cannot join %s coordinates with %s coordinates",
				ErrDtypeMismatch, p.Dtype(), dtype)
		}
		values = append(values, p.Values()...)
	}
	out := &ArrayCoordinates1d{properties: parts[0].props().clone(), dtype: dtype, values: values}
	out.analyze()
	return out, nil
}
