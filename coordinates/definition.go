package coordinates

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// definition1d is the serialized form of one dimension. Uniform coordinates
// carry start/stop plus step or size, array coordinates carry the values;
// unset properties are omitted.
type definition1d struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Start   any    `json:"start,omitempty" yaml:"start,omitempty"`
	Stop    any    `json:"stop,omitempty" yaml:"stop,omitempty"`
	Step    any    `json:"step,omitempty" yaml:"step,omitempty"`
	Size    int    `json:"size,omitempty" yaml:"size,omitempty"`
	Values  []any  `json:"values,omitempty" yaml:"values,omitempty"`
	Ctype   string `json:"ctype,omitempty" yaml:"ctype,omitempty"`
	Units   string `json:"units,omitempty" yaml:"units,omitempty"`
	CRS     string `json:"crs,omitempty" yaml:"crs,omitempty"`
	Extents []any  `json:"extents,omitempty" yaml:"extents,omitempty"`
}

// coordsDefinition is the serialized form of a full coordinate set. Stacked
// groups appear as nested lists in coords.
type coordsDefinition struct {
	CRS    string `json:"coord_ref_sys,omitempty" yaml:"coord_ref_sys,omitempty"`
	Coords []any  `json:"coords" yaml:"coords"`
}

func (p *properties) fillDefinition(d *definition1d) {
	d.Name = p.name
	d.Ctype = string(p.ctype)
	d.Units = p.units
	d.CRS = p.crs
	if p.extents != nil {
		d.Extents = []any{p.extents.Lower.defValue(), p.extents.Upper.defValue()}
	}
}

func (c *ArrayCoordinates1d) definition() *definition1d {
	d := &definition1d{Values: make([]any, len(c.values))}
	for i, v := range c.values {
		d.Values[i] = v.defValue()
	}
	c.properties.fillDefinition(d)
	return d
}

func (c *UniformCoordinates1d) definition() *definition1d {
	// size-built coordinates serialize their derived step
	d := &definition1d{Start: c.start.defValue(), Stop: c.stop.defValue(), Step: c.step.defValue()}
	c.properties.fillDefinition(d)
	return d
}

func (s *StackedCoordinates) definitions() []*definition1d {
	out := make([]*definition1d, len(s.comps))
	for i, comp := range s.comps {
		out[i] = comp.definition()
	}
	return out
}

func (c *Coordinates) definition() coordsDefinition {
	def := coordsDefinition{CRS: c.crs, Coords: make([]any, len(c.keys))}
	for i, key := range c.keys {
		d := c.dims[key]
		if d.stacked != nil {
			def.Coords[i] = d.stacked.definitions()
		} else {
			def.Coords[i] = d.c1.definition()
		}
	}
	return def
}

func (c *Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.definition())
}

func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var def coordsDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	built, err := fromDefinition(def)
	if err != nil {
		return err
	}
	*c = *built
	return nil
}

func (c *Coordinates) MarshalYAML() (any, error) {
	return c.definition(), nil
}

func (c *Coordinates) UnmarshalYAML(node *yaml.Node) error {
	var def coordsDefinition
	if err := node.Decode(&def); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	built, err := fromDefinition(def)
	if err != nil {
		return err
	}
	*c = *built
	return nil
}

// FromJSON rebuilds a coordinate set from its JSON definition.
func FromJSON(data []byte) (*Coordinates, error) {
	c := &Coordinates{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// FromYAML rebuilds a coordinate set from its YAML definition.
func FromYAML(data []byte) (*Coordinates, error) {
	c := &Coordinates{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func fromDefinition(def coordsDefinition) (*Coordinates, error) {
	dims := make([]Dim, len(def.Coords))
	for i, entry := range def.Coords {
		switch e := entry.(type) {
		case map[string]any:
			c1, err := decode1d(e)
			if err != nil {
				return nil, err
			}
			dims[i] = DimOf(c1)
		case []any:
			comps := make([]Coordinates1d, len(e))
			for j, sub := range e {
				m, ok := sub.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: stacked entry %d is not a dimension", ErrInvalidDefinition, j)
				}
				c1, err := decode1d(m)
				if err != nil {
					return nil, err
				}
				comps[j] = c1
			}
			s, err := NewStackedCoordinates(comps)
			if err != nil {
				return nil, err
			}
			dims[i] = StackedDim(s)
		default:
			return nil, fmt.Errorf("%w: coords entry %d", ErrInvalidDefinition, i)
		}
	}
	return NewCoordinates(dims, WithCoordsCRS(def.CRS))
}

func decode1d(m map[string]any) (Coordinates1d, error) {
	var (
		opts                       []Option
		start, stop                Value
		step                       Step
		size                       int
		values                     []Value
		hasStart, hasStop, hasStep bool
		hasSize, hasValues         bool
	)

	for key, raw := range m {
		var err error
		switch key {
		case "name":
			s, ok := raw.(string)
			if !ok {
				err = fmt.Errorf("%w: name must be a string", ErrInvalidDefinition)
			} else {
				opts = append(opts, WithName(s))
			}
		case "ctype":
			s, ok := raw.(string)
			if !ok || !validCtype(Ctype(s)) {
				err = fmt.Errorf("%w: ctype %v", ErrInvalidDefinition, raw)
			} else {
				opts = append(opts, WithCtype(Ctype(s)))
			}
		case "units":
			s, ok := raw.(string)
			if !ok {
				err = fmt.Errorf("%w: units must be a string", ErrInvalidDefinition)
			} else {
				opts = append(opts, WithUnits(s))
			}
		case "crs":
			s, ok := raw.(string)
			if !ok {
				err = fmt.Errorf("%w: crs must be a string", ErrInvalidDefinition)
			} else {
				opts = append(opts, WithCRS(s))
			}
		case "extents":
			pair, ok := raw.([]any)
			if !ok || len(pair) != 2 {
				err = fmt.Errorf("%w: extents must be a pair", ErrInvalidDefinition)
				break
			}
			var lo, hi Value
			if lo, err = valueFromAny(pair[0]); err != nil {
				break
			}
			if hi, err = valueFromAny(pair[1]); err != nil {
				break
			}
			opts = append(opts, WithExtents(lo, hi))
		case "start":
			start, err = valueFromAny(raw)
			hasStart = true
		case "stop":
			stop, err = valueFromAny(raw)
			hasStop = true
		case "step":
			step, err = stepFromAny(raw)
			hasStep = true
		case "size":
			n, ok := intFromAny(raw)
			if !ok {
				err = fmt.Errorf("%w: size %v", ErrInvalidDefinition, raw)
			}
			size = n
			hasSize = true
		case "values":
			list, ok := raw.([]any)
			if !ok {
				err = fmt.Errorf("%w: values must be a list", ErrInvalidDefinition)
				break
			}
			values = make([]Value, len(list))
			for i, x := range list {
				if values[i], err = valueFromAny(x); err != nil {
					break
				}
			}
			hasValues = true
		default:
			err = fmt.Errorf("%w: unknown key %q", ErrInvalidDefinition, key)
		}
		if err != nil {
			return nil, err
		}
	}

	switch {
	case hasValues && !hasStart && !hasStop && !hasStep && !hasSize:
		return NewArrayCoordinates1d(values, opts...)
	case hasStart && hasStop && hasStep && !hasSize && !hasValues:
		return NewUniformCoordinates1d(start, stop, step, opts...)
	case hasStart && hasStop && hasSize && !hasStep && !hasValues:
		return NewUniformCoordinates1dSize(start, stop, size, opts...)
	}
	return nil, fmt.Errorf("%w: need values, start/stop/step or start/stop/size", ErrInvalidDefinition)
}

func intFromAny(x any) (int, bool) {
	switch n := x.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
