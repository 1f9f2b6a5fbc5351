// Package coordinates implements labeled coordinate systems for geospatial
// data access: uniform ranges, explicit arrays, stacked tuples of dimensions
// (lat_lon), and the intersection/selection algebra over them.
package coordinates

import (
	"fmt"
	"strconv"
	"time"
)

// Dtype identifies the value type of a coordinate sequence. Values within
// one coordinate object are homogeneous: all float64 or all UTC datetimes.
type Dtype int

const (
	DtypeNone Dtype = iota // no values (empty coordinates)
	DtypeFloat
	DtypeTime
)

func (d Dtype) String() string {
	switch d {
	case DtypeFloat:
		return "float"
	case DtypeTime:
		return "time"
	default:
		return "none"
	}
}

// Value is a single coordinate value: a float64 or a UTC timestamp.
// The zero Value has DtypeNone and is not a usable coordinate.
type Value struct {
	dtype Dtype
	f     float64
	t     time.Time
}

func FloatValue(f float64) Value { return Value{dtype: DtypeFloat, f: f} }

func TimeValue(t time.Time) Value { return Value{dtype: DtypeTime, t: t.UTC()} }

// layouts accepted for datetime values, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseValue parses an ISO date/time string or a numeric string.
func ParseValue(s string) (Value, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue(t), nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f), nil
	}
	return Value{}, fmt.Errorf("%w: cannot parse value %q", ErrInvalidCoords, s)
}

func (v Value) Dtype() Dtype    { return v.dtype }
func (v Value) Float() float64  { return v.f }
func (v Value) Time() time.Time { return v.t }

// Cmp compares two values of the same dtype: -1, 0, or +1.
func (v Value) Cmp(o Value) int {
	if v.dtype == DtypeTime {
		return v.t.Compare(o.t)
	}
	switch {
	case v.f < o.f:
		return -1
	case v.f > o.f:
		return 1
	default:
		return 0
	}
}

func (v Value) Less(o Value) bool  { return v.Cmp(o) < 0 }
func (v Value) Equal(o Value) bool { return v.dtype == o.dtype && v.Cmp(o) == 0 }

func (v Value) String() string {
	if v.dtype == DtypeTime {
		return formatTime(v.t)
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}

// formatTime keeps datetime strings as short as the value allows, mirroring
// how the values are written in definitions ("2018-01-01", not a full
// timestamp, for midnight dates).
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.999999999")
}

// defValue lowers a Value to a JSON/YAML-native type.
func (v Value) defValue() any {
	if v.dtype == DtypeTime {
		return v.String()
	}
	return v.f
}

// valueFromAny lifts a decoded JSON/YAML scalar back into a Value.
func valueFromAny(x any) (Value, error) {
	switch t := x.(type) {
	case float64:
		return FloatValue(t), nil
	case int:
		return FloatValue(float64(t)), nil
	case int64:
		return FloatValue(float64(t)), nil
	case uint64:
		return FloatValue(float64(t)), nil
	case string:
		return ParseValue(t)
	case time.Time:
		return TimeValue(t), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrInvalidDefinition, x)
	}
}

func minValue(a, b Value) Value {
	if b.Less(a) {
		return b
	}
	return a
}

func maxValue(a, b Value) Value {
	if a.Less(b) {
		return b
	}
	return a
}

// Bounds is an inclusive [Lower, Upper] value interval. Lower and Upper are
// ascending-sorted regardless of coordinate ordering.
type Bounds struct {
	Lower Value
	Upper Value
}

func NewBounds(a, b Value) Bounds {
	return Bounds{Lower: minValue(a, b), Upper: maxValue(a, b)}
}

func (b Bounds) Dtype() Dtype { return b.Lower.dtype }
