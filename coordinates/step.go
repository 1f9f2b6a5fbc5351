package coordinates

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type stepKind int

const (
	stepFloat stepKind = iota
	stepDuration
	stepMonths
	stepYears
)

// Step is the spacing between uniform coordinates: a plain float64 for
// numeric coordinates, or a signed count of time units for datetimes.
// Month ("M") and year ("Y") units advance per calendar rather than by a
// fixed duration; all other units are fixed durations.
type Step struct {
	kind stepKind
	f    float64
	n    int64  // unit count for time steps
	unit string // "Y" "M" "W" "D" "h" "m" "s" "ms" "us" "ns"
}

var unitDurations = map[string]time.Duration{
	"W":  7 * 24 * time.Hour,
	"D":  24 * time.Hour,
	"h":  time.Hour,
	"m":  time.Minute,
	"s":  time.Second,
	"ms": time.Millisecond,
	"us": time.Microsecond,
	"ns": time.Nanosecond,
}

func FloatStep(f float64) Step { return Step{kind: stepFloat, f: f} }

// TimeStep builds a step of n units, where unit is a calendar unit code:
// Y, M, W, D, h, m, s, ms, us or ns.
func TimeStep(n int64, unit string) (Step, error) {
	switch unit {
	case "Y":
		return Step{kind: stepYears, n: n, unit: unit}, nil
	case "M":
		return Step{kind: stepMonths, n: n, unit: unit}, nil
	default:
		if _, ok := unitDurations[unit]; !ok {
			return Step{}, fmt.Errorf("%w: unknown time unit %q", ErrInvalidStep, unit)
		}
		return Step{kind: stepDuration, n: n, unit: unit}, nil
	}
}

// DurationStep builds a fixed-duration step, reduced to the coarsest unit
// that divides it evenly so it round-trips through definitions cleanly.
func DurationStep(d time.Duration) Step {
	for _, unit := range []string{"D", "h", "m", "s", "ms", "us"} {
		if u := unitDurations[unit]; d%u == 0 {
			return Step{kind: stepDuration, n: int64(d / u), unit: unit}
		}
	}
	return Step{kind: stepDuration, n: int64(d), unit: "ns"}
}

// ParseStep parses the "<N>,<unit>" form, e.g. "1,D", "-2,h", "1,M".
func ParseStep(s string) (Step, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return Step{}, fmt.Errorf("%w: expected \"<N>,<unit>\", got %q", ErrInvalidStep, s)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Step{}, fmt.Errorf("%w: bad step count in %q", ErrInvalidStep, s)
	}
	return TimeStep(n, strings.TrimSpace(parts[1]))
}

func (s Step) Dtype() Dtype {
	if s.kind == stepFloat {
		return DtypeFloat
	}
	return DtypeTime
}

func (s Step) IsCalendar() bool { return s.kind == stepMonths || s.kind == stepYears }

func (s Step) IsZero() bool {
	if s.kind == stepFloat {
		return s.f == 0
	}
	return s.n == 0
}

func (s Step) Positive() bool {
	if s.kind == stepFloat {
		return s.f > 0
	}
	return s.n > 0
}

func (s Step) Negate() Step {
	out := s
	out.f = -s.f
	out.n = -s.n
	return out
}

func (s Step) Abs() Step {
	if s.Positive() || s.IsZero() {
		return s
	}
	return s.Negate()
}

func (s Step) Float() float64 { return s.f }

// Duration reports the fixed duration of the step; ok is false for numeric
// and calendar steps.
func (s Step) Duration() (time.Duration, bool) {
	if s.kind != stepDuration {
		return 0, false
	}
	return time.Duration(s.n) * unitDurations[s.unit], true
}

func (s Step) String() string {
	if s.kind == stepFloat {
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	}
	return fmt.Sprintf("%d,%s", s.n, s.unit)
}

// defValue lowers a Step to a JSON/YAML-native type: a number for numeric
// steps, a "<N>,<unit>" string otherwise.
func (s Step) defValue() any {
	if s.kind == stepFloat {
		return s.f
	}
	return s.String()
}

func stepFromAny(x any) (Step, error) {
	switch t := x.(type) {
	case float64:
		return FloatStep(t), nil
	case int:
		return FloatStep(float64(t)), nil
	case int64:
		return FloatStep(float64(t)), nil
	case string:
		return ParseStep(t)
	default:
		return Step{}, fmt.Errorf("%w: unsupported step type %T", ErrInvalidDefinition, x)
	}
}

// scale multiplies the step by an integer factor.
func (s Step) scale(k int64) Step {
	if s.kind == stepFloat {
		return FloatStep(s.f * float64(k))
	}
	s.n *= k
	return s
}

// apply advances v by k steps. Calendar steps advance month/year fields and
// clamp the day to the target month's length.
func (s Step) apply(v Value, k int64) Value {
	switch s.kind {
	case stepFloat:
		return FloatValue(v.f + s.f*float64(k))
	case stepDuration:
		return TimeValue(v.t.Add(time.Duration(s.n*k) * unitDurations[s.unit]))
	case stepMonths:
		return TimeValue(addMonths(v.t, int(s.n*k)))
	default: // stepYears
		return TimeValue(addMonths(v.t, int(12*s.n*k)))
	}
}

// count returns the number of whole steps that fit between start and stop in
// the step's direction: the largest k >= 0 with apply(start, k) not past
// stop. The step sign is assumed consistent with the start/stop ordering.
func (s Step) count(start, stop Value) int {
	switch s.kind {
	case stepFloat:
		r := (stop.f - start.f) / s.f
		if r < 0 {
			return 0
		}
		return int(math.Floor(r + floatStepTol))
	case stepDuration:
		d, _ := s.Duration()
		span := stop.t.Sub(start.t)
		k := int64(span) / int64(d)
		if k < 0 {
			return 0
		}
		return int(k)
	default:
		return s.countCalendar(start, stop)
	}
}

// relative tolerance in step units, absorbing float accumulation error.
const floatStepTol = 1e-8

func (s Step) countCalendar(start, stop Value) int {
	per := int(s.n)
	if s.kind == stepYears {
		per *= 12
	}
	m := monthsBetween(start.t, stop.t)
	k := m / per // both negative when descending
	if k < 0 {
		k = 0
	}
	// analytic estimate, then settle on the exact boundary
	for k > 0 && s.past(s.apply(start, int64(k)), stop) {
		k--
	}
	for !s.past(s.apply(start, int64(k+1)), stop) {
		k++
	}
	return k
}

// past reports whether v lies beyond limit in the step's direction.
func (s Step) past(v, limit Value) bool {
	if s.Positive() {
		return limit.Less(v)
	}
	return v.Less(limit)
}

func monthsBetween(a, b time.Time) int {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return (by-ay)*12 + int(bm) - int(am)
}

func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := y*12 + int(m) - 1 + months
	ny, nm := total/12, total%12
	if nm < 0 {
		nm += 12
		ny--
	}
	month := time.Month(nm + 1)
	if last := daysIn(ny, month); d > last {
		d = last
	}
	return time.Date(ny, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
