package coordinates

import (
	"math"
	"testing"
)

func mustUniform(t *testing.T, start, stop, step float64, opts ...Option) *UniformCoordinates1d {
	t.Helper()
	c, err := NewUniformCoordinates1d(FloatValue(start), FloatValue(stop), FloatStep(step), opts...)
	if err != nil {
		t.Fatalf("uniform(%v, %v, %v): %v", start, stop, step, err)
	}
	return c
}

func mustTimeUniform(t *testing.T, start, stop, step string, opts ...Option) *UniformCoordinates1d {
	t.Helper()
	st, err := ParseStep(step)
	if err != nil {
		t.Fatalf("step %q: %v", step, err)
	}
	c, err := NewUniformCoordinates1d(mustTime(t, start), mustTime(t, stop), st, opts...)
	if err != nil {
		t.Fatalf("uniform(%s, %s, %s): %v", start, stop, step, err)
	}
	return c
}

func floatsOf(t *testing.T, c Coordinates1d) []float64 {
	t.Helper()
	vs := c.Values()
	out := make([]float64, len(vs))
	for i, v := range vs {
		if v.Dtype() != DtypeFloat {
			t.Fatalf("value %d is %s, want float", i, v.Dtype())
		}
		out[i] = v.Float()
	}
	return out
}

func stringsOf(c Coordinates1d) []string {
	vs := c.Values()
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUniform_Basics(t *testing.T) {
	c := mustUniform(t, 0, 50, 10)
	if c.Size() != 6 {
		t.Fatalf("size = %d, want 6", c.Size())
	}
	if !sameFloats(floatsOf(t, c), []float64{0, 10, 20, 30, 40, 50}) {
		t.Fatalf("values = %v", floatsOf(t, c))
	}
	if !c.IsMonotonic() || !c.IsUniform() {
		t.Fatal("uniform coordinates must be monotonic and uniform")
	}
	if desc, ok := c.IsDescending(); desc || !ok {
		t.Fatalf("descending = %v, %v", desc, ok)
	}
	b, ok := c.Bounds()
	if !ok || b.Lower.Float() != 0 || b.Upper.Float() != 50 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestUniform_InexactStop(t *testing.T) {
	c := mustUniform(t, 0, 49, 10)
	if c.Size() != 5 {
		t.Fatalf("size = %d, want 5", c.Size())
	}
	b, _ := c.Bounds()
	if b.Lower.Float() != 0 || b.Upper.Float() != 40 {
		t.Fatalf("bounds = [%v, %v], want [0, 40]", b.Lower, b.Upper)
	}
	// the given stop is preserved even though no value reaches it
	if c.Stop().Float() != 49 {
		t.Fatalf("stop = %v", c.Stop())
	}
}

func TestUniform_Descending(t *testing.T) {
	c := mustUniform(t, 50, 0, -10)
	if !sameFloats(floatsOf(t, c), []float64{50, 40, 30, 20, 10, 0}) {
		t.Fatalf("values = %v", floatsOf(t, c))
	}
	if desc, ok := c.IsDescending(); !desc || !ok {
		t.Fatalf("descending = %v, %v", desc, ok)
	}
	b, _ := c.Bounds()
	if b.Lower.Float() != 0 || b.Upper.Float() != 50 {
		t.Fatalf("bounds = [%v, %v]", b.Lower, b.Upper)
	}
}

func TestUniform_WrongDirection(t *testing.T) {
	if _, err := NewUniformCoordinates1d(FloatValue(0), FloatValue(50), FloatStep(-10)); err == nil {
		t.Fatal("expected error")
	}
	if _, err := NewUniformCoordinates1d(FloatValue(0), FloatValue(50), FloatStep(0)); err == nil {
		t.Fatal("expected error for zero step")
	}
}

func TestUniform_SinglePoint(t *testing.T) {
	c := mustUniform(t, 5, 5, 10)
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
	// ordering comes from the step sign even for a single value
	if desc, ok := c.IsDescending(); desc || !ok {
		t.Fatalf("descending = %v, %v", desc, ok)
	}
	if desc, ok := mustUniform(t, 5, 5, -10).IsDescending(); !desc || !ok {
		t.Fatalf("descending = %v, %v", desc, ok)
	}
}

func TestUniform_MonthSteps(t *testing.T) {
	c := mustTimeUniform(t, "2018-01-01", "2018-04-01", "1,M")
	want := []string{"2018-01-01", "2018-02-01", "2018-03-01", "2018-04-01"}
	if !sameStrings(stringsOf(c), want) {
		t.Fatalf("values = %v", stringsOf(c))
	}
}

func TestUniform_MonthSteps_ClampDay(t *testing.T) {
	c := mustTimeUniform(t, "2018-01-31", "2018-04-30", "1,M")
	want := []string{"2018-01-31", "2018-02-28", "2018-03-31", "2018-04-30"}
	if !sameStrings(stringsOf(c), want) {
		t.Fatalf("values = %v", stringsOf(c))
	}
}

func TestUniform_YearSteps_InexactStop(t *testing.T) {
	c := mustTimeUniform(t, "2018-04-01", "2021-01-01", "1,Y")
	want := []string{"2018-04-01", "2019-04-01", "2020-04-01"}
	if !sameStrings(stringsOf(c), want) {
		t.Fatalf("values = %v", stringsOf(c))
	}
}

func TestUniform_HourSteps(t *testing.T) {
	c := mustTimeUniform(t, "2018-01-01", "2018-01-02", "6,h")
	if c.Size() != 5 {
		t.Fatalf("size = %d, want 5", c.Size())
	}
	if got := stringsOf(c)[1]; got != "2018-01-01T06:00:00" {
		t.Fatalf("values[1] = %q", got)
	}
}

func TestClinspace_Floats(t *testing.T) {
	c, err := Clinspace(0.0, 10.0, 21)
	if err != nil {
		t.Fatalf("clinspace: %v", err)
	}
	vs := floatsOf(t, c)
	if len(vs) != 21 || vs[0] != 0 || vs[20] != 10 {
		t.Fatalf("values = %v", vs)
	}
	if vs[1] != 0.5 {
		t.Fatalf("values[1] = %v, want 0.5", vs[1])
	}
}

func TestClinspace_Times(t *testing.T) {
	c, err := Clinspace("2018-01-01", "2018-01-05", 5)
	if err != nil {
		t.Fatalf("clinspace: %v", err)
	}
	if got := stringsOf(c)[3]; got != "2018-01-04" {
		t.Fatalf("values[3] = %q", got)
	}
}

func TestClinspace_Invalid(t *testing.T) {
	if _, err := Clinspace(0.0, 10.0, 1); err == nil {
		t.Fatal("expected error for size < 2")
	}
	if _, err := Clinspace(3.0, 3.0, 5); err == nil {
		t.Fatal("expected error for equal endpoints")
	}
	// 4 days do not divide into 3 even steps of whole nanoseconds
	if _, err := Clinspace("2018-01-01", "2018-01-01T00:00:00.000000010", 4); err == nil {
		t.Fatal("expected error for fractional step")
	}
}

func TestCrange_LooseTypes(t *testing.T) {
	c, err := Crange("2018-01-01", "2018-01-04", "1,D")
	if err != nil {
		t.Fatalf("crange: %v", err)
	}
	if c.Size() != 4 {
		t.Fatalf("size = %d, want 4", c.Size())
	}
}

func TestUniformSelect_Inner(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	sub, ix := c.SelectIndex(NewBounds(FloatValue(30), FloatValue(55)), false)
	if !sameFloats(floatsOf(t, sub), []float64{30, 40, 50}) {
		t.Fatalf("selection = %v", floatsOf(t, sub))
	}
	from, to, step, ok := ix.Slice()
	if !ok || from != 1 || to != 4 || step != 1 {
		t.Fatalf("indexer = [%d:%d:%d] %v", from, to, step, ok)
	}
	if !sub.IsUniform() {
		t.Fatal("selection of uniform coordinates should stay uniform")
	}
}

func TestUniformSelect_Outer(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	sub := c.Select(NewBounds(FloatValue(30), FloatValue(55)), true)
	if !sameFloats(floatsOf(t, sub), []float64{20, 30, 40, 50, 60}) {
		t.Fatalf("selection = %v", floatsOf(t, sub))
	}
}

func TestUniformSelect_OuterEmptyInner(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	sub := c.Select(NewBounds(FloatValue(52), FloatValue(55)), true)
	if !sameFloats(floatsOf(t, sub), []float64{50, 60}) {
		t.Fatalf("selection = %v", floatsOf(t, sub))
	}
	if inner := c.Select(NewBounds(FloatValue(52), FloatValue(55)), false); inner.Size() != 0 {
		t.Fatalf("inner selection = %v", floatsOf(t, inner))
	}
}

func TestUniformSelect_Descending(t *testing.T) {
	c := mustUniform(t, 70, 20, -10)
	sub, ix := c.SelectIndex(NewBounds(FloatValue(30), FloatValue(55)), false)
	if !sameFloats(floatsOf(t, sub), []float64{50, 40, 30}) {
		t.Fatalf("selection = %v", floatsOf(t, sub))
	}
	picked, err := ix.Apply(c.Values())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(picked) != 3 || picked[0].Float() != 50 {
		t.Fatalf("picked = %v", picked)
	}
}

func TestUniformSelect_NoOverlap(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	if sub := c.Select(NewBounds(FloatValue(100), FloatValue(200)), false); sub.Size() != 0 {
		t.Fatalf("selection size = %d", sub.Size())
	}
}

func TestUniformSelect_OuterNoOverlap(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	if sub := c.Select(NewBounds(FloatValue(100), FloatValue(200)), true); sub.Size() != 0 {
		t.Fatalf("selection above = %v", floatsOf(t, sub))
	}
	if sub := c.Select(NewBounds(FloatValue(-10), FloatValue(5)), true); sub.Size() != 0 {
		t.Fatalf("selection below = %v", floatsOf(t, sub))
	}

	desc := mustUniform(t, 70, 20, -10)
	if sub := desc.Select(NewBounds(FloatValue(100), FloatValue(200)), true); sub.Size() != 0 {
		t.Fatalf("descending selection = %v", floatsOf(t, sub))
	}
}

func TestUniformSelect_BackwardsBounds(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	b := Bounds{Lower: FloatValue(55), Upper: FloatValue(30)}
	if sub := c.Select(b, false); sub.Size() != 0 {
		t.Fatalf("selection size = %d", sub.Size())
	}
}

func TestUniformSelect_DtypeMismatch(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	b := NewBounds(mustTime(t, "2018-01-01"), mustTime(t, "2019-01-01"))
	if sub := c.Select(b, false); sub.Size() != 0 {
		t.Fatalf("selection size = %d", sub.Size())
	}
}

func TestUniformSelect_Times(t *testing.T) {
	c := mustTimeUniform(t, "2018-01-01", "2018-01-10", "1,D")
	b := NewBounds(mustTime(t, "2018-01-03"), mustTime(t, "2018-01-06"))
	sub := c.Select(b, false)
	want := []string{"2018-01-03", "2018-01-04", "2018-01-05", "2018-01-06"}
	if !sameStrings(stringsOf(sub), want) {
		t.Fatalf("selection = %v", stringsOf(sub))
	}
}

func TestUniformAreaBounds_Ctypes(t *testing.T) {
	cases := []struct {
		ctype  Ctype
		lo, hi float64
	}{
		{CtypePoint, 0, 50},
		{CtypeLeft, 0, 60},
		{CtypeRight, -10, 50},
		{CtypeMidpoint, -5, 55},
	}
	for _, tc := range cases {
		c := mustUniform(t, 0, 50, 10, WithCtype(tc.ctype))
		ab, ok := c.AreaBounds()
		if !ok {
			t.Fatalf("%s: no area bounds", tc.ctype)
		}
		if ab.Lower.Float() != tc.lo || ab.Upper.Float() != tc.hi {
			t.Fatalf("%s: area bounds = [%v, %v], want [%v, %v]",
				tc.ctype, ab.Lower, ab.Upper, tc.lo, tc.hi)
		}
	}
}

func TestUniformAreaBounds_SinglePointLeft(t *testing.T) {
	c := mustUniform(t, 0, 0, 10, WithCtype(CtypeLeft))
	ab, _ := c.AreaBounds()
	if ab.Lower.Float() != 0 || ab.Upper.Float() != 10 {
		t.Fatalf("area bounds = [%v, %v], want [0, 10]", ab.Lower, ab.Upper)
	}
}

func TestUniformAreaBounds_ExtentsOverride(t *testing.T) {
	c := mustUniform(t, 0, 50, 10, WithCtype(CtypeLeft), WithExtents(FloatValue(-2), FloatValue(62)))
	ab, _ := c.AreaBounds()
	if ab.Lower.Float() != -2 || ab.Upper.Float() != 62 {
		t.Fatalf("area bounds = [%v, %v], want [-2, 62]", ab.Lower, ab.Upper)
	}
}

func TestUniform_ExtentsWithPointCtype(t *testing.T) {
	_, err := NewUniformCoordinates1d(FloatValue(0), FloatValue(50), FloatStep(10),
		WithCtype(CtypePoint), WithExtents(FloatValue(0), FloatValue(60)))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestUniformIndexing(t *testing.T) {
	c := mustUniform(t, 0, 50, 10)

	one, err := c.Index(2)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if one.Size() != 1 || one.Values()[0].Float() != 20 {
		t.Fatalf("index(2) = %v", floatsOf(t, one))
	}

	rng, err := c.Range(1, 4)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !sameFloats(floatsOf(t, rng), []float64{10, 20, 30}) {
		t.Fatalf("range = %v", floatsOf(t, rng))
	}
	if !rng.IsUniform() {
		t.Fatal("range of uniform should stay uniform")
	}

	str, err := c.Stride(0, 6, 2)
	if err != nil {
		t.Fatalf("stride: %v", err)
	}
	if !sameFloats(floatsOf(t, str), []float64{0, 20, 40}) {
		t.Fatalf("stride = %v", floatsOf(t, str))
	}
	if !str.IsUniform() {
		t.Fatal("stride of uniform should stay uniform")
	}

	picked, err := c.Pick([]int{0, 3, 3})
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if picked.IsUniform() {
		t.Fatal("pick should produce array coordinates")
	}
	if !sameFloats(floatsOf(t, picked), []float64{0, 30, 30}) {
		t.Fatalf("pick = %v", floatsOf(t, picked))
	}

	rev := c.Reverse()
	if !sameFloats(floatsOf(t, rev), []float64{50, 40, 30, 20, 10, 0}) {
		t.Fatalf("reverse = %v", floatsOf(t, rev))
	}

	if _, err := c.Index(6); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := c.Range(2, 9); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestUniform_CopyAndEqual(t *testing.T) {
	c := mustUniform(t, 0, 50, 10, WithName("lat"))
	cp, err := c.Copy()
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !c.Equal(cp) {
		t.Fatal("copy should be equal")
	}

	renamed, err := c.Copy(WithName("lon"))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if c.Equal(renamed) {
		t.Fatal("renamed copy should not be equal")
	}
	if c.Equal(mustUniform(t, 0, 50, 10, WithName("lat"), WithCtype(CtypeLeft))) {
		t.Fatal("ctype change should break equality")
	}
}

func TestUniform_Intersect(t *testing.T) {
	c := mustUniform(t, 20, 70, 10)
	other := mustUniform(t, 35, 65, 5)
	sub, err := c.Intersect(other, false)
	if err != nil {
		t.Fatalf("intersect: %v", err)
	}
	if !sameFloats(floatsOf(t, sub), []float64{40, 50, 60}) {
		t.Fatalf("intersection = %v", floatsOf(t, sub))
	}

	times := mustTimeUniform(t, "2018-01-01", "2018-01-04", "1,D")
	if _, err := c.Intersect(times, false); err == nil {
		t.Fatal("expected dtype mismatch error")
	}
}
