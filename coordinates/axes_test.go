package coordinates

import "testing"

func TestAxes_FlattensGrid(t *testing.T) {
	c, err := Grid([]string{"lat", "time"},
		mustUniform(t, 0, 10, 5),
		mustTimeUniform(t, "2018-01-01", "2018-01-03", "1,D"))
	if err != nil {
		t.Fatalf("grid: %v", err)
	}

	axes := c.Axes()
	if len(axes) != 2 || axes[0].Name != "lat" || axes[1].Name != "time" {
		t.Fatalf("axes = %v", axes)
	}
	lat := axes[0].Components[0]
	if !sameFloats(lat.Floats, []float64{0, 5, 10}) || lat.Times != nil {
		t.Fatalf("lat component = %v", lat)
	}
	tm := axes[1].Components[0]
	if len(tm.Times) != 3 || tm.Floats != nil {
		t.Fatalf("time component = %v", tm)
	}
}

func TestAxes_StackedRoundTrip(t *testing.T) {
	c, err := Points([]string{"lat", "lon"},
		mustArray(t, []float64{0, 1, 2}),
		mustArray(t, []float64{10, 20, 30}))
	if err != nil {
		t.Fatalf("points: %v", err)
	}

	axes := c.Axes()
	if len(axes) != 1 || axes[0].Name != "lat_lon" || len(axes[0].Components) != 2 {
		t.Fatalf("axes = %v", axes)
	}

	back, err := FromAxes(axes)
	if err != nil {
		t.Fatalf("from axes: %v", err)
	}
	if !c.Equal(back) {
		t.Fatal("stacked axis round trip changed the coordinates")
	}
}

func TestFromAxes_Validation(t *testing.T) {
	if _, err := FromAxes([]Axis{{Name: "lat"}}); err == nil {
		t.Fatal("expected error for empty axis")
	}
	bad := []Axis{{Name: "lat", Components: []AxisComponent{{Name: "lat"}}}}
	if _, err := FromAxes(bad); err == nil {
		t.Fatal("expected error for component without values")
	}
}
