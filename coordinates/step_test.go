package coordinates

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) Value {
	t.Helper()
	v, err := ParseValue(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestParseStep_Units(t *testing.T) {
	s, err := ParseStep("1,M")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !s.IsCalendar() {
		t.Fatal("1,M should be a calendar step")
	}

	s, err = ParseStep("-2,h")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Positive() {
		t.Fatal("-2,h should be negative")
	}
	if d, ok := s.Duration(); !ok || d != -2*time.Hour {
		t.Fatalf("duration = %v, %v", d, ok)
	}
}

func TestParseStep_Bad(t *testing.T) {
	for _, in := range []string{"", "1", "1,parsec", "x,D"} {
		if _, err := ParseStep(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestStep_StringRoundTrip(t *testing.T) {
	for _, in := range []string{"1,M", "2,Y", "-6,h", "10,D"} {
		s, err := ParseStep(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := s.String(); got != in {
			t.Fatalf("String() = %q, want %q", got, in)
		}
	}
}

func TestDurationStep_ReducesUnit(t *testing.T) {
	s := DurationStep(48 * time.Hour)
	if got := s.String(); got != "2,D" {
		t.Fatalf("String() = %q, want 2,D", got)
	}
	s = DurationStep(90 * time.Minute)
	if got := s.String(); got != "90,m" {
		t.Fatalf("String() = %q, want 90,m", got)
	}
}

func TestStepApply_MonthClampsDay(t *testing.T) {
	s, _ := ParseStep("1,M")
	got := s.apply(mustTime(t, "2018-01-31"), 1)
	if want := mustTime(t, "2018-02-28"); !got.Equal(want) {
		t.Fatalf("2018-01-31 + 1M = %v, want %v", got, want)
	}
	got = s.apply(mustTime(t, "2020-01-31"), 1)
	if want := mustTime(t, "2020-02-29"); !got.Equal(want) {
		t.Fatalf("2020-01-31 + 1M = %v, want %v", got, want)
	}
}

func TestStepApply_NegativeMonths(t *testing.T) {
	s, _ := ParseStep("-1,M")
	got := s.apply(mustTime(t, "2018-03-31"), 1)
	if want := mustTime(t, "2018-02-28"); !got.Equal(want) {
		t.Fatalf("2018-03-31 - 1M = %v, want %v", got, want)
	}
}

func TestStepCount_FloatTolerance(t *testing.T) {
	// 0.1 accumulates binary error; the count must still land on 10
	s := FloatStep(0.1)
	if n := s.count(FloatValue(0), FloatValue(1)); n != 10 {
		t.Fatalf("count = %d, want 10", n)
	}
}

func TestStepCount_InexactStop(t *testing.T) {
	s := FloatStep(10)
	if n := s.count(FloatValue(0), FloatValue(49)); n != 4 {
		t.Fatalf("count = %d, want 4", n)
	}
}

func TestStepCount_CalendarInexact(t *testing.T) {
	s, _ := ParseStep("1,Y")
	// 2018-04-01, 2019-04-01, 2020-04-01 fit; 2021-04-01 passes the stop
	n := s.count(mustTime(t, "2018-04-01"), mustTime(t, "2021-01-01"))
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestStepCount_DescendingCalendar(t *testing.T) {
	s, _ := ParseStep("-1,M")
	n := s.count(mustTime(t, "2018-04-01"), mustTime(t, "2018-01-01"))
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}
