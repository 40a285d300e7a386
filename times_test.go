package acistherm

import (
	"testing"

	"github.com/gonum/floats"
)

func TestEpochOffset(t *testing.T) {
	secs, err := DateToSecs("1998:001:00:00:00.000")
	if err != nil {
		t.Fatal(err)
	}
	// TT led UTC by 63.184s at the 1998.0 epoch.
	if !floats.EqualWithinAbs(secs, 63.184, 1e-6) {
		t.Fatalf("1998:001:00:00:00 = %f s, want 63.184", secs)
	}
}

func TestDateRoundTrip(t *testing.T) {
	for _, date := range []string{
		"1998:001:00:00:00.000",
		"2016:201:05:12:03.000",
		"2021:365:23:59:59.500",
	} {
		secs, err := DateToSecs(date)
		if err != nil {
			t.Fatal(err)
		}
		if got := SecsToDate(secs); got != date {
			t.Fatalf("round trip of %s gave %s", date, got)
		}
	}
}

func TestParseTime(t *testing.T) {
	want, err := DateToSecs("2016:201:05:12:03.000")
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{"2016:201:05:12:03", "2016-07-19 05:12:03"} {
		got, err := ParseTime(in)
		if err != nil {
			t.Fatalf("ParseTime(%s): %s", in, err)
		}
		if !floats.EqualWithinAbs(got, want, 1e-6) {
			t.Fatalf("ParseTime(%s) = %f, want %f", in, got, want)
		}
	}
	if got, err := ParseTime("12345.5"); err != nil || got != 12345.5 {
		t.Fatalf("ParseTime of raw seconds gave %f, %v", got, err)
	}
	if _, err := ParseTime("not a time"); err == nil {
		t.Fatal("expected an error for garbage input")
	}
}

func TestSecsToJD(t *testing.T) {
	// 1998-01-01T00:00:00 UTC is JD 2450814.5.
	if jd := SecsToJD(63.184); !floats.EqualWithinAbs(jd, 2450814.5, 1e-6) {
		t.Fatalf("JD = %f, want 2450814.5", jd)
	}
}
