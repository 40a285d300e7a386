package acistherm

import (
	"testing"
)

func TestDataArrayLengthMismatch(t *testing.T) {
	if _, err := NewDataArray([]float64{1, 2}, []float64{0}, ""); err == nil {
		t.Fatal("mismatched value and time axes must be an error")
	}
	if _, err := NewStringArray([]string{"a"}, []float64{0, 1}); err == nil {
		t.Fatal("mismatched value and time axes must be an error")
	}
}

func TestTimeSeriesDataKeys(t *testing.T) {
	ts := NewTimeSeriesData()
	for _, name := range []string{"1deamzt", "1dpamzt", "1pdeaat"} {
		d, err := NewDataArray([]float64{1}, []float64{0}, "deg_C")
		if err != nil {
			t.Fatal(err)
		}
		ts.Set(name, d)
	}
	keys := ts.Keys()
	if len(keys) != 3 || keys[0] != "1deamzt" || keys[2] != "1pdeaat" {
		t.Fatalf("keys must preserve insertion order: %v", keys)
	}
	if !ts.Contains("1dpamzt") || ts.Contains("fptemp_11") {
		t.Fatal("containment lookups wrong")
	}
	if _, err := ts.Get("fptemp_11"); err == nil {
		t.Fatal("unknown quantities must be an error")
	}
}

func TestEmptyTimeSeries(t *testing.T) {
	ts := EmptyTimeSeries()
	if !ts.IsEmpty() || len(ts.Keys()) != 0 {
		t.Fatal("empty series must stay empty")
	}
}
