package acistherm

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonum/floats"
)

func TestTableRoundTrip(t *testing.T) {
	table := NewTable()
	table.AddFloats("time", []float64{100.25, 200.5, 300.75})
	table.AddStrings("date", []string{"a", "b", "c"})
	table.AddFloats("1dpamzt", []float64{21.12, 25.66, 35.91})

	filename := filepath.Join(t.TempDir(), "model.dat")
	if err := table.WriteTable(filename, false); err != nil {
		t.Fatal(err)
	}
	back, err := ReadTable(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Names) != 3 || back.Names[0] != "time" || back.Names[1] != "date" || back.Names[2] != "1dpamzt" {
		t.Fatalf("column names do not round trip: %v", back.Names)
	}
	// Values round trip to the written %.2f precision.
	for _, name := range []string{"time", "1dpamzt"} {
		if !floats.EqualApprox(back.Columns[name].Floats, table.Columns[name].Floats, 0.005) {
			t.Fatalf("column %s does not round trip: %v", name, back.Columns[name].Floats)
		}
	}
	if strings.Join(back.Columns["date"].Strings, "") != "abc" {
		t.Fatalf("string column does not round trip: %v", back.Columns["date"].Strings)
	}
}

func TestTableOverwriteProtection(t *testing.T) {
	table := NewTable()
	table.AddFloats("time", []float64{1})
	filename := filepath.Join(t.TempDir(), "out.dat")
	if err := table.WriteTable(filename, false); err != nil {
		t.Fatal(err)
	}
	if err := table.WriteTable(filename, false); err == nil {
		t.Fatal("expected an error when overwriting without overwrite set")
	}
	if err := table.WriteTable(filename, true); err != nil {
		t.Fatalf("overwrite=true must succeed: %s", err)
	}
}

func TestParseTableComments(t *testing.T) {
	input := `# a comment
time date  pitch
100.00 2016:201:05:12:03.000 150.00

200.00 2016:201:05:28:43.000 151.50
`
	table, err := ParseTable(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(table.Columns["time"].Floats, []float64{100, 200}) {
		t.Fatalf("time column: %v", table.Columns["time"].Floats)
	}
	if !table.Columns["date"].IsString() {
		t.Fatal("date column must be a string column")
	}
	if !floats.Equal(table.Columns["pitch"].Floats, []float64{150, 151.5}) {
		t.Fatalf("pitch column: %v", table.Columns["pitch"].Floats)
	}
}

func TestWriteTableUnequalColumns(t *testing.T) {
	table := NewTable()
	table.AddFloats("time", []float64{1, 2, 3})
	table.AddFloats("pitch", []float64{150, 151})
	filename := filepath.Join(t.TempDir(), "out.dat")
	if err := table.WriteTable(filename, false); err == nil {
		t.Fatal("columns of unequal length must be an error")
	}
}

func TestParseTableRaggedRow(t *testing.T) {
	if _, err := ParseTable(strings.NewReader("a b\n1 2 3\n")); err == nil {
		t.Fatal("expected an error for a ragged row")
	}
}
