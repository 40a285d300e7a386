package acistherm

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/gonum/floats"
)

func writeArchiveDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE msid_data (msid TEXT, time REAL, value REAL, quality INTEGER)`); err != nil {
		t.Fatal(err)
	}
	insert := `INSERT INTO msid_data VALUES (?, ?, ?, ?)`
	for i, row := range []struct {
		time    float64
		value   float64
		quality int
	}{
		{0, 20, 0},
		{1000, 99, 1}, // flagged bad
		{2000, 22, 0},
		{3000, 23, 0},
	} {
		if _, err := db.Exec(insert, "1dpamzt", row.time, row.value, row.quality); err != nil {
			t.Fatalf("row %d: %s", i, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

func TestMSIDsFromArchive(t *testing.T) {
	dbPath := writeArchiveDB(t)
	msids, err := NewMSIDsFromArchive(dbPath, []string{"1dpamzt"}, 0, 3000, ArchiveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	d, err := msids.Get("1dpamzt")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(d.Values, []float64{20, 99, 22, 23}) {
		t.Fatalf("unfiltered values: %v", d.Values)
	}
	if d.Unit != "deg_C" {
		t.Fatalf("unit: %s", d.Unit)
	}
}

func TestMSIDsFromArchiveFiltersBad(t *testing.T) {
	dbPath := writeArchiveDB(t)
	msids, err := NewMSIDsFromArchive(dbPath, []string{"1dpamzt"}, 0, 3000, ArchiveOptions{FilterBad: true})
	if err != nil {
		t.Fatal(err)
	}
	d, err := msids.Get("1dpamzt")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(d.Values, []float64{20, 22, 23}) {
		t.Fatalf("filtered values: %v", d.Values)
	}
	if !floats.Equal(d.Times, []float64{0, 2000, 3000}) {
		t.Fatalf("filtered times: %v", d.Times)
	}
}

func TestMSIDsFromArchiveInterpolates(t *testing.T) {
	dbPath := writeArchiveDB(t)
	grid := []float64{0, 500, 2500, 3000}
	msids, err := NewMSIDsFromArchive(dbPath, []string{"1dpamzt"}, 0, 3000,
		ArchiveOptions{FilterBad: true, InterpolateTimes: grid})
	if err != nil {
		t.Fatal(err)
	}
	d, err := msids.Get("1dpamzt")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(d.Times, grid) {
		t.Fatalf("interpolated times: %v", d.Times)
	}
	// 500 lies between the good samples at 0 and 2000, 2500 between 2000
	// and 3000.
	if !floats.EqualApprox(d.Values, []float64{20, 20.5, 22.5, 23}, 1e-12) {
		t.Fatalf("interpolated values: %v", d.Values)
	}
}

func TestMSIDsFromArchiveEmptyWindow(t *testing.T) {
	dbPath := writeArchiveDB(t)
	if _, err := NewMSIDsFromArchive(dbPath, []string{"1dpamzt"}, 1e6, 2e6, ArchiveOptions{}); err == nil {
		t.Fatal("a window with no archive data must be an error")
	}
	if _, err := NewMSIDsFromArchive(dbPath, []string{"1deamzt"}, 0, 3000, ArchiveOptions{}); err == nil {
		t.Fatal("an MSID absent from the archive must be an error")
	}
}

func TestMSIDsFromArchiveUnconfigured(t *testing.T) {
	withTestConfig(t, func(cfg *_athermconfig) { cfg.archiveDB = "" })
	if _, err := NewMSIDsFromArchive("", []string{"1dpamzt"}, 0, 1, ArchiveOptions{}); err == nil {
		t.Fatal("an unconfigured archive database must be an error")
	}
}
