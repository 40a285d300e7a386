package acistherm

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteCTISummary writes the simulated run and its verdict to a CSV file
// under the configured output directory. An existing file is an error
// unless overwrite is set.
func WriteCTISummary(run *CTIRun, filename string, overwrite bool) error {
	path := filepath.Join(athermConfig().outputDir, filename)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("file %s already exists, but overwrite is not set", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d, err := run.Model.Get(run.Name)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(f)
	fmt.Fprintf(buf, "# Creation date (UTC): %s\n", time.Now().UTC())
	fmt.Fprintf(buf, "# CTI run %s for %s (%s)\n", run.DateStart, run.Name, fullName[run.Name])
	fmt.Fprintf(buf, "# Run start JD: %.6f\n", SecsToJD(run.TStart))
	fmt.Fprintf(buf, "# Planning limit: %.2f degC\n", run.Limit)
	if margin, ok := Margins[run.Name]; ok {
		fmt.Fprintf(buf, "# Caution limit: %.2f degC\n", run.Limit+margin)
	}
	if run.Crossing == nil {
		fmt.Fprintf(buf, "# The limit is never reached\n")
	} else {
		fmt.Fprintf(buf, "# The limit is reached at %s, after %.3f ks\n", run.Crossing.Date, run.Crossing.DurationKs)
	}
	if run.Safe {
		fmt.Fprintf(buf, "# Verdict: SAFE\n")
	} else {
		fmt.Fprintf(buf, "# Verdict: NOT SAFE\n")
	}
	fmt.Fprintf(buf, "time,date,%s\n", run.Name)
	for i, t := range d.Times {
		fmt.Fprintf(buf, "%.2f,%s,%.2f\n", t, SecsToDate(t), d.Values[i])
	}
	return buf.Flush()
}
