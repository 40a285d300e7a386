package acistherm

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

const (
	tempFileName  = "temperatures.dat"
	stateFileName = "states.dat"
)

// loadPageURL builds the archive URL of one file of a load review, e.g.
// JAN2516A -> <base>/DPA_thermPredic/JAN2516/oflsa/states.dat.
func loadPageURL(comp, load, file string) (string, error) {
	if len(load) < 8 {
		return "", fmt.Errorf("`%s` is not a valid load review identifier", load)
	}
	week := strings.ToUpper(load[:len(load)-1])
	rev := strings.ToLower(load[len(load)-1:])
	base := athermConfig().archiveURL
	return fmt.Sprintf("%s/%s_thermPredic/%s/ofls%s/%s", base, strings.ToUpper(comp), week, rev, file), nil
}

// fetchArchiveTable GETs a fixed-format ASCII table from the archive.
// The response body is tee'd to a timestamped copy under the configured
// data directory so reviews can be re-run offline.
func fetchArchiveTable(url string) (*Table, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %s", url, resp.Status)
	}
	var body io.Reader = resp.Body
	copydir := athermConfig().dataDir
	if err := os.MkdirAll(copydir, 0755); err != nil && !os.IsExist(err) {
		return nil, err
	}
	suffix := "-" + time.Now().Format("20060102_150405")
	if f, err := os.Create(path.Join(copydir, path.Base(url)+suffix)); err == nil {
		defer f.Close()
		body = io.TeeReader(resp.Body, f)
	}
	return ParseTable(body)
}
