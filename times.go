package acistherm

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// The mission time scale counts SI seconds from the 1998.0 epoch
// (1998-01-01T00:00:00 TT). TT led UTC by 63.184s at that epoch; leap
// seconds inserted after 1998 are not tracked.
var epoch = time.Date(1997, 12, 31, 23, 58, 56, 816e6, time.UTC)

const dateFormat = "2006:002:15:04:05"

// SecsToTime converts mission elapsed seconds to a UTC time.Time.
func SecsToTime(secs float64) time.Time {
	return epoch.Add(time.Duration(secs * float64(time.Second)))
}

// TimeToSecs converts a time.Time to mission elapsed seconds.
func TimeToSecs(t time.Time) float64 {
	return t.Sub(epoch).Seconds()
}

// SecsToDate converts mission elapsed seconds to a YYYY:DOY:HH:MM:SS.sss
// datestring.
func SecsToDate(secs float64) string {
	t := SecsToTime(secs)
	return fmt.Sprintf("%s.%03d", t.Format(dateFormat), t.Nanosecond()/1e6)
}

// SecsToDates converts a full time axis to datestrings.
func SecsToDates(secs []float64) []string {
	dates := make([]string, len(secs))
	for i, s := range secs {
		dates[i] = SecsToDate(s)
	}
	return dates
}

// DateToSecs converts a YYYY:DOY:HH:MM:SS[.sss] datestring to mission
// elapsed seconds.
func DateToSecs(date string) (float64, error) {
	t, err := parseDOY(date)
	if err != nil {
		return 0, err
	}
	return TimeToSecs(t), nil
}

// ParseTime accepts a YYYY:DOY:HH:MM:SS[.sss] datestring, a
// "2006-01-02 15:04:05" timestamp, an RFC3339 timestamp, or a raw
// mission-seconds float, and returns mission elapsed seconds.
func ParseTime(s string) (float64, error) {
	if secs, err := DateToSecs(s); err == nil {
		return secs, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeToSecs(t), nil
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return secs, nil
	}
	return 0, fmt.Errorf("cannot parse time `%s`", s)
}

// SecsToJD returns the Julian date of the given mission elapsed seconds.
func SecsToJD(secs float64) float64 {
	return julian.TimeToJD(SecsToTime(secs))
}

func parseDOY(date string) (time.Time, error) {
	frac := 0.0
	if idx := strings.LastIndex(date, "."); idx > 0 {
		f, err := strconv.ParseFloat(date[idx:], 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid datestring `%s`", date)
		}
		frac = f
		date = date[:idx]
	}
	t, err := time.ParseInLocation(dateFormat, date, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(time.Duration(frac * float64(time.Second))), nil
}
