package utils

import (
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+)([md])$`)

// ParseActionDuration parses a moderation duration of the form
// "<integer><m|d>" into minutes: "10m" is 10 minutes, "10d" is 14400
// minutes. Any other input (including empty) reports no duration.
func ParseActionDuration(s string) (int, bool) {
	match := durationPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	if match[2] == "d" {
		return value * 1440, true
	}
	return value, true
}

// caseTimeLocation is the fixed zone used for case and verification
// timestamps. Falls back to a fixed offset when the tz database is missing.
var caseTimeLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

// FormatTimestamp renders t in the fixed case-log zone, e.g. "28/08/2026 03:04 PM".
func FormatTimestamp(t time.Time) string {
	return t.In(caseTimeLocation).Format("02/01/2006 03:04 PM")
}
