package xmlparse

import (
	"regexp"
	"strconv"
	"time"
)

// AlternateDateLayout is the database-style date format some methods return.
const AlternateDateLayout = "2006-01-02 15:04:05"

var unixTimestampPattern = regexp.MustCompile(`^\d+$`)

// UnixTimestampToDate interprets s as base-10 seconds since the epoch in UTC.
func UnixTimestampToDate(s string) (time.Time, error) {
	if !unixTimestampPattern.MatchString(s) {
		return time.Time{}, FormatError(s, "unix timestamp", nil)
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, FormatError(s, "unix timestamp", err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// AlternateDateFormatToDate parses a "YYYY-MM-DD HH:MM:SS" value as UTC.
func AlternateDateFormatToDate(s string) (time.Time, error) {
	t, err := time.Parse(AlternateDateLayout, s)
	if err != nil {
		return time.Time{}, FormatError(s, "date", err)
	}
	return t, nil
}

// ParseDate dispatches on the raw value: all digits is a unix timestamp,
// anything else is the alternate date format.
func ParseDate(s string) (time.Time, error) {
	if unixTimestampPattern.MatchString(s) {
		return UnixTimestampToDate(s)
	}
	return AlternateDateFormatToDate(s)
}

// ParseInt parses a base-10 integer independent of locale.
func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, FormatError(s, "integer", err)
	}
	return n, nil
}

// ParseBool accepts the wire booleans "0" and "1".
func ParseBool(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, FormatError(s, "boolean", nil)
	}
}
