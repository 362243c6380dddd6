package meal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	layoutDate      = "2006-01-02"
	layoutYearMonth = "2006-01"
	layoutDay       = "02"
	layoutClock     = "15:04"
)

var (
	yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayPattern       = regexp.MustCompile(`^\d{2}$`)
)

// IsYearMonthKey reports whether k looks like "YYYY-MM".
func IsYearMonthKey(k string) bool {
	return yearMonthPattern.MatchString(k)
}

// IsDayKey reports whether k looks like "DD".
func IsDayKey(k string) bool {
	return dayPattern.MatchString(k)
}

// YearMonthKey is the database key of the month containing t.
func YearMonthKey(t time.Time) string {
	return t.Format(layoutYearMonth)
}

// DayKey is the month key of the day of t.
func DayKey(t time.Time) string {
	return t.Format(layoutDay)
}

// DateString formats t as "YYYY-MM-DD".
func DateString(t time.Time) string {
	return t.Format(layoutDate)
}

// JoinDate builds a date string from its database keys.
func JoinDate(yearMonth, day string) string {
	return yearMonth + "-" + day
}

// SplitDateString splits "YYYY-MM-DD" into its year-month and day keys.
func SplitDateString(s string) (string, string, error) {
	if len(s) != len(layoutDate) || !IsYearMonthKey(s[:7]) || s[7] != '-' || !IsDayKey(s[8:]) {
		return "", "", fmt.Errorf("meal: date %q is not of the form YYYY-MM-DD", s)
	}
	return s[:7], s[8:], nil
}

// ParseDate parses "YYYY-MM-DD" in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(layoutDate, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("meal: parse date %q: %w", s, err)
	}
	return t, nil
}

// Clock formats t as "HH:MM".
func Clock(t time.Time) string {
	return t.Format(layoutClock)
}

// ParseClock splits an "HH:MM" time into hour and minute. It accepts single
// digit hours as older journals sometimes carry them.
func ParseClock(s string) (int, int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
