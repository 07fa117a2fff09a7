// File: services/normalize/date.go
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ErrInvalidDate is returned for tokens that are not a real DD.MM.YYYY calendar day.
var ErrInvalidDate = errors.New("invalid date token")

var dateTokenPattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}`)

// LooksLikeDate reports whether a header token starts with a DD.MM.YYYY date.
func LooksLikeDate(token string) bool {
	return dateTokenPattern.MatchString(strings.TrimSpace(token))
}

// DateToken strips the weekday suffix ("20.01.2025 Пн" -> "20.01.2025").
func DateToken(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r != '.' && !unicode.IsDigit(r)
	})
}

// ParseDate turns a raw header token into a UTC calendar day.
// Tokens that would roll over (31.02.2025) are rejected rather than shifted.
func ParseDate(raw string) (time.Time, error) {
	token := DateToken(raw)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t, nil
}

// MonthRange returns the inclusive bounds of a calendar month:
// the first day at 00:00 and the last day at 23:59:59.999 UTC.
func MonthRange(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 || year < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d year %d", ErrInvalidDate, month, year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the next month is the last day of this one
	last := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, last, nil
}

// ParseMonth accepts the client's "MM.YYYY" month selector.
func ParseMonth(raw string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: month %q", ErrInvalidDate, raw)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %q", ErrInvalidDate, raw)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("%w: month %q", ErrInvalidDate, raw)
	}
	return month, year, nil
}
