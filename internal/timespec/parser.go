package timespec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dyluth/shelf/pkg/library"
)

var relativeDays = regexp.MustCompile(`^([+-]?)(\d+)([dw])$`)

// Parse parses a reservation date specification into a calendar day (UTC midnight).
// Supports:
//   - Calendar dates: "2025-10-29"
//   - RFC3339 timestamps: "2025-10-29T13:00:00Z" (clock part dropped)
//   - Keywords: "today", "tomorrow", "yesterday"
//   - Relative days or weeks: "+7d", "2w", "-3d"
//   - Go duration format: "48h", "-72h"
//
// Relative specifications are resolved against now.
func Parse(spec string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date specification")
	}

	if t, err := time.Parse(library.DateLayout, s); err == nil {
		return t, nil
	}

	// Keep the original case: RFC3339 needs the uppercase T and Z
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(spec)); err == nil {
		return library.TruncateToDate(t), nil
	}

	today := library.TruncateToDate(now)
	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if m := relativeDays.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date specification: %s", spec)
		}
		if m[1] == "-" {
			n = -n
		}
		if m[3] == "w" {
			n *= 7
		}
		return today.AddDate(0, 0, n), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return library.TruncateToDate(now.Add(d)), nil
	}

	return time.Time{}, fmt.Errorf("invalid date specification: %s (use a date like '2025-10-29', 'today', or an offset like '+7d')", spec)
}

// ParseRange parses the --start and --end flags of a reservation.
// An empty start means today; an empty end means the same day as start.
//
// Validates that start is not after end.
func ParseRange(start, end string, now time.Time) (time.Time, time.Time, error) {
	startDate := library.TruncateToDate(now)
	if start != "" {
		var err error
		startDate, err = Parse(start, now)
		if err != nil {
			return time.Time{}, time.Time{}, &library.ValidationError{Field: "--start", Message: err.Error()}
		}
	}

	endDate := startDate
	if end != "" {
		var err error
		endDate, err = Parse(end, now)
		if err != nil {
			return time.Time{}, time.Time{}, &library.ValidationError{Field: "--end", Message: err.Error()}
		}
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, &library.ValidationError{Field: "--end", Message: "must not be before --start"}
	}

	return startDate, endDate, nil
}
