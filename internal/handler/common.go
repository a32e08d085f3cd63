package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"regexp"  // regexp validates phone number format
	"strconv" // strconv converts strings to numeric types
	"time"    // time parses service and payment dates

	"github.com/labstack/echo/v4" // echo defines request context types
)

// phonePattern is the contract for car phone numbers: an optional leading
// "+" followed by 10 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The session middleware stores it as uint64; the other cases guard against
// alternative producers such as tests.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// dateLayouts lists the accepted formats for dates supplied by clients,
// tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a client-supplied date in any accepted layout and
// returns it in UTC.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

// endOfDay returns 23:59:59.999 of t's calendar day in UTC. The payment
// report treats its end date as inclusive of the whole day.
func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, time.UTC)
}
