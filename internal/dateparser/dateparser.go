// Package dateparser turns the calendar-date strings accepted by the API
// into comparable time values and renders the server's default date.
package dateparser

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DisplayLayout is the layout used for dates the server fills in itself,
// e.g. "Mon Jan 02 2006".
const DisplayLayout = "Mon Jan 02 2006"

var ErrUnrecognizedDate = errors.New("unrecognized date")

// knownLayouts are tried before dateparse so the server's own
// DisplayLayout and JavaScript Date strings always parse the same way.
var knownLayouts = []string{
	DisplayLayout,
	"Mon Jan 2 2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon, 02 Jan 2006",
	"2006-1-2",
	"1/2/2006",
}

// Parse accepts knownLayouts and any format dateparse recognizes (ISO
// dates with or without zero padding, US slash dates, month names,
// RFC3339, RFC1123). Values without a zone are read as UTC.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrUnrecognizedDate
	}

	for _, layout := range knownLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, ErrUnrecognizedDate
	}

	return t, nil
}

// IsValid reports whether Parse accepts value.
func IsValid(value string) bool {
	_, err := Parse(value)
	return err == nil
}

func Format(t time.Time) string {
	return t.Format(DisplayLayout)
}
