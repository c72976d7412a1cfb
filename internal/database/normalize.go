package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
)

// dateFormats are the shapes a stored calendar date may arrive in. Rows
// written by this package are always plain YYYY-MM-DD; imported or legacy
// rows may carry a full timestamp.
var dateFormats = []string{
	datemath.DateFormat,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
}

// normalizeDate turns whatever the store handed back into a noon-anchored
// local calendar date. The single normalization point for reads.
func normalizeDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return datemath.AtNoon(t.Local()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", raw)
}

// storeDate renders a calendar date in the wire format.
func storeDate(t time.Time) string {
	return datemath.FormatDate(t)
}
