package gorec

import "time"

// Wire layouts for the temporal kinds. Datetime values travel as RFC3339;
// parse accepts RFC3339Nano and canonical output normalizes to UTC.
const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
	// clockOutLayout trims trailing zeros so whole seconds stay "15:04:05".
	clockOutLayout = "15:04:05.999999999"
)

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseClock(s string) (time.Time, error) {
	// time.Parse handles fractional seconds implicitly when the input has
	// a decimal point after the seconds element.
	return time.Parse(timeLayout, s)
}

func formatClock(t time.Time) string {
	return t.Format(clockOutLayout)
}
