package shared

import "time"

// ISODate formats a timestamp as a calendar date (YYYY-MM-DD) in UTC.
// Date-only fields are compared lexically in this form.
func ISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DatesBetween returns every calendar date in [start, end] inclusive,
// normalised to UTC midnight. Returns nil when start is after end.
func DatesBetween(start, end time.Time) []time.Time {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if s.After(e) {
		return nil
	}
	var dates []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
