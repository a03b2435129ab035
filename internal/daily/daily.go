package daily

import "time"

// DateKey returns YYYY-MM-DD in the local timezone of t.
//
// Stored scheduled_for dates are compared against this key as plain strings
// with no timezone conversion, so a server in a different timezone than the
// date-setter can surface a different word than intended. That behavior is
// inherited from the site this backend serves and is covered by tests rather
// than corrected.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// UntilMidnight returns the duration from t until the next local midnight.
// Strictly positive, at most 24h.
func UntilMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
	return midnight.Sub(t)
}
