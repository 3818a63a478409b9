package web

import "time"

// formatLong renders a date the way the event pages show it, e.g.
// "Sat Jun 1 2024". Weekday and month are fixed to English abbreviations.
func formatLong(t time.Time) string {
	return t.Format("Mon Jan 2 2006")
}

// shortDate is the decomposed form used for the compact calendar badge.
type shortDate struct {
	Month string
	Day   int
	Year  int
}

func toShortDate(t time.Time) shortDate {
	return shortDate{
		Month: t.Format("Jan"),
		Day:   t.Day(),
		Year:  t.Year(),
	}
}
