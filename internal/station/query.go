package station

import "time"

const DefaultQueryLimit = 30

// SinceForRange resolves a named range token to the lower bound of a query
// window. Unrecognized or empty tokens fall back to the last hour.
func SinceForRange(token string, now time.Time) time.Time {
	switch token {
	case "today":
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	case "7days":
		return now.Add(-7 * 24 * time.Hour)
	case "30days":
		return now.Add(-30 * 24 * time.Hour)
	case "lasthour":
		return now.Add(-time.Hour)
	default:
		return now.Add(-time.Hour)
	}
}

// LimitForToken resolves a row-limit token. "all" lifts the cap entirely;
// anything other than the recognized tokens falls back to the default.
func LimitForToken(token string) int {
	switch token {
	case "30":
		return 30
	case "60":
		return 60
	case "90":
		return 90
	case "all":
		return 0
	default:
		return DefaultQueryLimit
	}
}
