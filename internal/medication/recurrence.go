package medication

import "time"

// AppliesOn reports whether a medication is due on the given calendar date.
// Comparison is by local date components only; time of day and zone offsets
// are ignored.
func AppliesOn(med *Medication, date time.Time) bool {
	if dateOnly(date).Before(dateOnly(med.StartDate)) {
		return false
	}

	switch med.Frequency {
	case FreqWeekly:
		if med.DayOfWeek == nil {
			return false
		}
		return int(date.Weekday()) == *med.DayOfWeek
	case FreqCustom:
		want := DateString(date)
		for _, d := range med.CustomDates {
			if _, err := time.Parse("2006-01-02", d); err != nil {
				continue // unparseable entries never match
			}
			if d == want {
				return true
			}
		}
		return false
	default:
		// daily, twice-daily, and anything unrecognized behaves as daily
		return true
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
