package dateutil

import "time"

// AddMonthsKeepDay adds months to base keeping the day-of-month, clamping to
// the last day of the target month when the original day does not exist there
// (Jan 31 + 1 month lands on Feb 28, or Feb 29 in leap years).
//
// It operates on calendar fields only; the time-of-day and location of base
// are preserved unchanged. Unlike time.AddDate it never rolls into the next
// month on overflow.
func AddMonthsKeepDay(base time.Time, months int) time.Time {
	year, month, day := base.Date()

	m := int(month) + months
	y := year + (m-1)/12
	m = (m-1)%12 + 1
	if m <= 0 {
		m += 12
		y--
	}

	if last := daysIn(y, time.Month(m)); day > last {
		day = last
	}

	hour, min, sec := base.Clock()
	return time.Date(y, time.Month(m), day, hour, min, sec, base.Nanosecond(), base.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
