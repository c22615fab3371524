// Package calendar computes NYSE trading days for lookback windows.
// Holidays follow the current NYSE schedule; observed shifts (Saturday
// holidays move to Friday, Sunday to Monday) are applied.
package calendar

import "time"

// IsTradingDay reports whether the exchange is open on the given date.
// Only the date portion is considered, in the date's own location.
func IsTradingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !isHoliday(t)
}

// TradingDays lists the trading days in [start, end], inclusive.
func TradingDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := dateOf(start); !d.After(dateOf(end)); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// TradingDayCount counts trading days in [start, end], inclusive.
func TradingDayCount(start, end time.Time) int {
	return len(TradingDays(start, end))
}

// LookbackStart returns the date tradingDays trading days at or before
// end, so a lookback of 1 on a trading day is that same day.
func LookbackStart(end time.Time, tradingDays int) time.Time {
	if tradingDays < 1 {
		tradingDays = 1
	}
	d := dateOf(end)
	remaining := tradingDays
	for {
		if IsTradingDay(d) {
			remaining--
			if remaining == 0 {
				return d
			}
		}
		d = d.AddDate(0, 0, -1)
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isHoliday(t time.Time) bool {
	y := t.Year()
	for _, h := range holidaysFor(y) {
		if t.Month() == h.Month() && t.Day() == h.Day() {
			return true
		}
	}
	return false
}

// holidaysFor returns the observed NYSE full-day holidays for a year.
func holidaysFor(year int) []time.Time {
	loc := time.UTC
	holidays := []time.Time{
		observed(time.Date(year, time.January, 1, 0, 0, 0, 0, loc)),
		nthWeekday(year, time.January, time.Monday, 3),  // Martin Luther King Jr. Day
		nthWeekday(year, time.February, time.Monday, 3), // Washington's Birthday
		goodFriday(year),
		lastWeekday(year, time.May, time.Monday), // Memorial Day
		observed(time.Date(year, time.July, 4, 0, 0, 0, 0, loc)),
		nthWeekday(year, time.September, time.Monday, 1),  // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
		observed(time.Date(year, time.December, 25, 0, 0, 0, 0, loc)),
	}
	if year >= 2022 {
		holidays = append(holidays, observed(time.Date(year, time.June, 19, 0, 0, 0, 0, loc))) // Juneteenth
	}
	return holidays
}

// observed shifts Saturday holidays to Friday and Sunday holidays to
// Monday, matching exchange observance rules.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, (n-1)*7)
}

func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// goodFriday is two days before Easter Sunday (Gregorian computus).
func goodFriday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	easter := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return easter.AddDate(0, 0, -2)
}
