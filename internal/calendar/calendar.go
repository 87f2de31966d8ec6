// Package calendar provides business-day rules for market calendars
package calendar

import (
	"strings"
	"time"
)

// Market selects a holiday calendar.
type Market string

const (
	NYSE    Market = "NYSE"
	LSE     Market = "LSE"
	TSE     Market = "TSE"
	HKEX    Market = "HKEX"
	SSE     Market = "SSE"
	Generic Market = "GENERIC" // weekday-only calendar
)

// Adjustment convention names for AdjustToTradingDay.
const (
	Following         = "following"
	Preceding         = "preceding"
	ModifiedFollowing = "modified_following"
	Nearest           = "nearest"
)

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsUSHoliday reports whether the date is a US market holiday. Covers the
// fixed and floating NYSE closures plus weekend-observation shifts; Good
// Friday is not modeled (it needs an Easter computus).
func IsUSHoliday(date time.Time) bool {
	m, d := date.Month(), date.Day()
	wd := date.Weekday()

	switch {
	case m == time.January && d == 1,
		m == time.July && d == 4,
		m == time.December && d == 25:
		return true
	}

	// Observed shifts around fixed holidays
	if m == time.January && d == 2 && wd == time.Monday {
		return true
	}
	if m == time.December && d == 26 && wd == time.Monday {
		return true
	}
	if m == time.December && d == 24 && wd == time.Friday {
		return true
	}

	// MLK Day and Presidents Day: third Monday
	if (m == time.January || m == time.February) && wd == time.Monday && d >= 15 && d <= 21 {
		return true
	}
	// Memorial Day: last Monday of May
	if m == time.May && wd == time.Monday && d >= 25 {
		return true
	}
	// Labor Day: first Monday of September
	if m == time.September && wd == time.Monday && d <= 7 {
		return true
	}
	// Thanksgiving: fourth Thursday of November
	if m == time.November && wd == time.Thursday && d >= 22 && d <= 28 {
		return true
	}

	return false
}

// IsUKHoliday reports whether the date is a UK bank holiday (fixed dates
// plus the May and August bank-holiday Mondays).
func IsUKHoliday(date time.Time) bool {
	m, d := date.Month(), date.Day()
	wd := date.Weekday()

	if m == time.January && d == 1 {
		return true
	}
	if m == time.December && (d == 25 || d == 26) {
		return true
	}
	if m == time.May && wd == time.Monday && (d <= 7 || d >= 25) {
		return true
	}
	if m == time.August && wd == time.Monday && d >= 25 {
		return true
	}

	return false
}

// IsTradingDay reports whether the market is open on the date. Markets
// without a modeled holiday calendar fall back to the weekday check.
func IsTradingDay(date time.Time, market Market) bool {
	if IsWeekend(date) {
		return false
	}

	switch market {
	case NYSE:
		return !IsUSHoliday(date)
	case LSE:
		return !IsUKHoliday(date)
	default:
		return true
	}
}

const searchLimitDays = 30

// NextTradingDay returns the first trading day strictly after date, or
// the zero time if none is found within the search limit.
func NextTradingDay(date time.Time, market Market) time.Time {
	current := date
	for i := 0; i < searchLimitDays; i++ {
		current = current.AddDate(0, 0, 1)
		if IsTradingDay(current, market) {
			return current
		}
	}
	return time.Time{}
}

// PreviousTradingDay returns the last trading day strictly before date,
// or the zero time if none is found within the search limit.
func PreviousTradingDay(date time.Time, market Market) time.Time {
	current := date
	for i := 0; i < searchLimitDays; i++ {
		current = current.AddDate(0, 0, -1)
		if IsTradingDay(current, market) {
			return current
		}
	}
	return time.Time{}
}

// SettlementDate advances the trade date by settlementDays trading days
// (T+2 under the standard US convention).
func SettlementDate(tradeDate time.Time, settlementDays int, market Market) time.Time {
	current := tradeDate
	for i := 0; i < settlementDays; i++ {
		next := NextTradingDay(current, market)
		if next.IsZero() {
			return tradeDate.AddDate(0, 0, settlementDays)
		}
		current = next
	}
	return current
}

// TradingDaysBetween lists the trading days in [start, end] inclusive.
// Reversed bounds are swapped.
func TradingDaysBetween(start, end time.Time, market Market) []time.Time {
	if start.After(end) {
		start, end = end, start
	}

	var days []time.Time
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		if IsTradingDay(current, market) {
			days = append(days, current)
		}
	}
	return days
}

// CountTradingDaysBetween counts trading days in [start, end] inclusive.
func CountTradingDaysBetween(start, end time.Time, market Market) int {
	return len(TradingDaysBetween(start, end, market))
}

// AdjustToTradingDay moves a non-trading date onto a trading day using
// the named convention. Unknown conventions behave as "following".
func AdjustToTradingDay(date time.Time, convention string, market Market) time.Time {
	if IsTradingDay(date, market) {
		return date
	}

	pick := func(t time.Time) time.Time {
		if t.IsZero() {
			return date
		}
		return t
	}

	switch convention {
	case Preceding:
		return pick(PreviousTradingDay(date, market))

	case ModifiedFollowing:
		next := NextTradingDay(date, market)
		if !next.IsZero() && next.Month() == date.Month() {
			return next
		}
		return pick(PreviousTradingDay(date, market))

	case Nearest:
		next := NextTradingDay(date, market)
		prev := PreviousTradingDay(date, market)
		switch {
		case next.IsZero() && prev.IsZero():
			return date
		case next.IsZero():
			return prev
		case prev.IsZero():
			return next
		}
		// Prefer previous when equidistant
		if date.Sub(prev) <= next.Sub(date) {
			return prev
		}
		return next

	default:
		return pick(NextTradingDay(date, market))
	}
}

// InferMarket guesses the market calendar from a quote symbol. US
// equities and indices map to NYSE.
func InferMarket(symbol string) Market {
	s := strings.ToUpper(symbol)

	switch s {
	case "^GSPC", "^DJI", "^IXIC", "^NDX", "^RUT", "^VIX":
		return NYSE
	case "^FTSE":
		return LSE
	case "^N225":
		return TSE
	case "^HSI":
		return HKEX
	case "^FTXIN9":
		return SSE
	}

	if strings.Contains(s, ".SS") {
		return SSE
	}
	if strings.Contains(s, ".HK") {
		return HKEX
	}
	if !strings.HasPrefix(s, "^") {
		return NYSE
	}

	return Generic
}
