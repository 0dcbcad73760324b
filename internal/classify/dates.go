package classify

import (
	"strings"
	"time"
)

// DateRange is a resolved reporting window. When All is set the range covers
// the full extent of stored data; Start and End are zero and must be
// substituted with the store's actual min/max dates before any per-day math.
type DateRange struct {
	Start time.Time
	End   time.Time
	All   bool
}

var entireHistoryKeywords = []string{
	"これまで", "今まで", "全期間", "全部", "すべて", "全て",
}

// ResolveRange maps a relative-time phrase to a concrete range. Precedence
// is fixed: entire history, last week, this week, this month. A nil result
// means the message is not a range request and should be treated as a
// single-date log.
func ResolveRange(text string, today time.Time) *DateRange {
	today = dateOnly(today)

	if containsAny(text, entireHistoryKeywords) {
		return &DateRange{All: true}
	}
	if strings.Contains(text, "先週") {
		end := today.AddDate(0, 0, -1)
		return &DateRange{Start: end.AddDate(0, 0, -6), End: end}
	}
	if strings.Contains(text, "今週") {
		return &DateRange{Start: startOfISOWeek(today), End: today}
	}
	if strings.Contains(text, "今月") {
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return &DateRange{Start: first, End: today}
	}
	return nil
}

// ResolveLogDate picks the date a single log entry is for. 一昨日 must be
// checked before 昨日 because the former contains the latter.
func ResolveLogDate(text string, today time.Time) time.Time {
	today = dateOnly(today)
	switch {
	case strings.Contains(text, "一昨日") || strings.Contains(text, "おととい"):
		return today.AddDate(0, 0, -2)
	case strings.Contains(text, "昨日"):
		return today.AddDate(0, 0, -1)
	default:
		return today
	}
}

// startOfISOWeek returns the Monday of the week containing day, treating
// Sunday as weekday 7.
func startOfISOWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

func dateOnly(moment time.Time) time.Time {
	return time.Date(moment.Year(), moment.Month(), moment.Day(), 0, 0, 0, 0, moment.Location())
}
