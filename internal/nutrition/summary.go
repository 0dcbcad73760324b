package nutrition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shunonion-sudo/health-habits/internal/classify"
	"github.com/shunonion-sudo/health-habits/internal/store"
)

// ErrNoRecords signals that the requested range matched no stored meals.
// Callers reply with a fixed no-records message instead of a zero summary.
var ErrNoRecords = errors.New("no meal records in range")

// Summary is the aggregation result over one resolved date range.
type Summary struct {
	Start    time.Time
	End      time.Time
	Days     int
	RowCount int
	Totals   Vector
}

// Summarize sums the nutrient columns of the given meal rows over the
// resolved range. For a concrete range, rows are filtered by their meal
// date. For the entire-history sentinel the totals cover every row and the
// displayed range is narrowed to the actual min/max stored dates.
func Summarize(rows []store.Row, dateRange classify.DateRange) (Summary, error) {
	var selected []store.Row
	start, end := dateRange.Start, dateRange.End

	if dateRange.All {
		selected = rows
		minDate, maxDate, found := mealDateSpan(rows)
		if !found {
			return Summary{}, ErrNoRecords
		}
		start, end = minDate, maxDate
	} else {
		// ISO date strings order lexically, which sidesteps location
		// mismatches between resolved ranges and stored cells.
		startKey := start.Format(store.DateLayout)
		endKey := end.Format(store.DateLayout)
		for _, row := range rows {
			if _, ok := rowMealDate(row); !ok {
				continue
			}
			cell := row[store.ColMealDate]
			if cell < startKey || cell > endKey {
				continue
			}
			selected = append(selected, row)
		}
	}
	if len(selected) == 0 {
		return Summary{}, ErrNoRecords
	}

	summary := Summary{
		Start:    start,
		End:      end,
		Days:     daysInRange(start, end),
		RowCount: len(selected),
	}
	for _, row := range selected {
		for index, nutrientField := range fields {
			*nutrientField.value(&summary.Totals) += nutrientCell(row, index)
		}
	}
	return summary, nil
}

// Format renders the summary as one reply: a range header, then one line
// per nutrient with total and per-day average at one decimal place.
func Format(summary Summary) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "📊 %s 〜 %s(%d日間・%d件)\n",
		summary.Start.Format(store.DateLayout),
		summary.End.Format(store.DateLayout),
		summary.Days,
		summary.RowCount,
	)
	days := float64(summary.Days)
	for _, nutrientField := range fields {
		total := *nutrientField.value(&summary.Totals)
		fmt.Fprintf(&builder, "%s: 合計 %.1f %s(1日平均 %.1f %s)\n",
			nutrientField.label, total, nutrientField.unit, total/days, nutrientField.unit)
	}
	return strings.TrimRight(builder.String(), "\n")
}

// daysInRange is inclusive on both ends, never below 1.
func daysInRange(start time.Time, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func rowMealDate(row store.Row) (time.Time, bool) {
	if len(row) <= store.ColMealDate {
		return time.Time{}, false
	}
	mealDate, err := time.Parse(store.DateLayout, row[store.ColMealDate])
	if err != nil {
		return time.Time{}, false
	}
	return mealDate, true
}

func mealDateSpan(rows []store.Row) (time.Time, time.Time, bool) {
	var minDate, maxDate time.Time
	found := false
	for _, row := range rows {
		mealDate, ok := rowMealDate(row)
		if !ok {
			continue
		}
		if !found || mealDate.Before(minDate) {
			minDate = mealDate
		}
		if !found || mealDate.After(maxDate) {
			maxDate = mealDate
		}
		found = true
	}
	return minDate, maxDate, found
}

// nutrientCell reads one nutrient column; missing or non-numeric cells
// count as 0.
func nutrientCell(row store.Row, fieldIndex int) float64 {
	column := store.ColNutrients + fieldIndex
	if len(row) <= column {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row[column]), 64)
	if err != nil {
		return 0
	}
	return value
}
