// Package store persists log rows in named sheets with fixed column
// layouts. Rows are ordered sequences of string cells; appended rows are
// never mutated or deleted, and queries always fetch the full range —
// filtering happens client-side.
package store

import (
	"context"
	"time"
)

// Row is one sheet row. Cell meaning is positional, see the column
// constants below.
type Row []string

type Store interface {
	Append(ctx context.Context, sheet string, row Row) error
	Rows(ctx context.Context, sheet string) ([]Row, error)
}

// Meal sheet layout: two logging-time cells, the meal's own date and type,
// the raw message, then the nine nutrient cells.
const (
	ColLoggedDate = 0
	ColLoggedTime = 1
	ColMealDate   = 2
	ColMealType   = 3
	ColRawText    = 4
	ColNutrients  = 5

	MealRowWidth   = 14
	SimpleRowWidth = 3
)

const (
	DateLayout = time.DateOnly
	TimeLayout = time.TimeOnly
)

// SimpleRow builds the 3-cell layout shared by the exercise, meditation and
// journal sheets.
func SimpleRow(loggedAt time.Time, rawText string) Row {
	return Row{
		loggedAt.Format(DateLayout),
		loggedAt.Format(TimeLayout),
		rawText,
	}
}
