// Package nutrition estimates nutrient content of logged meals via the
// completion service and aggregates stored meal rows into summaries.
package nutrition

import (
	"strconv"
	"time"

	"github.com/shunonion-sudo/health-habits/internal/classify"
	"github.com/shunonion-sudo/health-habits/internal/store"
)

// Vector holds the nine tracked nutrients. Unparsed fields stay 0; values
// are never negative.
type Vector struct {
	Kcal        float64
	ProteinG    float64
	FatG        float64
	CarbsG      float64
	VitaminB6Mg float64
	VitaminDUg  float64
	MagnesiumMg float64
	IronMg      float64
	ZincMg      float64
}

// field ties one nutrient to its report label, display unit and position
// within the meal row's nutrient cells. The order here is the order of the
// report lines and of the sheet columns.
type field struct {
	label string
	unit  string
	value func(*Vector) *float64
}

var fields = []field{
	{"カロリー", "kcal", func(vector *Vector) *float64 { return &vector.Kcal }},
	{"たんぱく質", "g", func(vector *Vector) *float64 { return &vector.ProteinG }},
	{"脂質", "g", func(vector *Vector) *float64 { return &vector.FatG }},
	{"炭水化物", "g", func(vector *Vector) *float64 { return &vector.CarbsG }},
	{"ビタミンB6", "mg", func(vector *Vector) *float64 { return &vector.VitaminB6Mg }},
	{"ビタミンD", "µg", func(vector *Vector) *float64 { return &vector.VitaminDUg }},
	{"マグネシウム", "mg", func(vector *Vector) *float64 { return &vector.MagnesiumMg }},
	{"鉄分", "mg", func(vector *Vector) *float64 { return &vector.IronMg }},
	{"亜鉛", "mg", func(vector *Vector) *float64 { return &vector.ZincMg }},
}

// MealRow builds the 14-cell meal sheet row for one logged meal.
func MealRow(loggedAt time.Time, mealDate time.Time, mealType classify.MealType, rawText string, vector Vector) store.Row {
	row := make(store.Row, 0, store.MealRowWidth)
	row = append(row,
		loggedAt.Format(store.DateLayout),
		loggedAt.Format(store.TimeLayout),
		mealDate.Format(store.DateLayout),
		mealType.String(),
		rawText,
	)
	for _, nutrientField := range fields {
		row = append(row, formatCell(*nutrientField.value(&vector)))
	}
	return row
}

func formatCell(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}
