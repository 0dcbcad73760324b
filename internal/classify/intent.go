// Package classify turns raw chat text into log categories, meal types and
// date ranges. Everything here is pure string and calendar work; no I/O.
package classify

import "strings"

type Category int

const (
	CategoryNone Category = iota
	CategoryMeal
	CategoryExercise
	CategoryMeditation
	CategoryJournal
)

func (category Category) String() string {
	switch category {
	case CategoryMeal:
		return "Meal"
	case CategoryExercise:
		return "Exercise"
	case CategoryMeditation:
		return "Meditation"
	case CategoryJournal:
		return "Journal"
	default:
		return "None"
	}
}

type MealType int

const (
	MealUnknown MealType = iota
	MealBreakfast
	MealLunch
	MealDinner
	MealSnack
)

// String returns the label stored in the meal sheet's type column.
func (mealType MealType) String() string {
	switch mealType {
	case MealBreakfast:
		return "Breakfast"
	case MealLunch:
		return "Lunch"
	case MealDinner:
		return "Dinner"
	case MealSnack:
		return "Snack"
	default:
		return "Unknown"
	}
}

// mealTypeKeywords is checked in order; the first matching group wins.
var mealTypeKeywords = []struct {
	mealType MealType
	words    []string
}{
	{MealBreakfast, []string{"朝食", "朝ごはん", "朝ご飯", "朝飯", "モーニング"}},
	{MealLunch, []string{"昼食", "ランチ", "昼ごはん", "昼ご飯", "昼飯"}},
	{MealDinner, []string{"夕食", "夕飯", "晩ごはん", "晩ご飯", "夜ごはん", "夜ご飯", "ディナー", "晩酌"}},
	{MealSnack, []string{"間食", "おやつ", "夜食", "スナック"}},
}

// generalMealKeywords marks a message as a meal entry even without a
// meal-name word: free-text descriptions and summary requests both land in
// the meal flow.
var generalMealKeywords = []string{
	"食事", "食べた", "食べました", "ごはん", "ご飯",
	"カロリー", "栄養", "サマリー", "集計", "まとめ",
}

var exerciseKeywords = []string{
	"運動", "筋トレ", "トレーニング", "ジム",
	"ランニング", "ジョギング", "走った", "走りました",
	"ウォーキング", "散歩", "歩いた", "ヨガ", "ストレッチ", "水泳", "泳いだ",
}

var meditationKeywords = []string{
	"瞑想", "メディテーション", "マインドフルネス", "座禅", "呼吸法",
}

var journalKeywords = []string{
	"日記", "ジャーナル", "振り返り", "メモ",
}

// Classify maps a message to exactly one category. Precedence is fixed:
// Meal, then Exercise, Meditation, Journal, then None. A message carrying
// both a meal and an exercise word is a Meal; the meal check always runs
// first.
func Classify(text string) (Category, MealType) {
	lowered := strings.ToLower(text)

	mealType, isMeal := classifyMeal(lowered)
	if isMeal {
		return CategoryMeal, mealType
	}
	if containsAny(lowered, exerciseKeywords) {
		return CategoryExercise, MealUnknown
	}
	if containsAny(lowered, meditationKeywords) {
		return CategoryMeditation, MealUnknown
	}
	if containsAny(lowered, journalKeywords) {
		return CategoryJournal, MealUnknown
	}
	return CategoryNone, MealUnknown
}

// ClassifyMealType resolves the meal-type sub-category on its own. Unknown
// is a valid answer for a meal message with no explicit meal-name word.
func ClassifyMealType(text string) MealType {
	mealType, _ := classifyMeal(strings.ToLower(text))
	return mealType
}

func classifyMeal(lowered string) (MealType, bool) {
	for _, group := range mealTypeKeywords {
		if containsAny(lowered, group.words) {
			return group.mealType, true
		}
	}
	if containsAny(lowered, generalMealKeywords) {
		return MealUnknown, true
	}
	return MealUnknown, false
}

func containsAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
