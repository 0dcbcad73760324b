package classify

import "testing"

func TestClassifyPrecedenceAndMealTypes(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCategory Category
		wantMealType MealType
	}{
		{name: "breakfast with date word", text: "今日の朝食は卵", wantCategory: CategoryMeal, wantMealType: MealBreakfast},
		{name: "meal wins over exercise", text: "ランチの後に30分走った", wantCategory: CategoryMeal, wantMealType: MealLunch},
		{name: "dinner", text: "夕食はカレーでした", wantCategory: CategoryMeal, wantMealType: MealDinner},
		{name: "snack", text: "おやつにチョコを少し", wantCategory: CategoryMeal, wantMealType: MealSnack},
		{name: "free text meal without meal name", text: "ラーメンを食べた", wantCategory: CategoryMeal, wantMealType: MealUnknown},
		{name: "summary request is meal flow", text: "先週のサマリーをください", wantCategory: CategoryMeal, wantMealType: MealUnknown},
		{name: "breakfast beats lunch in priority order", text: "朝食と昼食を両方", wantCategory: CategoryMeal, wantMealType: MealBreakfast},
		{name: "exercise", text: "ジムで筋トレした", wantCategory: CategoryExercise, wantMealType: MealUnknown},
		{name: "meditation", text: "10分瞑想しました", wantCategory: CategoryMeditation, wantMealType: MealUnknown},
		{name: "journal", text: "今日の日記です。いい一日だった", wantCategory: CategoryJournal, wantMealType: MealUnknown},
		{name: "chit chat", text: "最近疲れやすいんだけどどうしたらいい?", wantCategory: CategoryNone, wantMealType: MealUnknown},
		{name: "empty", text: "", wantCategory: CategoryNone, wantMealType: MealUnknown},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			category, mealType := Classify(testCase.text)
			if category != testCase.wantCategory {
				t.Fatalf("expected category %v, got %v", testCase.wantCategory, category)
			}
			if mealType != testCase.wantMealType {
				t.Fatalf("expected meal type %v, got %v", testCase.wantMealType, mealType)
			}
		})
	}
}

func TestClassifyMealTypeStandalone(t *testing.T) {
	if got := ClassifyMealType("昨日の昼食はサラダ"); got != MealLunch {
		t.Fatalf("expected Lunch, got %v", got)
	}
	if got := ClassifyMealType("運動した"); got != MealUnknown {
		t.Fatalf("expected Unknown for non-meal text, got %v", got)
	}
}

func TestMealTypeLabels(t *testing.T) {
	labels := map[MealType]string{
		MealBreakfast: "Breakfast",
		MealLunch:     "Lunch",
		MealDinner:    "Dinner",
		MealSnack:     "Snack",
		MealUnknown:   "Unknown",
	}
	for mealType, want := range labels {
		if got := mealType.String(); got != want {
			t.Fatalf("expected label %q, got %q", want, got)
		}
	}
}
