package core

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return v
}

func TestMealsUnwrapsMealsKey(t *testing.T) {
	raw := decode(t, `{"meals":[{"id":1,"eaten_on":"2025-08-30","kind":"lunch","name":"soba"}]}`)
	got := Meals(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Kind != Lunch || got[0].Name != "soba" {
		t.Fatalf("unexpected meal: %+v", got[0])
	}
}

func TestMealsNonArrayYieldsEmpty(t *testing.T) {
	for _, fixture := range []string{`{}`, `{"meals":{"nope":true}}`, `"text"`, `42`, `null`} {
		got := Meals(decode(t, fixture))
		if got == nil || len(got) != 0 {
			t.Fatalf("fixture %s: expected empty list, got %#v", fixture, got)
		}
	}
}

func TestMealsOptionalNumbers(t *testing.T) {
	cases := []struct {
		name   string
		json   string
		grams  *int
		kcal   *int
	}{
		{"null values", `{"amount_grams":null,"calories_kcal":null}`, nil, nil},
		{"empty strings", `{"amount_grams":"","calories_kcal":""}`, nil, nil},
		{"numbers pass through", `{"amount_grams":150,"calories_kcal":250}`, intp(150), intp(250)},
		{"numeric strings converted", `{"amount_grams":"80","calories_kcal":"99.9"}`, intp(80), intp(99)},
		{"unparsable strings absent", `{"amount_grams":"abc","calories_kcal":"NaN?"}`, nil, nil},
		{"fields missing entirely", `{}`, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := MealFromRaw(decode(t, tc.json))
			if !ok {
				t.Fatal("expected a meal")
			}
			checkOptInt(t, "amount_grams", m.AmountGrams, tc.grams)
			checkOptInt(t, "calories_kcal", m.CaloriesKcal, tc.kcal)
		})
	}
}

func TestMealsNameAndNotesDefaults(t *testing.T) {
	m, _ := MealFromRaw(decode(t, `{"id":2,"name":null,"notes":null}`))
	if m.Name != UnnamedMeal {
		t.Fatalf("expected placeholder name, got %q", m.Name)
	}
	if m.Notes != nil {
		t.Fatalf("expected absent notes, got %q", *m.Notes)
	}

	m, _ = MealFromRaw(decode(t, `{"id":3,"name":"rice","notes":"with sesame"}`))
	if m.Name != "rice" {
		t.Fatalf("expected rice, got %q", m.Name)
	}
	if m.Notes == nil || *m.Notes != "with sesame" {
		t.Fatalf("expected notes to pass through, got %v", m.Notes)
	}
}

func TestMealsKindPassesThroughRaw(t *testing.T) {
	// The normalizer never invents domain meaning; an out-of-enum kind
	// survives until grouping applies the fallback.
	m, _ := MealFromRaw(decode(t, `{"id":4,"kind":"brunch","name":"toast"}`))
	if m.Kind != Kind("brunch") {
		t.Fatalf("expected raw kind preserved, got %q", m.Kind)
	}
}

func intp(n int) *int { return &n }

func checkOptInt(t *testing.T, field string, got, want *int) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Fatalf("%s: expected absent, got %d", field, *got)
	case want != nil && got == nil:
		t.Fatalf("%s: expected %d, got absent", field, *want)
	case want != nil && *got != *want:
		t.Fatalf("%s: expected %d, got %d", field, *want, *got)
	}
}
