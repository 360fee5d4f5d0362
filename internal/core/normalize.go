package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Meals converts an arbitrary decoded JSON value into a strict, ordered
// meal list. The API sometimes wraps the list under a "meals" key and is
// loose about field types, so everything here is best effort: a shape we
// cannot interpret yields an empty list, never an error.
func Meals(raw any) []Meal {
	if obj, ok := raw.(map[string]any); ok {
		if wrapped, ok := obj["meals"]; ok {
			raw = wrapped
		}
	}
	list, ok := raw.([]any)
	if !ok {
		return []Meal{}
	}
	out := make([]Meal, 0, len(list))
	for _, el := range list {
		m, ok := MealFromRaw(el)
		if !ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

// MealFromRaw normalizes a single raw element. The kind passes through
// as-is, even when it is not one of the four canonical values; grouping
// applies the snack fallback at consumption time (NormalizeKind).
func MealFromRaw(el any) (Meal, bool) {
	obj, ok := el.(map[string]any)
	if !ok {
		return Meal{}, false
	}
	return Meal{
		ID:           asInt64(obj["id"]),
		EatenOn:      asString(obj["eaten_on"]),
		Kind:         Kind(asString(obj["kind"])),
		Name:         nameOrPlaceholder(obj["name"]),
		AmountGrams:  optionalInt(obj["amount_grams"]),
		CaloriesKcal: optionalInt(obj["calories_kcal"]),
		Notes:        optionalString(obj["notes"]),
	}, true
}

func nameOrPlaceholder(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return UnnamedMeal
	}
	return s
}

// optionalInt maps null and empty string to absent. Numeric strings are
// converted; a string that fails to parse is also absent, so both missing
// and garbage input end up on the same branch.
func optionalInt(v any) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		n := int(t)
		return &n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		n := int(f)
		return &n
	default:
		return nil
	}
}

func optionalString(v any) *string {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return &s
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
