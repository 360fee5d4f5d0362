package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Breakfast Kind = "breakfast"
	Lunch     Kind = "lunch"
	Dinner    Kind = "dinner"
	Snack     Kind = "snack"
)

// KindOrder is the canonical display order for meal kinds.
var KindOrder = []Kind{Breakfast, Lunch, Dinner, Snack}

// UnnamedMeal is the placeholder used when the API omits a meal name.
const UnnamedMeal = "(unnamed)"

type (
	Kind string

	// Meal is one logged food entry for a given day and kind.
	// AmountGrams, CaloriesKcal and Notes are optional; nil means the
	// server did not provide a value (distinct from zero).
	Meal struct {
		ID           int64   `json:"id"`
		EatenOn      string  `json:"eaten_on"`
		Kind         Kind    `json:"kind"`
		Name         string  `json:"name"`
		AmountGrams  *int    `json:"amount_grams"`
		CaloriesKcal *int    `json:"calories_kcal"`
		Notes        *string `json:"notes"`
	}
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrEmptyName   = errors.New("empty meal name")
	ErrNegative    = errors.New("negative value")
)

// IsValid reports whether k is one of the four canonical kinds.
func (k Kind) IsValid() bool {
	switch k {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// NormalizeKind maps any value outside the four-way enum to Snack.
// This is the single fallback rule shared by grouping and label lookup;
// the normalizer deliberately does not apply it (raw values pass through
// until consumption time).
func NormalizeKind(k Kind) Kind {
	if k.IsValid() {
		return k
	}
	return Snack
}

// Label returns a human-readable name for the kind, applying the
// snack fallback for unknown values.
func (k Kind) Label() string {
	switch NormalizeKind(k) {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	default:
		return "Snack"
	}
}

// DateLayout is the wire format for calendar days (eaten_on).
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a well-formed YYYY-MM-DD day.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the current calendar day in wire format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// Validate checks a meal before it is sent to the API. The server is the
// final authority; this only rejects requests that cannot succeed.
func (m Meal) Validate() error {
	if !ValidDate(m.EatenOn) {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(m.Name)) == 0 {
		return ErrEmptyName
	}
	if m.AmountGrams != nil && *m.AmountGrams < 0 {
		return ErrNegative
	}
	if m.CaloriesKcal != nil && *m.CaloriesKcal < 0 {
		return ErrNegative
	}
	return nil
}

// Kcal returns the meal's calories, treating absent as 0.
func (m Meal) Kcal() int {
	if m.CaloriesKcal == nil {
		return 0
	}
	return *m.CaloriesKcal
}
