package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"meallog/internal/core"
)

// User is the optional account payload returned by login.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Nickname *string `json:"nickname"`
}

// LoginResult carries the issued token and, when the API provides it,
// the account it belongs to.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SignupParams mirrors the /api/signup request body. Account creation
// does not log in; callers follow up with Login (the API issues tokens
// only on login).
type SignupParams struct {
	Email                string `json:"email"`
	Nickname             string `json:"nickname"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// mealFields is the wire shape nested under the `meal` key for create
// and update. Optional fields serialize as JSON null when absent.
type mealFields struct {
	EatenOn      string    `json:"eaten_on"`
	Kind         core.Kind `json:"kind"`
	Name         string    `json:"name"`
	AmountGrams  *int      `json:"amount_grams"`
	CaloriesKcal *int      `json:"calories_kcal"`
	Notes        *string   `json:"notes"`
}

func fieldsOf(m core.Meal) mealFields {
	return mealFields{
		EatenOn:      m.EatenOn,
		Kind:         m.Kind,
		Name:         m.Name,
		AmountGrams:  m.AmountGrams,
		CaloriesKcal: m.CaloriesKcal,
		Notes:        m.Notes,
	}
}

// Login authenticates and stores the issued token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.Send(ctx, http.MethodPost, "/api/login", body, &res); err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		return LoginResult{}, errors.New("no token in login response")
	}
	c.session.Set(ctx, res.Token)
	return res, nil
}

// Logout discards the local session. The token is opaque and has no
// server-side revocation endpoint.
func (c *Client) Logout(ctx context.Context) {
	c.session.Clear(ctx)
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, p SignupParams) error {
	return c.Send(ctx, http.MethodPost, "/api/signup", p, nil)
}

// MealsOn fetches and normalizes the meal list for one calendar day.
// A 304 surfaces as ErrNotModified so the caller can keep its current
// view.
func (c *Client) MealsOn(ctx context.Context, date string) ([]core.Meal, error) {
	var raw any
	path := "/api/meals?eaten_on=" + url.QueryEscape(date)
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return core.Meals(raw), nil
}

// CreateMeal posts a new meal and returns the server's confirmed record
// (with its assigned id), normalized.
func (c *Client) CreateMeal(ctx context.Context, m core.Meal) (core.Meal, error) {
	if err := m.Validate(); err != nil {
		return core.Meal{}, fmt.Errorf("validate meal: %w", err)
	}
	var raw any
	body := map[string]any{"meal": fieldsOf(m)}
	if err := c.Send(ctx, http.MethodPost, "/api/meals", body, &raw); err != nil {
		return core.Meal{}, err
	}
	created, ok := core.MealFromRaw(raw)
	if !ok {
		return core.Meal{}, &MalformedResponseError{URL: c.baseURL + "/api/meals", Err: errors.New("meal object expected")}
	}
	return created, nil
}

// UpdateMeal patches an existing meal and returns the confirmed record.
func (c *Client) UpdateMeal(ctx context.Context, m core.Meal) (core.Meal, error) {
	if err := m.Validate(); err != nil {
		return core.Meal{}, fmt.Errorf("validate meal: %w", err)
	}
	var raw any
	path := fmt.Sprintf("/api/meals/%d", m.ID)
	body := map[string]any{"meal": fieldsOf(m)}
	if err := c.Send(ctx, http.MethodPatch, path, body, &raw); err != nil {
		return core.Meal{}, err
	}
	updated, ok := core.MealFromRaw(raw)
	if !ok {
		return core.Meal{}, &MalformedResponseError{URL: c.baseURL + path, Err: errors.New("meal object expected")}
	}
	return updated, nil
}

// DeleteMeal removes a meal. The API answers 204 (or any 2xx) with no
// body.
func (c *Client) DeleteMeal(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, fmt.Sprintf("/api/meals/%d", id), nil, nil)
}
