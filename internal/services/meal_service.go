package services

import (
	"context"
	"fmt"
	"log/slog"

	"meallog/internal/amqp"
	"meallog/internal/core"
)

// MealAPI is the write surface of the remote accessor.
type MealAPI interface {
	CreateMeal(ctx context.Context, m core.Meal) (core.Meal, error)
	UpdateMeal(ctx context.Context, m core.Meal) (core.Meal, error)
	DeleteMeal(ctx context.Context, id int64) error
}

// EventPublisher emits change events for downstream consumers.
type EventPublisher interface {
	PublishMealEvent(ctx context.Context, msg *amqp.MealEventMessage) error
}

// MealService orchestrates mutations: the remote API confirms the
// change, then a change event is published for the summary worker.
// Publishing is best effort and never fails the user operation; a nil
// publisher disables events entirely.
type MealService struct {
	api       MealAPI
	publisher EventPublisher
}

func NewMealService(api MealAPI, publisher EventPublisher) *MealService {
	return &MealService{api: api, publisher: publisher}
}

// Create posts a new meal and returns the server's confirmed record.
func (s *MealService) Create(ctx context.Context, m core.Meal) (core.Meal, error) {
	created, err := s.api.CreateMeal(ctx, m)
	if err != nil {
		return core.Meal{}, fmt.Errorf("create meal: %w", err)
	}
	s.publishEvent(ctx, created.ID, created.EatenOn, amqp.ActionCreated)
	return created, nil
}

// Update patches an existing meal and returns the confirmed record.
func (s *MealService) Update(ctx context.Context, m core.Meal) (core.Meal, error) {
	updated, err := s.api.UpdateMeal(ctx, m)
	if err != nil {
		return core.Meal{}, fmt.Errorf("update meal: %w", err)
	}
	s.publishEvent(ctx, updated.ID, updated.EatenOn, amqp.ActionUpdated)
	return updated, nil
}

// Delete removes a meal. eatenOn identifies the affected day for the
// change event, since the record is gone afterwards.
func (s *MealService) Delete(ctx context.Context, id int64, eatenOn string) error {
	if err := s.api.DeleteMeal(ctx, id); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	s.publishEvent(ctx, id, eatenOn, amqp.ActionDeleted)
	return nil
}

func (s *MealService) publishEvent(ctx context.Context, id int64, eatenOn, action string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewMealEventMessage(id, eatenOn, action)
	if err := s.publisher.PublishMealEvent(ctx, msg); err != nil {
		// The mutation is already confirmed by the API; losing an
		// event only delays the exported summary.
		slog.ErrorContext(ctx, "Failed to publish meal event",
			"id", id, "action", action, "error", err)
	}
}
