package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// MealEventMessage announces a confirmed mutation. It is deliberately
// lightweight: consumers re-fetch the affected day from the API rather
// than trusting a payload snapshot, so the fetched list stays the only
// source of truth.
type MealEventMessage struct {
	ID        int64     `json:"id"`
	EatenOn   string    `json:"eaten_on"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMealEventMessage(id int64, eatenOn, action string) *MealEventMessage {
	return &MealEventMessage{
		ID:        id,
		EatenOn:   eatenOn,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *MealEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MealEventMessageFromJSON(data []byte) (*MealEventMessage, error) {
	var msg MealEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
