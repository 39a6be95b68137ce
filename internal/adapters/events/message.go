// Package events holds the ledger event publishers.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	portsevents "github.com/domohq/domo_backend/internal/core/ports/events"
)

// Envelope is the wire form of a ledger event.
type Envelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	HouseholdID string          `json:"householdID"`
	UserID      string          `json:"userID"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

// Encode wraps evt in an Envelope with a fresh message id.
func Encode(evt portsevents.Event) (Envelope, []byte, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal %s payload: %w", evt.Type, err)
	}
	env := Envelope{
		ID:          uuid.NewString(),
		Type:        evt.Type,
		HouseholdID: evt.HouseholdID,
		UserID:      evt.UserID,
		OccurredAt:  evt.OccurredAt.UTC(),
		Payload:     payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal %s envelope: %w", evt.Type, err)
	}
	return env, body, nil
}

// RoutingKey is "<type>.<household>", so consumers can bind per event type or per household.
func RoutingKey(evt portsevents.Event) string {
	return evt.Type + "." + evt.HouseholdID
}
