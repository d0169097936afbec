package domain

import (
	"fmt"
	"strings"
)

// FleetCreationEvent announces a fleet registration command. It is immutable
// once constructed and consumed at-least-once by the workers.
//
// JSON field names are part of the wire contract shared with the workers;
// do not rename them.
type FleetCreationEvent struct {
	CorrelationID string `json:"CorrelationId"`
	UserID        string `json:"UserId"`
	Identifier    string `json:"Identifier"`
	Year          int    `json:"Year"`
	Model         string `json:"Model"`
	Plate         string `json:"Plate"`
}

// NewFleetCreationEvent validates all fields and builds the event.
func NewFleetCreationEvent(correlationID, userID, identifier string, year int, model, plate string) (*FleetCreationEvent, error) {
	switch {
	case strings.TrimSpace(correlationID) == "":
		return nil, fmt.Errorf("%w: correlation id is blank", ErrInvalidEvent)
	case strings.TrimSpace(userID) == "":
		return nil, fmt.Errorf("%w: user id is blank", ErrInvalidEvent)
	case strings.TrimSpace(identifier) == "":
		return nil, fmt.Errorf("%w: identifier is blank", ErrInvalidEvent)
	case year <= 0:
		return nil, fmt.Errorf("%w: year must be positive", ErrInvalidEvent)
	case strings.TrimSpace(model) == "":
		return nil, fmt.Errorf("%w: model is blank", ErrInvalidEvent)
	case strings.TrimSpace(plate) == "":
		return nil, fmt.Errorf("%w: plate is blank", ErrInvalidEvent)
	}

	return &FleetCreationEvent{
		CorrelationID: correlationID,
		UserID:        userID,
		Identifier:    identifier,
		Year:          year,
		Model:         model,
		Plate:         plate,
	}, nil
}
