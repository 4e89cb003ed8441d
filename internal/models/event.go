package models

import "time"

// Event types pushed to live subscribers.
const (
	EventJourneyStarted  = "journey.started"
	EventJourneyFinished = "journey.finished"
	EventJourneyDeleted  = "journey.deleted"
	EventDeliveryCreated = "delivery.created"
	EventDeliveryUpdated = "delivery.updated"
)

// Event notifies subscribers that a journey or delivery of an owner changed.
type Event struct {
	Type       string          `json:"type"`
	OwnerID    string          `json:"ownerId"`
	JourneyID  string          `json:"jornadaId,omitempty"`
	DeliveryID string          `json:"entregaId,omitempty"`
	Status     string          `json:"status,omitempty"`
	Summary    *JourneySummary `json:"resumo,omitempty"`
	At         time.Time       `json:"at"`
}
