package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JourneyStatus is the state of an operating day.
type JourneyStatus string

const (
	JourneyActive   JourneyStatus = "ativa"
	JourneyFinished JourneyStatus = "finalizada"
)

// Journey is one operating day of dispatch activity.
type Journey struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID    string             `json:"ownerId" bson:"ownerId"`
	StartedAt  time.Time          `json:"dataInicio" bson:"dataInicio"`
	EndedAt    *time.Time         `json:"dataFim" bson:"dataFim"`
	Status     JourneyStatus      `json:"status" bson:"status"`
	CourierIDs []string           `json:"entregadoresIds" bson:"entregadoresIds"`
	Summary    *JourneySummary    `json:"resumo,omitempty" bson:"resumo,omitempty"` // set when finished
}

// HasCourier reports whether the courier takes part in the journey.
func (j *Journey) HasCourier(id string) bool {
	for _, c := range j.CourierIDs {
		if c == id {
			return true
		}
	}
	return false
}

// JourneySummary is frozen onto a journey when it is finalized.
type JourneySummary struct {
	Total       int `json:"totalEntregas" bson:"totalEntregas"`
	Completed   int `json:"concluidas" bson:"concluidas"`
	Failed      int `json:"falhas" bson:"falhas"`
	SuccessRate int `json:"taxaSucesso" bson:"taxaSucesso"` // percent
}

// JourneyEventType classifies timeline entries.
type JourneyEventType string

const (
	EventCreated      JourneyEventType = "criacao"
	EventStatusChange JourneyEventType = "mudanca_status"
)

// JourneyEvent is an immutable timeline entry of a journey.
type JourneyEvent struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	JourneyID   string             `json:"jornadaId" bson:"jornadaId"`
	Type        JourneyEventType   `json:"tipo" bson:"tipo"`
	Status      DeliveryStatus     `json:"novoStatus,omitempty" bson:"novoStatus,omitempty"`
	Description string             `json:"descricao" bson:"descricao"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}
