package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryStatus is the position of a delivery in its lifecycle.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pendente"
	DeliveryInTransit DeliveryStatus = "em_rota"
	DeliveryCompleted DeliveryStatus = "concluida"
	DeliveryFailed    DeliveryStatus = "falhou"
)

// Valid reports whether s is a known status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryInTransit, DeliveryCompleted, DeliveryFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no transition leaves s.
func (s DeliveryStatus) Terminal() bool {
	switch s {
	case DeliveryCompleted, DeliveryFailed:
		return true
	default:
		return false
	}
}

// Delivery is a single drop-off handled by a courier.
type Delivery struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID           string             `json:"ownerId" bson:"ownerId"`
	JourneyID         string             `json:"jornadaId,omitempty" bson:"jornadaId,omitempty"`
	Client            string             `json:"cliente" bson:"cliente"`
	Address           string             `json:"endereco" bson:"endereco"`
	OrderNote         string             `json:"pedido" bson:"pedido"`
	Status            DeliveryStatus     `json:"status" bson:"status"`
	CourierID         string             `json:"entregadorId,omitempty" bson:"entregadorId,omitempty"`
	RequiresAttention bool               `json:"requerAtencao" bson:"requerAtencao"` // only meaningful when completed
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}
