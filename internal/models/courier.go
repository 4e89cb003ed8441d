package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Courier is a person assigned to fulfill deliveries.
type Courier struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID   string             `json:"ownerId" bson:"ownerId"`
	Name      string             `json:"nome" bson:"nome"`
	Phone     string             `json:"telefone" bson:"telefone"`
	Vehicle   string             `json:"veiculo" bson:"veiculo"`
	Route     string             `json:"rota" bson:"rota"`
	PhotoURL  string             `json:"fotoUrl,omitempty" bson:"fotoUrl,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
