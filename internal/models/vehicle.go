package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a fleet vehicle and its embedded maintenance plan.
type Vehicle struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID   string             `json:"ownerId" bson:"ownerId"`
	Plate     string             `json:"placa" bson:"placa"` // upper case
	Model     string             `json:"modelo" bson:"modelo"`
	Year      int                `json:"ano" bson:"ano"`
	CurrentKm int                `json:"km_atual" bson:"km_atual"` // never decreases
	Items     []MaintenanceItem  `json:"itensDeManutencao" bson:"itensDeManutencao"`
	PhotoURL  string             `json:"fotoUrl,omitempty" bson:"fotoUrl,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Item returns the maintenance item with the given id.
func (v *Vehicle) Item(id string) (*MaintenanceItem, bool) {
	for i := range v.Items {
		if v.Items[i].ID == id {
			return &v.Items[i], true
		}
	}
	return nil, false
}
