package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceItem is a recurring, distance-based service task embedded in a vehicle.
type MaintenanceItem struct {
	ID            string `json:"id" bson:"id"`
	Name          string `json:"nome" bson:"nome"`
	IntervalKm    int    `json:"intervalo_km" bson:"intervalo_km"`
	LastServiceKm int    `json:"km_ultima_revisao" bson:"km_ultima_revisao"`
}

// ServiceRecord is one completed maintenance event. Records are append-only.
type ServiceRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID   string             `json:"vehicleId" bson:"vehicleId"`
	ItemID      string             `json:"itemId" bson:"itemId"`
	ItemName    string             `json:"nomeItem" bson:"nomeItem"` // snapshot at record time
	ServiceKm   int                `json:"km_servico" bson:"km_servico"`
	Cost        float64            `json:"custo" bson:"custo"`
	Notes       string             `json:"observacoes" bson:"observacoes"`
	ServiceDate time.Time          `json:"data" bson:"data"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}
