package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// MongoCourierCollection implements CourierCollection for MongoDB.
type MongoCourierCollection struct {
	Collection *mongo.Collection
}

// InsertCourier inserts a courier and sets its ID.
func (c *MongoCourierCollection) InsertCourier(ctx context.Context, courier *models.Courier) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	if courier.ID.IsZero() {
		courier.ID = primitive.NewObjectID()
	}
	_, err := c.Collection.InsertOne(ctx, courier)
	return err
}

// FindCouriers returns the couriers of an owner ordered by name.
func (c *MongoCourierCollection) FindCouriers(ctx context.Context, ownerID string) ([]models.Courier, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().SetSort(bson.D{{Key: "nome", Value: 1}}))
	if err != nil {
		return nil, err
	}
	couriers := []models.Courier{}
	if err := cursor.All(ctx, &couriers); err != nil {
		return nil, err
	}
	return couriers, nil
}

// FindCourierByID finds a courier by its ID.
func (c *MongoCourierCollection) FindCourierByID(ctx context.Context, id string) (*models.Courier, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	oid, err := objectID("courier", id)
	if err != nil {
		return nil, err
	}
	var courier models.Courier
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&courier); err != nil {
		return nil, notFound(err, "courier", id)
	}
	return &courier, nil
}

// UpdateCourier overwrites the editable fields of a courier.
func (c *MongoCourierCollection) UpdateCourier(ctx context.Context, id string, courier models.Courier) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("courier", id)
	if err != nil {
		return err
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"nome":      courier.Name,
		"telefone":  courier.Phone,
		"veiculo":   courier.Vehicle,
		"rota":      courier.Route,
		"fotoUrl":   courier.PhotoURL,
		"updatedAt": courier.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("courier %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteCourier deletes a courier. Deliveries keep their reference to it.
func (c *MongoCourierCollection) DeleteCourier(ctx context.Context, id string) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("courier", id)
	if err != nil {
		return err
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("courier %s: %w", id, models.ErrNotFound)
	}
	return nil
}
