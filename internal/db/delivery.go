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

// MongoDeliveryCollection implements DeliveryCollection for MongoDB.
type MongoDeliveryCollection struct {
	Collection *mongo.Collection
}

// InsertDelivery inserts a delivery and sets its ID.
func (c *MongoDeliveryCollection) InsertDelivery(ctx context.Context, delivery *models.Delivery) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	if delivery.ID.IsZero() {
		delivery.ID = primitive.NewObjectID()
	}
	_, err := c.Collection.InsertOne(ctx, delivery)
	return err
}

// FindDeliveryByID finds a delivery by its ID.
func (c *MongoDeliveryCollection) FindDeliveryByID(ctx context.Context, id string) (*models.Delivery, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	oid, err := objectID("delivery", id)
	if err != nil {
		return nil, err
	}
	var delivery models.Delivery
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&delivery); err != nil {
		return nil, notFound(err, "delivery", id)
	}
	return &delivery, nil
}

// FindDeliveries returns the deliveries matching filter, oldest first.
func (c *MongoDeliveryCollection) FindDeliveries(ctx context.Context, filter DeliveryFilter) ([]models.Delivery, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	cursor, err := c.Collection.Find(ctx, deliveryQuery(filter), options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	deliveries := []models.Delivery{}
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func deliveryQuery(f DeliveryFilter) bson.M {
	q := bson.M{}
	if f.OwnerID != "" {
		q["ownerId"] = f.OwnerID
	}
	if f.JourneyID != "" {
		q["jornadaId"] = f.JourneyID
	}
	if f.CourierIDs != nil {
		q["entregadorId"] = bson.M{"$in": f.CourierIDs}
	}
	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if r := timeRange(f.CreatedFrom, f.CreatedTo); r != nil {
		q["createdAt"] = r
	}
	if r := timeRange(f.UpdatedFrom, f.UpdatedTo); r != nil {
		q["updatedAt"] = r
	}
	return q
}

// TransitionDelivery applies change while the stored status is still from.
func (c *MongoDeliveryCollection) TransitionDelivery(ctx context.Context, id string, from models.DeliveryStatus, change DeliveryChange) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("delivery", id)
	if err != nil {
		return err
	}
	set := bson.M{
		"status":        change.Status,
		"requerAtencao": change.RequiresAttention,
		"updatedAt":     change.UpdatedAt,
	}
	if change.CourierID != "" {
		set["entregadorId"] = change.CourierID
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": oid, "status": from}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("delivery %s is no longer %s: %w", id, from, models.ErrInvalidState)
	}
	return nil
}
