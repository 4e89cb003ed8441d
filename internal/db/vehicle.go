package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// codeIllegalOperation is returned by a standalone server when a transaction is started.
const codeIllegalOperation = 20

// MongoVehicleCollection implements VehicleCollection for MongoDB. Service records live in
// the History collection keyed by vehicleId.
type MongoVehicleCollection struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	History    *mongo.Collection
}

// InsertVehicle inserts a vehicle record into the collection.
func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	if vehicle.Items == nil {
		vehicle.Items = []models.MaintenanceItem{}
	}
	_, err := c.Collection.InsertOne(ctx, vehicle)
	return err
}

// FindVehicles returns the vehicles of an owner ordered by plate.
func (c *MongoVehicleCollection) FindVehicles(ctx context.Context, ownerID string) ([]models.Vehicle, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().SetSort(bson.D{{Key: "placa", Value: 1}}))
	if err != nil {
		return nil, err
	}
	vehicles := []models.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindVehicleByID finds a vehicle by its ID.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	oid, err := objectID("vehicle", id)
	if err != nil {
		return nil, err
	}
	var vehicle models.Vehicle
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&vehicle); err != nil {
		return nil, notFound(err, "vehicle", id)
	}
	return &vehicle, nil
}

// UpdateOdometer sets km_atual unless it would decrease.
func (c *MongoVehicleCollection) UpdateOdometer(ctx context.Context, id string, km int) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("vehicle", id)
	if err != nil {
		return err
	}
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "km_atual": bson.M{"$lte": km}},
		bson.M{"$set": bson.M{"km_atual": km, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("vehicle %s: odometer would decrease or vehicle is gone: %w", id, models.ErrConflict)
	}
	return nil
}

// UpdateItems replaces the embedded maintenance plan.
func (c *MongoVehicleCollection) UpdateItems(ctx context.Context, id string, items []models.MaintenanceItem) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("vehicle", id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.MaintenanceItem{}
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"itensDeManutencao": items, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("vehicle %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// RegisterService inserts the record and advances the item inside a transaction. On a
// deployment without transaction support the two writes run in sequence and the record
// is removed again when the item update fails.
func (c *MongoVehicleCollection) RegisterService(ctx context.Context, record *models.ServiceRecord) error {
	if c.Collection == nil || c.History == nil {
		return errNilCollection()
	}
	oid, err := objectID("vehicle", record.VehicleID)
	if err != nil {
		return err
	}
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}

	if c.Client == nil {
		return c.registerSequential(ctx, oid, record)
	}
	session, err := c.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := c.History.InsertOne(sc, record); err != nil {
			return nil, err
		}
		return nil, c.advanceItem(sc, oid, record)
	})
	if transactionsUnsupported(err) {
		return c.registerSequential(ctx, oid, record)
	}
	return err
}

func (c *MongoVehicleCollection) registerSequential(ctx context.Context, oid primitive.ObjectID, record *models.ServiceRecord) error {
	if _, err := c.History.InsertOne(ctx, record); err != nil {
		return err
	}
	if err := c.advanceItem(ctx, oid, record); err != nil {
		// The request context may be the reason the update failed.
		cleanup, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, derr := c.History.DeleteOne(cleanup, bson.M{"_id": record.ID}); derr != nil {
			return errors.Join(err, fmt.Errorf("compensate service record %s: %w", record.ID.Hex(), derr))
		}
		return err
	}
	return nil
}

// advanceItem moves the item's last service forward. It never moves it backwards: an
// item already serviced beyond record.ServiceKm fails with models.ErrConflict.
func (c *MongoVehicleCollection) advanceItem(ctx context.Context, oid primitive.ObjectID, record *models.ServiceRecord) error {
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "itensDeManutencao": bson.M{"$elemMatch": bson.M{
			"id":                record.ItemID,
			"km_ultima_revisao": bson.M{"$lte": record.ServiceKm},
		}}},
		bson.M{"$set": bson.M{
			"itensDeManutencao.$.km_ultima_revisao": record.ServiceKm,
			"updatedAt":                             record.Timestamp,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}
	n, err := c.Collection.CountDocuments(ctx, bson.M{"_id": oid, "itensDeManutencao.id": record.ItemID})
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("maintenance item %q of vehicle %s was serviced after km %d: %w",
			record.ItemID, record.VehicleID, record.ServiceKm, models.ErrConflict)
	}
	return fmt.Errorf("maintenance item %q of vehicle %s: %w", record.ItemID, record.VehicleID, models.ErrNotFound)
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == codeIllegalOperation
}

// FindHistory returns the service records of a vehicle, newest first.
func (c *MongoVehicleCollection) FindHistory(ctx context.Context, vehicleID string) ([]models.ServiceRecord, error) {
	if c.History == nil {
		return nil, errNilCollection()
	}
	cursor, err := c.History.Find(ctx, bson.M{"vehicleId": vehicleID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	records := []models.ServiceRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteVehicle deletes a vehicle by its ID. The history collection is left untouched.
func (c *MongoVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("vehicle", id)
	if err != nil {
		return err
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("vehicle %s: %w", id, models.ErrNotFound)
	}
	return nil
}
