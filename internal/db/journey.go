package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// MongoJourneyCollection implements JourneyCollection for MongoDB. Timeline events are
// kept in the Events collection keyed by jornadaId.
type MongoJourneyCollection struct {
	Collection *mongo.Collection
	Events     *mongo.Collection
}

// InsertJourney inserts a journey. The unique partial index turns a second active journey
// for the same owner into models.ErrConflict.
func (c *MongoJourneyCollection) InsertJourney(ctx context.Context, journey *models.Journey) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	if journey.ID.IsZero() {
		journey.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, journey); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("owner %s already has an active journey: %w", journey.OwnerID, models.ErrConflict)
		}
		return err
	}
	return nil
}

// FindActiveJourney returns the active journey of an owner.
func (c *MongoJourneyCollection) FindActiveJourney(ctx context.Context, ownerID string) (*models.Journey, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	var journey models.Journey
	err := c.Collection.FindOne(ctx, bson.M{"ownerId": ownerID, "status": models.JourneyActive}).Decode(&journey)
	if err != nil {
		return nil, notFound(err, "active journey of owner", ownerID)
	}
	return &journey, nil
}

// FindJourneyByID finds a journey by its ID.
func (c *MongoJourneyCollection) FindJourneyByID(ctx context.Context, id string) (*models.Journey, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	oid, err := objectID("journey", id)
	if err != nil {
		return nil, err
	}
	var journey models.Journey
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&journey); err != nil {
		return nil, notFound(err, "journey", id)
	}
	return &journey, nil
}

// FindJourneys returns the journeys of an owner in a status, newest first.
func (c *MongoJourneyCollection) FindJourneys(ctx context.Context, ownerID string, status models.JourneyStatus) ([]models.Journey, error) {
	if c.Collection == nil {
		return nil, errNilCollection()
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"ownerId": ownerID, "status": status},
		options.Find().SetSort(bson.D{{Key: "dataInicio", Value: -1}}))
	if err != nil {
		return nil, err
	}
	journeys := []models.Journey{}
	if err := cursor.All(ctx, &journeys); err != nil {
		return nil, err
	}
	return journeys, nil
}

// FinishJourney freezes the summary onto an active journey.
func (c *MongoJourneyCollection) FinishJourney(ctx context.Context, id string, endedAt time.Time, summary models.JourneySummary) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("journey", id)
	if err != nil {
		return err
	}
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "status": models.JourneyActive},
		bson.M{"$set": bson.M{"status": models.JourneyFinished, "dataFim": endedAt, "resumo": summary}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("active journey %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteJourney deletes a journey and its timeline. Deliveries are not touched.
func (c *MongoJourneyCollection) DeleteJourney(ctx context.Context, id string) error {
	if c.Collection == nil {
		return errNilCollection()
	}
	oid, err := objectID("journey", id)
	if err != nil {
		return err
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("journey %s: %w", id, models.ErrNotFound)
	}
	if c.Events != nil {
		if _, err := c.Events.DeleteMany(ctx, bson.M{"jornadaId": id}); err != nil {
			return fmt.Errorf("delete events of journey %s: %w", id, err)
		}
	}
	return nil
}

// InsertEvent appends a timeline event.
func (c *MongoJourneyCollection) InsertEvent(ctx context.Context, event *models.JourneyEvent) error {
	if c.Events == nil {
		return errNilCollection()
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	_, err := c.Events.InsertOne(ctx, event)
	return err
}

// FindEvents returns the timeline of a journey in chronological order.
func (c *MongoJourneyCollection) FindEvents(ctx context.Context, journeyID string) ([]models.JourneyEvent, error) {
	if c.Events == nil {
		return nil, errNilCollection()
	}
	cursor, err := c.Events.Find(ctx, bson.M{"jornadaId": journeyID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	events := []models.JourneyEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
