// Package dispatch manages couriers, deliveries and the operating-day journey that
// groups them.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Izaque674/SmartLOG-sub000/internal/db"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
	"github.com/Izaque674/SmartLOG-sub000/internal/reports"
)

// Publisher receives change notifications. Implementations must not block.
type Publisher interface {
	Publish(ctx context.Context, event models.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.Event) {}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the change notification sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone used for calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Service implements the journey and delivery lifecycles.
type Service struct {
	journeys   db.JourneyCollection
	deliveries db.DeliveryCollection
	couriers   db.CourierCollection
	publisher  Publisher
	now        func() time.Time
	loc        *time.Location
}

// NewService creates a dispatch service.
func NewService(journeys db.JourneyCollection, deliveries db.DeliveryCollection, couriers db.CourierCollection, opts ...Option) *Service {
	s := &Service{
		journeys:   journeys,
		deliveries: deliveries,
		couriers:   couriers,
		publisher:  noopPublisher{},
		now:        time.Now,
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone used for calendar days and histograms.
func (s *Service) Location() *time.Location {
	return s.loc
}

// StartJourney opens the owner's operating day with the given couriers. It fails with
// models.ErrConflict while another journey of the owner is active.
func (s *Service) StartJourney(ctx context.Context, ownerID string, courierIDs []string) (*models.Journey, error) {
	ids := uniqueIDs(courierIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one courier is required: %w", models.ErrValidation)
	}
	for _, id := range ids {
		if _, err := s.ownedCourier(ctx, ownerID, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("unknown courier %s: %w", id, models.ErrValidation)
			}
			return nil, err
		}
	}

	active, err := s.journeys.FindActiveJourney(ctx, ownerID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("journey %s is still active: %w", active.ID.Hex(), models.ErrConflict)
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	now := s.now()
	journey := &models.Journey{
		OwnerID:    ownerID,
		StartedAt:  now,
		Status:     models.JourneyActive,
		CourierIDs: ids,
	}
	if err := s.journeys.InsertJourney(ctx, journey); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, models.JourneyEvent{
		JourneyID:   journey.ID.Hex(),
		Type:        models.EventCreated,
		Description: fmt.Sprintf("Jornada iniciada com %d entregador(es)", len(ids)),
		Timestamp:   now,
	})
	s.publisher.Publish(ctx, models.Event{
		Type:      models.EventJourneyStarted,
		OwnerID:   ownerID,
		JourneyID: journey.ID.Hex(),
		Status:    string(journey.Status),
		At:        now,
	})
	return journey, nil
}

// ActiveJourney returns the owner's active journey or models.ErrNotFound.
func (s *Service) ActiveJourney(ctx context.Context, ownerID string) (*models.Journey, error) {
	return s.journeys.FindActiveJourney(ctx, ownerID)
}

// FinalizeJourney closes an active journey and freezes its summary. The deliveries of the
// journey are those of its couriers created between its start and now.
func (s *Service) FinalizeJourney(ctx context.Context, ownerID, journeyID string) (models.JourneySummary, error) {
	journey, err := s.ownedJourney(ctx, ownerID, journeyID)
	if err != nil {
		return models.JourneySummary{}, err
	}
	if journey.Status != models.JourneyActive {
		return models.JourneySummary{}, fmt.Errorf("active journey %s: %w", journeyID, models.ErrNotFound)
	}

	now := s.now()
	deliveries, err := s.journeyDeliveries(ctx, journey, now)
	if err != nil {
		return models.JourneySummary{}, err
	}
	summary := reports.Summarize(deliveries)
	if err := s.journeys.FinishJourney(ctx, journeyID, now, summary); err != nil {
		return models.JourneySummary{}, err
	}

	s.publisher.Publish(ctx, models.Event{
		Type:      models.EventJourneyFinished,
		OwnerID:   ownerID,
		JourneyID: journeyID,
		Status:    string(models.JourneyFinished),
		Summary:   &summary,
		At:        now,
	})
	return summary, nil
}

// DeleteJourney removes a journey record and its timeline. Deliveries are kept.
func (s *Service) DeleteJourney(ctx context.Context, ownerID, journeyID string) error {
	if _, err := s.ownedJourney(ctx, ownerID, journeyID); err != nil {
		return err
	}
	if err := s.journeys.DeleteJourney(ctx, journeyID); err != nil {
		return err
	}
	s.publisher.Publish(ctx, models.Event{
		Type:      models.EventJourneyDeleted,
		OwnerID:   ownerID,
		JourneyID: journeyID,
		At:        s.now(),
	})
	return nil
}

// History returns the owner's finished journeys, newest first.
func (s *Service) History(ctx context.Context, ownerID string) ([]models.Journey, error) {
	return s.journeys.FindJourneys(ctx, ownerID, models.JourneyFinished)
}

func (s *Service) ownedJourney(ctx context.Context, ownerID, journeyID string) (*models.Journey, error) {
	journey, err := s.journeys.FindJourneyByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if journey.OwnerID != ownerID {
		return nil, fmt.Errorf("journey %s: %w", journeyID, models.ErrNotFound)
	}
	return journey, nil
}

// journeyDeliveries loads the deliveries of the journey's couriers created in its window.
func (s *Service) journeyDeliveries(ctx context.Context, journey *models.Journey, until time.Time) ([]models.Delivery, error) {
	if journey.EndedAt != nil {
		until = *journey.EndedAt
	}
	return s.deliveries.FindDeliveries(ctx, db.DeliveryFilter{
		OwnerID:     journey.OwnerID,
		CourierIDs:  journey.CourierIDs,
		CreatedFrom: journey.StartedAt,
		CreatedTo:   until,
	})
}

func (s *Service) recordEvent(ctx context.Context, event models.JourneyEvent) {
	if err := s.journeys.InsertEvent(ctx, &event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"journey_id": event.JourneyID,
			"type":       event.Type,
		}).Warn("Failed to record journey event")
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
