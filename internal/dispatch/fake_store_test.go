package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Izaque674/SmartLOG-sub000/internal/db"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// fakeStore is an in-memory stand-in for the three Mongo collections. It mirrors the
// conditional writes and the one-active-journey index of the real store.
type fakeStore struct {
	mu         sync.Mutex
	journeys   map[string]models.Journey
	events     []models.JourneyEvent
	deliveries []models.Delivery
	couriers   map[string]models.Courier

	// hideActive makes FindActiveJourney report nothing, simulating a concurrent start
	// that slipped past the read.
	hideActive bool
	eventErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		journeys: map[string]models.Journey{},
		couriers: map[string]models.Courier{},
	}
}

func (f *fakeStore) InsertJourney(_ context.Context, j *models.Journey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.journeys {
		if other.OwnerID == j.OwnerID && other.Status == models.JourneyActive && j.Status == models.JourneyActive {
			return fmt.Errorf("duplicate active journey: %w", models.ErrConflict)
		}
	}
	if j.ID.IsZero() {
		j.ID = primitive.NewObjectID()
	}
	f.journeys[j.ID.Hex()] = *j
	return nil
}

func (f *fakeStore) FindActiveJourney(_ context.Context, ownerID string) (*models.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hideActive {
		for _, j := range f.journeys {
			if j.OwnerID == ownerID && j.Status == models.JourneyActive {
				j := j
				return &j, nil
			}
		}
	}
	return nil, fmt.Errorf("active journey of %s: %w", ownerID, models.ErrNotFound)
}

func (f *fakeStore) FindJourneyByID(_ context.Context, id string) (*models.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.journeys[id]
	if !ok {
		return nil, fmt.Errorf("journey %s: %w", id, models.ErrNotFound)
	}
	return &j, nil
}

func (f *fakeStore) FindJourneys(_ context.Context, ownerID string, status models.JourneyStatus) ([]models.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Journey{}
	for _, j := range f.journeys {
		if j.OwnerID == ownerID && j.Status == status {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartedAt.After(out[b].StartedAt) })
	return out, nil
}

func (f *fakeStore) FinishJourney(_ context.Context, id string, endedAt time.Time, summary models.JourneySummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.journeys[id]
	if !ok || j.Status != models.JourneyActive {
		return fmt.Errorf("active journey %s: %w", id, models.ErrNotFound)
	}
	j.Status = models.JourneyFinished
	j.EndedAt = &endedAt
	j.Summary = &summary
	f.journeys[id] = j
	return nil
}

func (f *fakeStore) DeleteJourney(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.journeys[id]; !ok {
		return fmt.Errorf("journey %s: %w", id, models.ErrNotFound)
	}
	delete(f.journeys, id)
	kept := f.events[:0]
	for _, e := range f.events {
		if e.JourneyID != id {
			kept = append(kept, e)
		}
	}
	f.events = kept
	return nil
}

func (f *fakeStore) InsertEvent(_ context.Context, e *models.JourneyEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventErr != nil {
		return f.eventErr
	}
	e.ID = primitive.NewObjectID()
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeStore) FindEvents(_ context.Context, journeyID string) ([]models.JourneyEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.JourneyEvent{}
	for _, e := range f.events {
		if e.JourneyID == journeyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertDelivery(_ context.Context, d *models.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	f.deliveries = append(f.deliveries, *d)
	return nil
}

func (f *fakeStore) FindDeliveryByID(_ context.Context, id string) (*models.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.deliveries {
		if d.ID.Hex() == id {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("delivery %s: %w", id, models.ErrNotFound)
}

func (f *fakeStore) FindDeliveries(_ context.Context, filter db.DeliveryFilter) ([]models.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Delivery{}
	for _, d := range f.deliveries {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func matches(d models.Delivery, f db.DeliveryFilter) bool {
	if f.OwnerID != "" && d.OwnerID != f.OwnerID {
		return false
	}
	if f.JourneyID != "" && d.JourneyID != f.JourneyID {
		return false
	}
	if f.CourierIDs != nil && !contains(f.CourierIDs, d.CourierID) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			found = found || s == d.Status
		}
		if !found {
			return false
		}
	}
	return within(d.CreatedAt, f.CreatedFrom, f.CreatedTo) && within(d.UpdatedAt, f.UpdatedFrom, f.UpdatedTo)
}

func within(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (f *fakeStore) TransitionDelivery(_ context.Context, id string, from models.DeliveryStatus, change db.DeliveryChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.deliveries {
		if d.ID.Hex() != id {
			continue
		}
		if d.Status != from {
			return fmt.Errorf("delivery %s is no longer %s: %w", id, from, models.ErrInvalidState)
		}
		d.Status = change.Status
		d.RequiresAttention = change.RequiresAttention
		d.UpdatedAt = change.UpdatedAt
		if change.CourierID != "" {
			d.CourierID = change.CourierID
		}
		f.deliveries[i] = d
		return nil
	}
	return fmt.Errorf("delivery %s: %w", id, models.ErrInvalidState)
}

func (f *fakeStore) InsertCourier(_ context.Context, c *models.Courier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.couriers[c.ID.Hex()] = *c
	return nil
}

func (f *fakeStore) FindCouriers(_ context.Context, ownerID string) ([]models.Courier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Courier{}
	for _, c := range f.couriers {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (f *fakeStore) FindCourierByID(_ context.Context, id string) (*models.Courier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.couriers[id]
	if !ok {
		return nil, fmt.Errorf("courier %s: %w", id, models.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeStore) UpdateCourier(_ context.Context, id string, c models.Courier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.couriers[id]; !ok {
		return fmt.Errorf("courier %s: %w", id, models.ErrNotFound)
	}
	f.couriers[id] = c
	return nil
}

func (f *fakeStore) DeleteCourier(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.couriers[id]; !ok {
		return fmt.Errorf("courier %s: %w", id, models.ErrNotFound)
	}
	delete(f.couriers, id)
	return nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
