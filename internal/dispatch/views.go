package dispatch

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Izaque674/SmartLOG-sub000/internal/db"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
	"github.com/Izaque674/SmartLOG-sub000/internal/reports"
)

// Snapshot is every delivery and courier of an owner.
type Snapshot struct {
	Deliveries []models.Delivery `json:"entregas"`
	Couriers   []models.Courier  `json:"entregadores"`
}

// Operation is the live view of the active journey. Journey is nil when none is active.
// Progress only counts the deliveries of participating couriers, like the journey summary.
type Operation struct {
	Journey    *models.Journey              `json:"jornada"`
	Deliveries []reports.DeliveryRow        `json:"entregas"`
	Couriers   []models.Courier             `json:"entregadores"`
	ByCourier  map[string][]models.Delivery `json:"porEntregador"`
	Progress   reports.Progress             `json:"progresso"`
}

// JourneyDetails is a journey with its deliveries, participating couriers and timeline.
type JourneyDetails struct {
	Journey    models.Journey        `json:"jornada"`
	Deliveries []reports.DeliveryRow `json:"entregas"`
	Couriers   []models.Courier      `json:"entregadores"`
	Events     []models.JourneyEvent `json:"eventos"`
}

// JourneyReport holds the charts and tables of a journey.
type JourneyReport struct {
	Progress   reports.Progress             `json:"progresso"`
	CreatedBy  []reports.HourCount          `json:"criadasPorHora"`
	ResolvedBy []reports.HourCount          `json:"resolvidasPorHora"`
	Team       []reports.CourierPerformance `json:"desempenho"`
}

// KPI is the completed-deliveries count of one calendar day.
type KPI struct {
	Date      string `json:"data"`
	Completed int    `json:"concluidas"`
}

// Snapshot loads all deliveries and couriers of the owner concurrently.
func (s *Service) Snapshot(ctx context.Context, ownerID string) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Deliveries, err = s.deliveries.FindDeliveries(gctx, db.DeliveryFilter{OwnerID: ownerID})
		return err
	})
	g.Go(func() error {
		var err error
		snap.Couriers, err = s.couriers.FindCouriers(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Operation builds the live operations view: every delivery created since the active
// journey started and the journey's couriers.
func (s *Service) Operation(ctx context.Context, ownerID string) (*Operation, error) {
	op := &Operation{
		Deliveries: []reports.DeliveryRow{},
		Couriers:   []models.Courier{},
		ByCourier:  map[string][]models.Delivery{},
	}
	journey, err := s.journeys.FindActiveJourney(ctx, ownerID)
	if errors.Is(err, models.ErrNotFound) {
		return op, nil
	}
	if err != nil {
		return nil, err
	}
	op.Journey = journey

	var (
		deliveries []models.Delivery
		all        []models.Courier
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deliveries, err = s.deliveries.FindDeliveries(gctx, db.DeliveryFilter{
			OwnerID:     ownerID,
			CreatedFrom: journey.StartedAt,
		})
		return err
	})
	g.Go(func() error {
		var err error
		all, err = s.couriers.FindCouriers(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var counted []models.Delivery
	for _, d := range deliveries {
		if journey.HasCourier(d.CourierID) {
			counted = append(counted, d)
		}
	}
	op.Deliveries = reports.LabelDeliveries(deliveries, all)
	op.Couriers = participants(journey, all)
	op.ByCourier = reports.GroupByCourier(deliveries, op.Couriers)
	op.Progress = reports.ComputeProgress(counted)
	return op, nil
}

// Details loads a journey with its deliveries, couriers and events.
func (s *Service) Details(ctx context.Context, ownerID, journeyID string) (*JourneyDetails, error) {
	j, err := s.loadJourney(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}
	return &JourneyDetails{
		Journey:    *j.journey,
		Deliveries: reports.LabelDeliveries(j.deliveries, j.couriers),
		Couriers:   participants(j.journey, j.couriers),
		Events:     j.events,
	}, nil
}

// Report computes progress, hourly histograms and team performance of a journey.
func (s *Service) Report(ctx context.Context, ownerID, journeyID string) (*JourneyReport, error) {
	j, err := s.loadJourney(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}
	var resolved []models.Delivery
	for _, d := range j.deliveries {
		if d.Status.Terminal() {
			resolved = append(resolved, d)
		}
	}
	return &JourneyReport{
		Progress:   reports.ComputeProgress(j.deliveries),
		CreatedBy:  reports.HourlyHistogram(j.deliveries, reports.ByCreatedAt, s.loc),
		ResolvedBy: reports.HourlyHistogram(resolved, reports.ByUpdatedAt, s.loc),
		Team:       reports.TeamPerformance(participants(j.journey, j.couriers), j.deliveries),
	}, nil
}

type journeyData struct {
	journey    *models.Journey
	deliveries []models.Delivery
	couriers   []models.Courier // every courier of the owner
	events     []models.JourneyEvent
}

func (s *Service) loadJourney(ctx context.Context, ownerID, journeyID string) (*journeyData, error) {
	journey, err := s.ownedJourney(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}
	j := &journeyData{journey: journey}

	now := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		j.deliveries, err = s.journeyDeliveries(gctx, journey, now)
		return err
	})
	g.Go(func() error {
		var err error
		j.couriers, err = s.couriers.FindCouriers(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		j.events, err = s.journeys.FindEvents(gctx, journeyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return j, nil
}

// YesterdayCompleted counts deliveries completed during the previous local calendar day.
func (s *Service) YesterdayCompleted(ctx context.Context, ownerID string) (KPI, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	yesterday := today.AddDate(0, 0, -1)

	deliveries, err := s.deliveries.FindDeliveries(ctx, db.DeliveryFilter{
		OwnerID:     ownerID,
		Statuses:    []models.DeliveryStatus{models.DeliveryCompleted},
		UpdatedFrom: yesterday,
		UpdatedTo:   today.Add(-time.Nanosecond),
	})
	if err != nil {
		return KPI{}, err
	}
	return KPI{Date: yesterday.Format("2006-01-02"), Completed: len(deliveries)}, nil
}

// participants keeps the couriers of the journey in the journey's order. Ids without a
// courier record are skipped.
func participants(journey *models.Journey, couriers []models.Courier) []models.Courier {
	byID := make(map[string]models.Courier, len(couriers))
	for _, c := range couriers {
		byID[c.ID.Hex()] = c
	}
	out := make([]models.Courier, 0, len(journey.CourierIDs))
	for _, id := range journey.CourierIDs {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
