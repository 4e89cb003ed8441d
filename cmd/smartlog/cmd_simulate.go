package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Izaque674/SmartLOG-sub000/internal/client"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

var simCfg simulation

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive one operating day against a running API",
	Long: `Creates couriers when the owner has fewer than --couriers, starts a journey,
creates deliveries assigned to random couriers, resolves each one after --tick and
finally closes the journey and prints its summary.`,
	RunE: runSimulate,
}

func init() {
	addClientFlags(simulateCmd)
	simulateCmd.Flags().IntVar(&simCfg.Couriers, "couriers", 3, "couriers taking part in the journey")
	simulateCmd.Flags().IntVar(&simCfg.Deliveries, "deliveries", 12, "deliveries to create")
	simulateCmd.Flags().DurationVar(&simCfg.Tick, "tick", time.Second, "pause between simulated steps")
	simulateCmd.Flags().Float64Var(&simCfg.FailRate, "fail-rate", 0.15, "share of deliveries that fail")
	simulateCmd.Flags().Float64Var(&simCfg.AttentionRate, "attention-rate", 0.1, "share of completed deliveries flagged for attention")
}

// simulationAPI is the part of client.Client the simulation needs.
type simulationAPI interface {
	Me(ctx context.Context) (*client.Profile, error)
	ListCouriers(ctx context.Context) ([]models.Courier, error)
	CreateCourier(ctx context.Context, name, route string) (*models.Courier, error)
	StartJourney(ctx context.Context, courierIDs []string) (*models.Journey, error)
	ActiveJourney(ctx context.Context, ownerID string) (*models.Journey, error)
	CreateDelivery(ctx context.Context, in client.DeliveryRequest) (*models.Delivery, error)
	ResolveDelivery(ctx context.Context, deliveryID string, status models.DeliveryStatus, requiresAttention bool) (*models.Delivery, error)
	FinalizeJourney(ctx context.Context, journeyID string) (models.JourneySummary, error)
}

type simulation struct {
	Couriers      int
	Deliveries    int
	Tick          time.Duration
	FailRate      float64
	AttentionRate float64

	rnd *rand.Rand
}

var courierNames = []string{"Ana Souza", "Bruno Lima", "Carla Dias", "Diego Alves", "Elisa Rocha", "Fabio Nunes"}
var routes = []string{"Centro", "Zona Norte", "Zona Sul", "Zona Leste", "Zona Oeste"}
var customers = []string{"Mercado Bom Preco", "Farmacia Vida", "Padaria Trigo", "Loja Azul", "Pet Amigo", "Papelaria Central"}
var streets = []string{"Rua das Flores", "Av. Paulista", "Rua Augusta", "Av. Brasil", "Rua XV de Novembro"}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	summary, err := simCfg.run(ctx, newClient())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Journey closed: %d deliveries, %d completed, %d failed, %d%% success\n",
		summary.Total, summary.Completed, summary.Failed, summary.SuccessRate)
	return nil
}

func (s *simulation) run(ctx context.Context, api simulationAPI) (models.JourneySummary, error) {
	if s.Couriers <= 0 || s.Deliveries < 0 {
		return models.JourneySummary{}, fmt.Errorf("couriers must be positive and deliveries not negative: %w", models.ErrValidation)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	me, err := api.Me(ctx)
	if err != nil {
		return models.JourneySummary{}, err
	}
	courierIDs, err := s.ensureCouriers(ctx, api)
	if err != nil {
		return models.JourneySummary{}, err
	}

	journey, err := api.StartJourney(ctx, courierIDs)
	if client.IsStatus(err, http.StatusConflict) {
		log.WithField("owner_id", me.OwnerID).Info("Journey already active, joining it")
		journey, err = api.ActiveJourney(ctx, me.OwnerID)
	}
	if err != nil {
		return models.JourneySummary{}, err
	}
	courierIDs = journey.CourierIDs
	log.WithFields(log.Fields{
		"journey_id": journey.ID.Hex(),
		"couriers":   len(courierIDs),
	}).Info("Journey started")

	for i := 0; i < s.Deliveries; i++ {
		courierID := courierIDs[s.rnd.Intn(len(courierIDs))]
		d, err := api.CreateDelivery(ctx, client.DeliveryRequest{
			Client:    customers[s.rnd.Intn(len(customers))],
			Address:   fmt.Sprintf("%s, %d", streets[s.rnd.Intn(len(streets))], 10+s.rnd.Intn(990)),
			OrderNote: fmt.Sprintf("Pedido #%04d", i+1),
			CourierID: courierID,
		})
		if err != nil {
			return models.JourneySummary{}, err
		}
		if err := s.wait(ctx); err != nil {
			return models.JourneySummary{}, err
		}

		status := models.DeliveryCompleted
		attention := false
		if s.rnd.Float64() < s.FailRate {
			status = models.DeliveryFailed
		} else if s.rnd.Float64() < s.AttentionRate {
			attention = true
		}
		if _, err := api.ResolveDelivery(ctx, d.ID.Hex(), status, attention); err != nil {
			return models.JourneySummary{}, err
		}
		log.WithFields(log.Fields{
			"delivery_id": d.ID.Hex(),
			"courier_id":  courierID,
			"status":      status,
			"attention":   attention,
		}).Info("Resolved delivery")
	}

	return api.FinalizeJourney(ctx, journey.ID.Hex())
}

// ensureCouriers returns the ids of the first s.Couriers couriers, creating the missing ones.
func (s *simulation) ensureCouriers(ctx context.Context, api simulationAPI) ([]string, error) {
	existing, err := api.ListCouriers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, s.Couriers)
	for _, c := range existing {
		if len(ids) == s.Couriers {
			break
		}
		ids = append(ids, c.ID.Hex())
	}
	for i := len(ids); i < s.Couriers; i++ {
		c, err := api.CreateCourier(ctx, courierNames[i%len(courierNames)], routes[i%len(routes)])
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"courier_id": c.ID.Hex(), "name": c.Name}).Info("Created courier")
		ids = append(ids, c.ID.Hex())
	}
	return ids, nil
}

func (s *simulation) wait(ctx context.Context) error {
	if s.Tick <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Tick)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
