package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Izaque674/SmartLOG-sub000/internal/db"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// DeliveryInput is the payload for creating a delivery. A non-empty CourierID dispatches
// it immediately.
type DeliveryInput struct {
	Client    string
	Address   string
	OrderNote string
	CourierID string
}

// CreateDelivery registers a delivery, linking it to the owner's active journey when one
// exists.
func (s *Service) CreateDelivery(ctx context.Context, ownerID string, in DeliveryInput) (*models.Delivery, error) {
	client := strings.TrimSpace(in.Client)
	address := strings.TrimSpace(in.Address)
	if client == "" || address == "" {
		return nil, fmt.Errorf("client and address are required: %w", models.ErrValidation)
	}

	now := s.now()
	d := &models.Delivery{
		OwnerID:   ownerID,
		Client:    client,
		Address:   address,
		OrderNote: strings.TrimSpace(in.OrderNote),
		Status:    models.DeliveryPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if courierID := strings.TrimSpace(in.CourierID); courierID != "" {
		if _, err := s.ownedCourier(ctx, ownerID, courierID); err != nil {
			return nil, err
		}
		d.CourierID = courierID
		d.Status = models.DeliveryInTransit
	}

	active, err := s.journeys.FindActiveJourney(ctx, ownerID)
	switch {
	case err == nil:
		d.JourneyID = active.ID.Hex()
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	if err := s.deliveries.InsertDelivery(ctx, d); err != nil {
		return nil, err
	}

	if d.JourneyID != "" {
		s.recordEvent(ctx, models.JourneyEvent{
			JourneyID:   d.JourneyID,
			Type:        models.EventStatusChange,
			Status:      d.Status,
			Description: fmt.Sprintf("Entrega para %s criada", d.Client),
			Timestamp:   now,
		})
	}
	s.publishDelivery(ctx, models.EventDeliveryCreated, d)
	return d, nil
}

// AssignDelivery dispatches a pending delivery to a courier.
func (s *Service) AssignDelivery(ctx context.Context, ownerID, deliveryID, courierID string) (*models.Delivery, error) {
	courierID = strings.TrimSpace(courierID)
	if courierID == "" {
		return nil, fmt.Errorf("courier is required: %w", models.ErrValidation)
	}
	d, err := s.ownedDelivery(ctx, ownerID, deliveryID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DeliveryPending {
		return nil, fmt.Errorf("delivery %s is %s, not %s: %w", deliveryID, d.Status, models.DeliveryPending, models.ErrInvalidState)
	}
	courier, err := s.ownedCourier(ctx, ownerID, courierID)
	if err != nil {
		return nil, err
	}

	change := db.DeliveryChange{
		Status:    models.DeliveryInTransit,
		CourierID: courierID,
		UpdatedAt: s.now(),
	}
	if err := s.deliveries.TransitionDelivery(ctx, deliveryID, models.DeliveryPending, change); err != nil {
		return nil, err
	}
	d.Status = change.Status
	d.CourierID = courierID
	d.UpdatedAt = change.UpdatedAt

	s.deliveryEvent(ctx, d, fmt.Sprintf("Entrega para %s saiu com %s", d.Client, courier.Name))
	s.publishDelivery(ctx, models.EventDeliveryUpdated, d)
	return d, nil
}

// UpdateDeliveryStatus resolves an in-transit delivery as completed or failed. The
// attention flag is only kept for completed deliveries.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, ownerID, deliveryID string, status models.DeliveryStatus, requiresAttention bool) (*models.Delivery, error) {
	if status != models.DeliveryCompleted && status != models.DeliveryFailed {
		return nil, fmt.Errorf("status %q is not a resolution: %w", status, models.ErrValidation)
	}
	d, err := s.ownedDelivery(ctx, ownerID, deliveryID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DeliveryInTransit {
		return nil, fmt.Errorf("delivery %s is %s, not %s: %w", deliveryID, d.Status, models.DeliveryInTransit, models.ErrInvalidState)
	}

	change := db.DeliveryChange{
		Status:            status,
		RequiresAttention: requiresAttention && status == models.DeliveryCompleted,
		UpdatedAt:         s.now(),
	}
	if err := s.deliveries.TransitionDelivery(ctx, deliveryID, models.DeliveryInTransit, change); err != nil {
		return nil, err
	}
	d.Status = change.Status
	d.RequiresAttention = change.RequiresAttention
	d.UpdatedAt = change.UpdatedAt

	s.deliveryEvent(ctx, d, fmt.Sprintf("Entrega para %s: %s", d.Client, statusText(status)))
	s.publishDelivery(ctx, models.EventDeliveryUpdated, d)
	return d, nil
}

func (s *Service) ownedDelivery(ctx context.Context, ownerID, deliveryID string) (*models.Delivery, error) {
	d, err := s.deliveries.FindDeliveryByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != ownerID {
		return nil, fmt.Errorf("delivery %s: %w", deliveryID, models.ErrNotFound)
	}
	return d, nil
}

// deliveryEvent appends a status change to the delivery's journey. Deliveries created
// outside a journey get no timeline entry, since the journey summary leaves them out too.
func (s *Service) deliveryEvent(ctx context.Context, d *models.Delivery, description string) {
	if d.JourneyID == "" {
		return
	}
	s.recordEvent(ctx, models.JourneyEvent{
		JourneyID:   d.JourneyID,
		Type:        models.EventStatusChange,
		Status:      d.Status,
		Description: description,
		Timestamp:   d.UpdatedAt,
	})
}

func (s *Service) publishDelivery(ctx context.Context, eventType string, d *models.Delivery) {
	s.publisher.Publish(ctx, models.Event{
		Type:       eventType,
		OwnerID:    d.OwnerID,
		JourneyID:  d.JourneyID,
		DeliveryID: d.ID.Hex(),
		Status:     string(d.Status),
		At:         d.UpdatedAt,
	})
}

func statusText(status models.DeliveryStatus) string {
	switch status {
	case models.DeliveryPending:
		return "pendente"
	case models.DeliveryInTransit:
		return "em rota"
	case models.DeliveryCompleted:
		return "concluída"
	case models.DeliveryFailed:
		return "falhou"
	}
	return string(status)
}
