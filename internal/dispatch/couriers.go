package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// CourierInput is the editable part of a courier.
type CourierInput struct {
	Name     string
	Phone    string
	Vehicle  string
	Route    string
	PhotoURL string
}

// CreateCourier registers a courier.
func (s *Service) CreateCourier(ctx context.Context, ownerID string, in CourierInput) (*models.Courier, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("courier name is required: %w", models.ErrValidation)
	}
	now := s.now()
	c := &models.Courier{OwnerID: ownerID, CreatedAt: now}
	applyCourier(c, in, now)
	if err := s.couriers.InsertCourier(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCourier edits a courier.
func (s *Service) UpdateCourier(ctx context.Context, ownerID, courierID string, in CourierInput) (*models.Courier, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("courier name is required: %w", models.ErrValidation)
	}
	c, err := s.ownedCourier(ctx, ownerID, courierID)
	if err != nil {
		return nil, err
	}
	applyCourier(c, in, s.now())
	if err := s.couriers.UpdateCourier(ctx, courierID, *c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCourier removes a courier. Deliveries and journeys keep referencing its id.
func (s *Service) DeleteCourier(ctx context.Context, ownerID, courierID string) error {
	if _, err := s.ownedCourier(ctx, ownerID, courierID); err != nil {
		return err
	}
	return s.couriers.DeleteCourier(ctx, courierID)
}

// ListCouriers returns the owner's couriers.
func (s *Service) ListCouriers(ctx context.Context, ownerID string) ([]models.Courier, error) {
	return s.couriers.FindCouriers(ctx, ownerID)
}

func (s *Service) ownedCourier(ctx context.Context, ownerID, courierID string) (*models.Courier, error) {
	c, err := s.couriers.FindCourierByID(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, fmt.Errorf("courier %s: %w", courierID, models.ErrNotFound)
	}
	return c, nil
}

func applyCourier(c *models.Courier, in CourierInput, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Vehicle = strings.TrimSpace(in.Vehicle)
	c.Route = strings.TrimSpace(in.Route)
	c.PhotoURL = strings.TrimSpace(in.PhotoURL)
	c.UpdatedAt = now
}
