// Package client talks to a running SmartLOG API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Izaque674/SmartLOG-sub000/internal/dispatch"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// APIError is a non-2xx answer from the API. It unwraps to models.ErrRemote.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return models.ErrRemote }

// Client is a bearer-token JSON client for the API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:8081/api.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Profile is the caller identity returned by /me.
type Profile struct {
	OwnerID     string      `json:"ownerId"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	Permissions []string    `json:"permissions"`
}

// DeliveryRequest is the body of a new delivery.
type DeliveryRequest struct {
	Client    string `json:"cliente"`
	Address   string `json:"endereco"`
	OrderNote string `json:"pedido,omitempty"`
	CourierID string `json:"entregadorId,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Me returns the identity behind the token.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateCourier registers a courier by name.
func (c *Client) CreateCourier(ctx context.Context, name, route string) (*models.Courier, error) {
	var out models.Courier
	in := map[string]string{"nome": name, "rota": route}
	if err := c.do(ctx, http.MethodPost, "/entregadores", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCouriers returns the owner's couriers.
func (c *Client) ListCouriers(ctx context.Context) ([]models.Courier, error) {
	var out []models.Courier
	if err := c.do(ctx, http.MethodGet, "/entregadores", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartJourney opens a journey with the given couriers.
func (c *Client) StartJourney(ctx context.Context, courierIDs []string) (*models.Journey, error) {
	var out models.Journey
	in := map[string][]string{"entregadoresIds": courierIDs}
	if err := c.do(ctx, http.MethodPost, "/jornadas", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinalizeJourney closes a journey and returns its summary.
func (c *Client) FinalizeJourney(ctx context.Context, journeyID string) (models.JourneySummary, error) {
	var out models.JourneySummary
	err := c.do(ctx, http.MethodPost, "/jornadas/"+url.PathEscape(journeyID)+"/finalizar", nil, &out)
	return out, err
}

// CreateDelivery registers a delivery.
func (c *Client) CreateDelivery(ctx context.Context, in DeliveryRequest) (*models.Delivery, error) {
	var out models.Delivery
	if err := c.do(ctx, http.MethodPost, "/entregas", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveDelivery marks an in-transit delivery as completed or failed.
func (c *Client) ResolveDelivery(ctx context.Context, deliveryID string, status models.DeliveryStatus, requiresAttention bool) (*models.Delivery, error) {
	var out models.Delivery
	in := map[string]interface{}{"status": status, "requerAtencao": requiresAttention}
	if err := c.do(ctx, http.MethodPut, "/entregas/"+url.PathEscape(deliveryID)+"/status", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Operation returns the live view of the owner's active journey.
func (c *Client) Operation(ctx context.Context, ownerID string) (*dispatch.Operation, error) {
	var out dispatch.Operation
	if err := c.do(ctx, http.MethodGet, "/operacao/"+url.PathEscape(ownerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActiveJourney returns the owner's active journey. It fails with a 404 APIError when
// none is active.
func (c *Client) ActiveJourney(ctx context.Context, ownerID string) (*models.Journey, error) {
	var out models.Journey
	if err := c.do(ctx, http.MethodGet, "/jornadas/ativa/"+url.PathEscape(ownerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
