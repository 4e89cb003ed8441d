package maintenance

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

//go:embed default_plan.yaml
var defaultPlanYAML []byte

// PlanEntry is one item template of a maintenance plan.
type PlanEntry struct {
	Name          string `yaml:"name"`
	IntervalKm    int    `yaml:"interval_km"`
	LastServiceKm *int   `yaml:"last_service_km,omitempty"`
}

// Plan is the set of items a new vehicle starts with.
type Plan struct {
	Entries []PlanEntry `yaml:"items"`
}

// DefaultPlan returns the embedded plan.
func DefaultPlan() (*Plan, error) {
	return LoadPlan(bytes.NewReader(defaultPlanYAML))
}

// LoadPlan parses and validates a YAML plan.
func LoadPlan(r io.Reader) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode maintenance plan: %w", err)
	}
	for i, e := range p.Entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("plan item %d: name is required: %w", i, models.ErrValidation)
		}
		if e.IntervalKm <= 0 {
			return nil, fmt.Errorf("plan item %q: interval must be positive: %w", e.Name, models.ErrValidation)
		}
		if e.LastServiceKm != nil && *e.LastServiceKm < 0 {
			return nil, fmt.Errorf("plan item %q: last service km must not be negative: %w", e.Name, models.ErrValidation)
		}
	}
	return &p, nil
}

// Items instantiates the plan for a vehicle currently at currentKm.
func (p *Plan) Items(currentKm int) []models.MaintenanceItem {
	items := make([]models.MaintenanceItem, 0, len(p.Entries))
	for _, e := range p.Entries {
		last := currentKm
		if e.LastServiceKm != nil {
			last = *e.LastServiceKm
		}
		items = append(items, models.MaintenanceItem{
			ID:            uuid.NewString(),
			Name:          strings.TrimSpace(e.Name),
			IntervalKm:    e.IntervalKm,
			LastServiceKm: last,
		})
	}
	return items
}
