// Package reports derives read-only summaries from delivery, courier and journey data.
// Nothing here performs I/O.
package reports

import (
	"math"
	"sort"
	"time"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// UnknownCourier labels a delivery whose courier no longer exists.
const UnknownCourier = "N/A"

// Progress counts deliveries by outcome.
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"concluidas"`
	Failed    int `json:"falhas"`
	Percent   int `json:"progresso"`
}

// Bucket selects the timestamp a histogram groups by.
type Bucket int

const (
	ByCreatedAt Bucket = iota
	ByUpdatedAt
)

// HourCount is one bar of an hourly histogram. Hour is a zero-padded "00".."23" key.
type HourCount struct {
	Hour  string `json:"hora"`
	Count int    `json:"quantidade"`
}

// CourierPerformance is one row of the team performance table.
type CourierPerformance struct {
	CourierID string `json:"entregadorId"`
	Name      string `json:"nome"`
	Completed int    `json:"concluidas"`
	Failed    int    `json:"falhas"`
}

// GroupByCourier maps every courier id to its deliveries in input order. Couriers without
// deliveries map to an empty list; deliveries referencing an unknown courier are left out.
func GroupByCourier(deliveries []models.Delivery, couriers []models.Courier) map[string][]models.Delivery {
	groups := make(map[string][]models.Delivery, len(couriers))
	for _, c := range couriers {
		groups[c.ID.Hex()] = []models.Delivery{}
	}
	for _, d := range deliveries {
		if list, ok := groups[d.CourierID]; ok {
			groups[d.CourierID] = append(list, d)
		}
	}
	return groups
}

// ComputeProgress counts outcomes. Percent is completed/total truncated, 0 for no deliveries.
func ComputeProgress(deliveries []models.Delivery) Progress {
	p := Progress{Total: len(deliveries)}
	for _, d := range deliveries {
		switch d.Status {
		case models.DeliveryCompleted:
			p.Completed++
		case models.DeliveryFailed:
			p.Failed++
		}
	}
	if p.Total > 0 {
		p.Percent = p.Completed * 100 / p.Total
	}
	return p
}

// Summarize computes the closing summary of a journey. The success rate is rounded to the
// nearest percent.
func Summarize(deliveries []models.Delivery) models.JourneySummary {
	p := ComputeProgress(deliveries)
	s := models.JourneySummary{Total: p.Total, Completed: p.Completed, Failed: p.Failed}
	if p.Total > 0 {
		s.SuccessRate = int(math.Round(float64(p.Completed) * 100 / float64(p.Total)))
	}
	return s
}

// HourlyHistogram counts deliveries per local hour of the chosen timestamp. Only hours
// with at least one delivery appear, in ascending order. A nil loc means UTC.
func HourlyHistogram(deliveries []models.Delivery, by Bucket, loc *time.Location) []HourCount {
	if loc == nil {
		loc = time.UTC
	}
	counts := make(map[string]int)
	for _, d := range deliveries {
		ts := d.CreatedAt
		if by == ByUpdatedAt {
			ts = d.UpdatedAt
		}
		if ts.IsZero() {
			continue
		}
		counts[ts.In(loc).Format("15")]++
	}

	hours := make([]string, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Strings(hours)

	out := make([]HourCount, 0, len(hours))
	for _, h := range hours {
		out = append(out, HourCount{Hour: h, Count: counts[h]})
	}
	return out
}

// TeamPerformance tallies completed and failed deliveries per courier, most completed
// first. Couriers with equal counts keep their input order.
func TeamPerformance(couriers []models.Courier, deliveries []models.Delivery) []CourierPerformance {
	index := make(map[string]int, len(couriers))
	rows := make([]CourierPerformance, len(couriers))
	for i, c := range couriers {
		id := c.ID.Hex()
		index[id] = i
		rows[i] = CourierPerformance{CourierID: id, Name: c.Name}
	}
	for _, d := range deliveries {
		i, ok := index[d.CourierID]
		if !ok {
			continue
		}
		switch d.Status {
		case models.DeliveryCompleted:
			rows[i].Completed++
		case models.DeliveryFailed:
			rows[i].Failed++
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Completed > rows[b].Completed
	})
	return rows
}

// CourierName returns the name of the courier with the given id, or UnknownCourier.
func CourierName(couriers []models.Courier, id string) string {
	for _, c := range couriers {
		if c.ID.Hex() == id {
			return c.Name
		}
	}
	return UnknownCourier
}

// DeliveryRow is a delivery listed with its courier's name.
type DeliveryRow struct {
	models.Delivery
	CourierName string `json:"nomeEntregador"`
}

// LabelDeliveries pairs each delivery with its courier's name. Unassigned deliveries keep
// an empty name and dangling courier ids get UnknownCourier.
func LabelDeliveries(deliveries []models.Delivery, couriers []models.Courier) []DeliveryRow {
	rows := make([]DeliveryRow, 0, len(deliveries))
	for _, d := range deliveries {
		row := DeliveryRow{Delivery: d}
		if d.CourierID != "" {
			row.CourierName = CourierName(couriers, d.CourierID)
		}
		rows = append(rows, row)
	}
	return rows
}
