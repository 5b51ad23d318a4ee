// Package dashboard computes the executive overview of a tenant from its
// collections.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/monitorbizz/monitorbizz/internal/entity"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

// Units produced per machine and shift, by status.
const (
	unitsInUse     = 214
	unitsAvailable = 50
)

// oeeWeight is the availability score of a machine status.
var oeeWeight = map[string]float64{
	entity.MachineAvailable:   1,
	entity.MachineInUse:       0.9,
	entity.MachineMaintenance: 0.6,
	entity.MachineBroken:      0,
}

// Alert types.
const (
	AlertMaintenance = "maintenance"
	AlertMachineDown = "machineDown"
	AlertLowStock    = "lowStock"
)

// Alert is an item requiring attention.
type Alert struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Bucket is one bar or slice of a chart.
type Bucket struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Summary is the overview of one tenant.
type Summary struct {
	Machines          int            `json:"machines"`
	MachinesByStatus  map[string]int `json:"machinesByStatus"`
	ProductionByType  []Bucket       `json:"productionByType"`
	TypeDistribution  []Bucket       `json:"typeDistribution"`
	Production        int            `json:"production"`
	OEE               int            `json:"oee" jsonschema:"description=Overall equipment effectiveness in percent"`
	Alerts            []Alert        `json:"alerts"`
	OpenWorkOrders    int            `json:"openWorkOrders"`
	InventoryValue    float64        `json:"inventoryValue"`
	PipelineValue     float64        `json:"pipelineValue"`
	OutstandingAmount float64        `json:"outstandingAmount"`
}

// Compute builds a summary from the given records.
func Compute(machines []*entity.Machine, workOrders []*entity.WorkOrder, inventory []*entity.InventoryItem, deals []*entity.SalesDeal, invoices []*entity.Invoice) *Summary {
	s := &Summary{
		Machines:         len(machines),
		MachinesByStatus: map[string]int{},
		ProductionByType: []Bucket{},
		TypeDistribution: []Bucket{},
		Alerts:           []Alert{},
	}
	var oee float64
	var down []Alert
	for _, m := range machines {
		s.MachinesByStatus[m.Status]++
		oee += oeeWeight[m.Status]
		units := 0
		switch m.Status {
		case entity.MachineInUse:
			units = unitsInUse
			s.Production += unitsInUse
		case entity.MachineAvailable:
			units = unitsAvailable
		case entity.MachineMaintenance:
			s.Alerts = append(s.Alerts, Alert{
				ID:          m.ID,
				Type:        AlertMaintenance,
				Title:       "Maintenance Required",
				Description: m.Name + " requires scheduled maintenance.",
			})
		case entity.MachineBroken:
			down = append(down, Alert{
				ID:          m.ID,
				Type:        AlertMachineDown,
				Title:       "Machine Down",
				Description: m.Name + " reported as non-operational.",
			})
		}
		s.ProductionByType = addTo(s.ProductionByType, m.Type, units)
		s.TypeDistribution = addTo(s.TypeDistribution, m.Type, 1)
	}
	s.Alerts = append(s.Alerts, down...)
	if len(machines) > 0 {
		s.OEE = int(math.Round(oee / float64(len(machines)) * 100))
	}
	for _, w := range workOrders {
		if w.Status != entity.WorkOrderCompleted {
			s.OpenWorkOrders++
		}
	}
	for _, i := range inventory {
		s.InventoryValue += float64(i.Quantity) * i.CostPerUnit
		if i.LowStock() {
			s.Alerts = append(s.Alerts, Alert{
				ID:          i.ID,
				Type:        AlertLowStock,
				Title:       "Low Stock",
				Description: fmt.Sprintf("Material '%s' is below reorder point.", i.SKU),
			})
		}
	}
	for _, d := range deals {
		if d.Open() {
			s.PipelineValue += d.Value
		}
	}
	for _, i := range invoices {
		if i.Outstanding() {
			s.OutstandingAmount += i.TotalAmount
		}
	}
	s.InventoryValue = cents(s.InventoryValue)
	s.PipelineValue = cents(s.PipelineValue)
	s.OutstandingAmount = cents(s.OutstandingAmount)
	return s
}

// addTo adds v to the bucket labelled label, appending it in first-seen order.
func addTo(b []Bucket, label string, v int) []Bucket {
	for i := range b {
		if b[i].Label == label {
			b[i].Value += v
			return b
		}
	}
	return append(b, Bucket{Label: label, Value: v})
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Service caches summaries per tenant. A cached summary is dropped as soon
// as one of the collections it was computed from changes. A tenant's entry
// and its observers are evicted when one of those collections is
// invalidated, so only tenants queried since the last invalidation are kept.
type Service struct {
	store *tenantdb.Store

	mu      sync.Mutex
	tenants map[string]*tenantCache
}

type tenantCache struct {
	gen     uint64
	summary *Summary
	cancel  []func()
}

// New returns a service reading from store.
func New(store *tenantdb.Store) *Service {
	return &Service{store: store, tenants: map[string]*tenantCache{}}
}

// Summary returns the overview of tenantID.
func (s *Service) Summary(ctx context.Context, tenantID string) *Summary {
	s.mu.Lock()
	tc := s.tenants[tenantID]
	if tc == nil {
		// Observers never run under a collection lock, so subscribing while
		// holding s.mu cannot deadlock with drop.
		tc = &tenantCache{cancel: s.watch(tenantID)}
		s.tenants[tenantID] = tc
	}
	if tc.summary != nil {
		sum := tc.summary
		s.mu.Unlock()
		return sum
	}
	gen := tc.gen
	s.mu.Unlock()

	sum := Compute(
		tenantdb.Open(s.store, entity.Machines, tenantID).Load(ctx),
		tenantdb.Open(s.store, entity.WorkOrders, tenantID).Load(ctx),
		tenantdb.Open(s.store, entity.Inventory, tenantID).Load(ctx),
		tenantdb.Open(s.store, entity.SalesDeals, tenantID).Load(ctx),
		tenantdb.Open(s.store, entity.Invoices, tenantID).Load(ctx),
	)

	s.mu.Lock()
	if tc.gen == gen {
		tc.summary = sum
	}
	s.mu.Unlock()
	return sum
}

// watch subscribes to every collection a summary depends on.
func (s *Service) watch(tenantID string) []func() {
	return []func(){
		observe(s, entity.Machines, tenantID),
		observe(s, entity.WorkOrders, tenantID),
		observe(s, entity.Inventory, tenantID),
		observe(s, entity.SalesDeals, tenantID),
		observe(s, entity.Invoices, tenantID),
	}
}

func observe[T tenantdb.Row[T]](s *Service, kind tenantdb.Kind[T], tenantID string) func() {
	return tenantdb.Open(s.store, kind, tenantID).Observe(func(c tenantdb.Change[T]) {
		switch c.Op {
		case tenantdb.OpLoad:
		case tenantdb.OpInvalidate:
			s.evict(tenantID)
		default:
			s.drop(tenantID)
		}
	})
}

// evict forgets tenantID and unsubscribes its observers.
func (s *Service) evict(tenantID string) {
	s.mu.Lock()
	tc := s.tenants[tenantID]
	if tc != nil {
		tc.gen++
		tc.summary = nil
		delete(s.tenants, tenantID)
	}
	s.mu.Unlock()
	if tc != nil {
		for _, cancel := range tc.cancel {
			cancel()
		}
	}
}

func (s *Service) drop(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tc := s.tenants[tenantID]; tc != nil {
		tc.gen++
		tc.summary = nil
	}
}
