// Package catalog lists the business modules a tenant can subscribe to and
// which entity collections each module unlocks.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/monitorbizz/monitorbizz/internal/entity"
)

// ErrUnknownService is returned for service ids missing from the catalog.
var ErrUnknownService = errors.New("unknown service")

// Service is one subscribable module.
type Service struct {
	ID          string `json:"id" jsonschema:"description=Stable service identifier"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Group       string `json:"group" jsonschema:"description=Sidebar section"`
	Description string `json:"description"`
}

// Service groups.
const (
	GroupAnalytics  = "Analytics"
	GroupGrowth     = "Growth"
	GroupOperations = "Operations"
	GroupFinancials = "Financials"
	GroupSystem     = "System"
)

// ResourceDashboard is the executive overview, gated like a collection.
const ResourceDashboard = "dashboard"

var services = []Service{
	{"dashboard", "Executive Overview", "fa-chart-pie", GroupAnalytics, "Consolidated view of production, sales, and financial performance."},

	{"ecommerce", "E-commerce", "fa-shopping-cart", GroupGrowth, "Manage your product catalog and online storefront."},
	{"customers", "CRM Funnel", "fa-users-cog", GroupGrowth, "Visual pipeline with next actions, opportunities, and messages."},
	{"sales", "Professional Sales", "fa-file-invoice", GroupGrowth, "Create polished quotes and professional templates in minutes."},
	{"sales-pipeline", "Sales Pipeline", "fa-funnel-dollar", GroupGrowth, "Track deals from prospect to close."},
	{"marketing", "Marketing Automation", "fa-bullhorn", GroupGrowth, "Mass mailing campaigns, lead tracking, and conversion ROI."},
	{"events", "Events & Webinars", "fa-calendar-star", GroupGrowth, "Organize conferences, training, and webinar registrations."},
	{"support-tickets", "Support Desk", "fa-headset", GroupGrowth, "Helpdesk ticketing and customer service management."},

	{"manufacturing", "Manufacturing", "fa-industry", GroupOperations, "Manage assembly ops, schedule MOs and Work Orders automatically."},
	{"machines", "Assets & IoT", "fa-microchip", GroupOperations, "Live telemetry and high-value equipment monitoring."},
	{"work-orders", "Work Orders", "fa-clipboard-list", GroupOperations, "Assign production work to machines and track due dates."},
	{"production-planning", "Production Planning", "fa-calendar-alt", GroupOperations, "Schedule output per work order."},
	{"quality-control", "Quality Control", "fa-check-double", GroupOperations, "Record inspections and rework."},
	{"inventory", "Smart Inventory", "fa-boxes", GroupOperations, "Traceability, double-entry simulation, and stock automation."},
	{"purchase", "Procurement", "fa-cart-arrow-down", GroupOperations, "RFQs, automated propositions, and vendor management."},
	{"purchase-orders", "Purchase Orders", "fa-file-signature", GroupOperations, "Order materials from vendors."},
	{"vendors", "Vendor Management", "fa-truck-loading", GroupOperations, "Supplier contacts and addresses."},
	{"shipments", "Shipments", "fa-shipping-fast", GroupOperations, "Inbound and outbound deliveries."},
	{"projects", "Project Mgmt", "fa-tasks", GroupOperations, "Real-time collaborative project tracking from contract to billing."},
	{"maintenance", "Maintenance (EAM)", "fa-tools", GroupOperations, "Preventative care, repairs, and uptime reliability."},

	{"accounting", "General Ledger", "fa-book", GroupFinancials, "Double-entry accounting, statements, and audit trails."},
	{"invoicing", "Invoicing & Pay", "fa-file-invoice-dollar", GroupFinancials, "Online payments, automated follow-ups, and billing templates."},
	{"personnel", "Human Resources", "fa-user-tie", GroupFinancials, "Recruitment, payroll, attendance, and performance appraisals."},

	{"user-roles", "Access Control", "fa-user-lock", GroupSystem, "Permission profiles and workspace security."},
	{"settings", "Configuration", "fa-sliders-h", GroupSystem, "Platform rules and vertical localization."},
}

// unlocks maps a collection (or ResourceDashboard) to the services granting
// access to it.
var unlocks = map[string][]string{
	ResourceDashboard:                {"dashboard"},
	entity.CollectionMachines:        {"machines", "maintenance", "manufacturing"},
	entity.CollectionWorkOrders:      {"work-orders", "manufacturing"},
	entity.CollectionProductionPlans: {"production-planning", "manufacturing"},
	entity.CollectionQualityChecks:   {"quality-control", "manufacturing"},
	entity.CollectionInventory:       {"inventory"},
	entity.CollectionPurchaseOrders:  {"purchase-orders", "purchase"},
	entity.CollectionVendors:         {"vendors", "purchase"},
	entity.CollectionShipments:       {"shipments", "purchase", "inventory"},
	entity.CollectionCustomers:       {"customers", "sales"},
	entity.CollectionSalesDeals:      {"sales-pipeline", "sales", "customers"},
	entity.CollectionInvoices:        {"invoicing", "accounting"},
	entity.CollectionUsers:           {"user-roles"},
}

// Services returns the catalog in display order.
func Services() []Service {
	return slices.Clone(services)
}

// Lookup returns the service with the given id.
func Lookup(id string) (Service, bool) {
	i := slices.IndexFunc(services, func(s Service) bool { return s.ID == id })
	if i < 0 {
		return Service{}, false
	}
	return services[i], true
}

// Normalize trims, deduplicates and checks service ids, keeping their order.
func Normalize(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		if _, ok := Lookup(id); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, id)
		}
		out = append(out, id)
	}
	return out, nil
}

// Unlocks returns the services granting access to resource.
func Unlocks(resource string) []string {
	return slices.Clone(unlocks[resource])
}

// Allowed reports whether a tenant subscribed to the given services may
// access resource. The settings document is always allowed.
func Allowed(subscribed []string, resource string) bool {
	if resource == entity.DocumentSettings {
		return true
	}
	for _, id := range unlocks[resource] {
		if slices.Contains(subscribed, id) {
			return true
		}
	}
	return false
}
