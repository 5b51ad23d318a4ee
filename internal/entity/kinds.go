package entity

import (
	"reflect"

	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

// Collection names, as used in storage keys and API paths.
const (
	CollectionMachines        = "machines"
	CollectionWorkOrders      = "work_orders"
	CollectionInventory       = "inventory"
	CollectionVendors         = "vendors"
	CollectionPurchaseOrders  = "purchase_orders"
	CollectionCustomers       = "customers"
	CollectionShipments       = "shipments"
	CollectionSalesDeals      = "sales_deals"
	CollectionProductionPlans = "prod_plans"
	CollectionQualityChecks   = "quality_checks"
	CollectionInvoices        = "invoices"
	CollectionUsers           = "users"
	// DocumentSettings is the per-tenant settings document.
	DocumentSettings = "settings"
)

// Entity kinds.
var (
	Machines        = tenantdb.Kind[*Machine]{Collection: CollectionMachines, IDPrefix: "mach-", Seed: seed[*Machine](CollectionMachines)}
	WorkOrders      = tenantdb.Kind[*WorkOrder]{Collection: CollectionWorkOrders, IDPrefix: "wo-", Seed: seed[*WorkOrder](CollectionWorkOrders)}
	Inventory       = tenantdb.Kind[*InventoryItem]{Collection: CollectionInventory, IDPrefix: "inv-", Seed: seed[*InventoryItem](CollectionInventory)}
	Vendors         = tenantdb.Kind[*Vendor]{Collection: CollectionVendors, IDPrefix: "ven-", Seed: seed[*Vendor](CollectionVendors)}
	PurchaseOrders  = tenantdb.Kind[*PurchaseOrder]{Collection: CollectionPurchaseOrders, IDPrefix: "po-", Seed: seed[*PurchaseOrder](CollectionPurchaseOrders)}
	Customers       = tenantdb.Kind[*Customer]{Collection: CollectionCustomers, IDPrefix: "cust-", Seed: seed[*Customer](CollectionCustomers)}
	Shipments       = tenantdb.Kind[*Shipment]{Collection: CollectionShipments, IDPrefix: "ship-", Seed: seed[*Shipment](CollectionShipments)}
	SalesDeals      = tenantdb.Kind[*SalesDeal]{Collection: CollectionSalesDeals, IDPrefix: "deal-", Seed: seed[*SalesDeal](CollectionSalesDeals)}
	ProductionPlans = tenantdb.Kind[*ProductionPlan]{Collection: CollectionProductionPlans, IDPrefix: "plan-", Seed: seed[*ProductionPlan](CollectionProductionPlans)}
	QualityChecks   = tenantdb.Kind[*QualityCheck]{Collection: CollectionQualityChecks, IDPrefix: "qc-", Seed: seed[*QualityCheck](CollectionQualityChecks)}
	Invoices        = tenantdb.Kind[*Invoice]{Collection: CollectionInvoices, IDPrefix: "inv-", Seed: seed[*Invoice](CollectionInvoices)}
	Users           = tenantdb.Kind[*User]{Collection: CollectionUsers, IDPrefix: "usr-", Seed: seed[*User](CollectionUsers)}

	Settings = tenantdb.DocKind[*AppSettings]{Name: DocumentSettings, LegacyPrefix: "app_settings_", Default: DefaultSettings}
)

// Info describes a collection to API clients.
type Info struct {
	Name  string       `json:"name"`
	Label string       `json:"label"`
	Type  reflect.Type `json:"-"`
}

// Collections lists every entity collection in display order.
var Collections = []Info{
	{CollectionMachines, "Machines", reflect.TypeFor[Machine]()},
	{CollectionWorkOrders, "Work Orders", reflect.TypeFor[WorkOrder]()},
	{CollectionProductionPlans, "Production Planning", reflect.TypeFor[ProductionPlan]()},
	{CollectionQualityChecks, "Quality Control", reflect.TypeFor[QualityCheck]()},
	{CollectionInventory, "Inventory", reflect.TypeFor[InventoryItem]()},
	{CollectionPurchaseOrders, "Purchase Orders", reflect.TypeFor[PurchaseOrder]()},
	{CollectionVendors, "Vendors", reflect.TypeFor[Vendor]()},
	{CollectionShipments, "Shipments", reflect.TypeFor[Shipment]()},
	{CollectionCustomers, "Customers", reflect.TypeFor[Customer]()},
	{CollectionSalesDeals, "Sales Pipeline", reflect.TypeFor[SalesDeal]()},
	{CollectionInvoices, "Invoicing", reflect.TypeFor[Invoice]()},
	{CollectionUsers, "User Roles", reflect.TypeFor[User]()},
}

// SettingsInfo describes the settings document.
var SettingsInfo = Info{DocumentSettings, "Settings", reflect.TypeFor[AppSettings]()}

// Lookup returns the collection or document named name.
func Lookup(name string) (Info, bool) {
	if name == DocumentSettings {
		return SettingsInfo, true
	}
	for _, info := range Collections {
		if info.Name == name {
			return info, true
		}
	}
	return Info{}, false
}
