package entity

// Allowed values of the enumerated fields. Unless noted otherwise, an empty
// value defaults to the first one.
var (
	MachineStatuses        = []string{"Available", "In Use", "Maintenance", "Broken"}
	MachineTypes           = []string{"CNC", "Lathe", "Welding", "Press", "Medical Scanner", "Diagnostic", "Other"}
	WorkOrderStatuses      = []string{"Pending", "In Progress", "Completed", "On Hold"}
	PurchaseOrderStatuses  = []string{"Pending", "Ordered", "Shipped", "Received", "Cancelled"}
	CustomerStatuses       = []string{"Lead", "Active", "Inactive"}
	ShipmentStatuses       = []string{"Pending", "In Transit", "Delivered", "Delayed"}
	ShipmentTypes          = []string{"Inbound", "Outbound"}
	SalesDealStages        = []string{"Prospect", "Qualification", "Proposal", "Negotiation", "Closed Won", "Closed Lost"}
	ProductionPlanStatuses = []string{"Planned", "In Progress", "Completed", "Cancelled"}
	QualityCheckResults    = []string{"Pass", "Fail", "Rework"}
	InvoiceStatuses        = []string{"Draft", "Sent", "Paid", "Overdue", "Cancelled"}
	// UserRoles has no default.
	UserRoles              = []string{"Admin", "Manager", "Editor", "Viewer"}
	UserStatuses           = []string{"Active", "Inactive"}
)

// Machine statuses used by the dashboard.
const (
	MachineAvailable   = "Available"
	MachineInUse       = "In Use"
	MachineMaintenance = "Maintenance"
	MachineBroken      = "Broken"
)

// Terminal states.
const (
	WorkOrderCompleted = "Completed"
	DealClosedWon      = "Closed Won"
	DealClosedLost     = "Closed Lost"
	InvoicePaid        = "Paid"
	InvoiceCancelled   = "Cancelled"
	InvoiceDraft       = "Draft"
)

// NeverLoggedIn is the last login of users created through the API.
const NeverLoggedIn = "Never"
