// Defines API response types.

package dto

// HealthResponse is a response from the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"goVersion,omitempty"`
	Revision  string `json:"revision,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	Storage   string `json:"storage"`
}

// CompanyResponse is a company as seen by API clients.
type CompanyResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	IndustryType       string   `json:"industryType,omitempty"`
	SubscribedServices []string `json:"subscribedServices"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token   string          `json:"token"`
	Company CompanyResponse `json:"company"`
}

// OkResponse acknowledges an operation without payload.
type OkResponse struct {
	Ok bool `json:"ok"`
}

// ServiceResponse is one entry of the service catalog.
type ServiceResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

// ListServicesResponse is the service catalog.
type ListServicesResponse struct {
	Services []ServiceResponse `json:"services"`
}

// CollectionResponse describes a collection.
type CollectionResponse struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Services []string `json:"services,omitempty"`
}

// ListCollectionsResponse lists the collections and the settings document.
type ListCollectionsResponse struct {
	Collections []CollectionResponse `json:"collections"`
}

// ColumnResponse describes one field of a collection for table rendering.
type ColumnResponse struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Description string   `json:"description,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// SchemaResponse is the JSON Schema of a collection.
type SchemaResponse struct {
	Collection string           `json:"collection"`
	Schema     any              `json:"schema"`
	Columns    []ColumnResponse `json:"columns"`
}

// StorageState reports the persistence health of a collection or document.
type StorageState struct {
	// Loading is true while the cache is not filled yet.
	Loading bool `json:"loading,omitempty"`
	// Degraded is true when the last write failed; the data shown is kept in
	// memory only.
	Degraded     bool   `json:"degraded,omitempty"`
	StorageError string `json:"storageError,omitempty"`
}

// ListRecordsResponse is the content of a collection.
type ListRecordsResponse struct {
	Collection string `json:"collection"`
	Records    any    `json:"records"`
	StorageState
}

// RecordResponse is a created or updated record.
type RecordResponse struct {
	Record any `json:"record"`
	StorageState
}

// DeleteRecordResponse acknowledges a deletion.
type DeleteRecordResponse struct {
	Deleted bool `json:"deleted"`
	StorageState
}

// SettingsResponse is a tenant's settings document.
type SettingsResponse struct {
	Settings any `json:"settings"`
	StorageState
}

// AlertResponse is an item requiring attention.
type AlertResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// BucketResponse is one bar or slice of a chart.
type BucketResponse struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// DashboardResponse is the executive overview of a tenant.
type DashboardResponse struct {
	Machines          int              `json:"machines"`
	MachinesByStatus  map[string]int   `json:"machinesByStatus"`
	ProductionByType  []BucketResponse `json:"productionByType"`
	TypeDistribution  []BucketResponse `json:"typeDistribution"`
	Production        int              `json:"production"`
	OEE               int              `json:"oee"`
	Alerts            []AlertResponse  `json:"alerts"`
	OpenWorkOrders    int              `json:"openWorkOrders"`
	InventoryValue    float64          `json:"inventoryValue"`
	PipelineValue     float64          `json:"pipelineValue"`
	OutstandingAmount float64          `json:"outstandingAmount"`
}
