// Defines API request types and their validation.

package dto

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// HealthRequest is a request to check system health.
type HealthRequest struct{}

// Validate validates the health request (always valid).
func (r *HealthRequest) Validate() error {
	return nil
}

// SignupRequest registers a new company.
type SignupRequest struct {
	CompanyName  string   `json:"companyName"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	IndustryType string   `json:"industryType,omitempty"`
	Services     []string `json:"services"`
}

// Validate validates the signup request fields.
func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return InvalidField("companyName", "is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return InvalidField("email", "is required")
	}
	if r.Password == "" {
		return InvalidField("password", "is required")
	}
	if len(r.Services) == 0 {
		return InvalidField("services", "select at least one service")
	}
	return nil
}

// LoginRequest authenticates a company.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request fields.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return InvalidField("email", "is required")
	}
	if r.Password == "" {
		return InvalidField("password", "is required")
	}
	return nil
}

// LogoutRequest ends the active session.
type LogoutRequest struct{}

// Validate validates the logout request (always valid).
func (r *LogoutRequest) Validate() error {
	return nil
}

// MeRequest returns the authenticated company.
type MeRequest struct{}

// Validate validates the me request (always valid).
func (r *MeRequest) Validate() error {
	return nil
}

// ListServicesRequest lists the service catalog.
type ListServicesRequest struct{}

// Validate validates the request (always valid).
func (r *ListServicesRequest) Validate() error {
	return nil
}

// ListCollectionsRequest lists the entity collections.
type ListCollectionsRequest struct{}

// Validate validates the request (always valid).
func (r *ListCollectionsRequest) Validate() error {
	return nil
}

// SchemaRequest returns the JSON Schema of a collection.
type SchemaRequest struct {
	Collection string `path:"collection" json:"-"`
}

// Validate validates the schema request fields.
func (r *SchemaRequest) Validate() error {
	if r.Collection == "" {
		return InvalidField("collection", "is required")
	}
	return nil
}

// ListRecordsRequest lists the records of a tenant's collection.
type ListRecordsRequest struct {
	TenantID   string `path:"tenantID" json:"-"`
	Collection string `path:"collection" json:"-"`
}

// Validate validates the list request fields.
func (r *ListRecordsRequest) Validate() error {
	if r.Collection == "" {
		return InvalidField("collection", "is required")
	}
	return nil
}

// Body is a raw JSON object whose shape depends on the collection. It is
// decoded strictly by the handler once the collection is known.
type Body []byte

// UnmarshalJSON keeps a copy of the raw object.
func (b *Body) UnmarshalJSON(data []byte) error {
	*b = slices.Clone(data)
	return nil
}

// IsObject reports whether the body is a JSON object.
func (b Body) IsObject() bool {
	return bytes.HasPrefix(bytes.TrimSpace(b), []byte("{"))
}

// RecordRequest creates or replaces a record. The whole request body is the
// record.
type RecordRequest struct {
	TenantID   string `path:"tenantID"`
	Collection string `path:"collection"`
	ID         string `path:"id"`
	Record     Body
}

// UnmarshalJSON stores the whole body as the record.
func (r *RecordRequest) UnmarshalJSON(data []byte) error {
	return r.Record.UnmarshalJSON(data)
}

// Validate validates the record request fields.
func (r *RecordRequest) Validate() error {
	if r.Collection == "" {
		return InvalidField("collection", "is required")
	}
	if !r.Record.IsObject() {
		return BadRequest("request body must be a JSON object")
	}
	return nil
}

// DecodeStrict decodes b into v, rejecting unknown fields.
func DecodeStrict(b Body, v any) error {
	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	return d.Decode(v)
}

// DeleteRecordRequest removes a record.
type DeleteRecordRequest struct {
	TenantID   string `path:"tenantID" json:"-"`
	Collection string `path:"collection" json:"-"`
	ID         string `path:"id" json:"-"`
}

// Validate validates the delete request fields.
func (r *DeleteRecordRequest) Validate() error {
	if r.Collection == "" {
		return InvalidField("collection", "is required")
	}
	if r.ID == "" {
		return InvalidField("id", "is required")
	}
	return nil
}

// GetSettingsRequest returns a tenant's settings.
type GetSettingsRequest struct {
	TenantID string `path:"tenantID" json:"-"`
}

// Validate validates the request (always valid).
func (r *GetSettingsRequest) Validate() error {
	return nil
}

// UpdateSettingsRequest replaces a tenant's settings. The whole request body
// is the settings document.
type UpdateSettingsRequest struct {
	TenantID string `path:"tenantID"`
	Settings Body
}

// UnmarshalJSON stores the whole body as the settings.
func (r *UpdateSettingsRequest) UnmarshalJSON(data []byte) error {
	return r.Settings.UnmarshalJSON(data)
}

// Validate validates the settings request.
func (r *UpdateSettingsRequest) Validate() error {
	if !r.Settings.IsObject() {
		return BadRequest("request body must be a JSON object")
	}
	return nil
}

// DashboardRequest returns a tenant's executive overview.
type DashboardRequest struct {
	TenantID string `path:"tenantID" json:"-"`
}

// Validate validates the request (always valid).
func (r *DashboardRequest) Validate() error {
	return nil
}
