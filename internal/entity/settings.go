package entity

// AppSettings holds the per-tenant preferences.
type AppSettings struct {
	CompanyName          string `json:"companyName"`
	Currency             string `json:"currency" jsonschema:"description=ISO 4217 currency code"`
	Timezone             string `json:"timezone"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	AutoSaveInterval     int    `json:"autoSaveInterval" jsonschema:"description=Minutes between automatic saves,minimum=1"`
}

// DefaultSettings returns the settings of a tenant that never saved any.
func DefaultSettings() *AppSettings {
	return &AppSettings{
		CompanyName:          "ACME Manufacturing",
		Currency:             "USD",
		Timezone:             "UTC-5 (EST)",
		NotificationsEnabled: true,
		AutoSaveInterval:     5,
	}
}

// Clone returns a copy of the AppSettings.
func (s *AppSettings) Clone() *AppSettings {
	c := *s
	return &c
}

// Validate checks that the AppSettings are valid.
func (s *AppSettings) Validate() error {
	if err := minLen("companyName", &s.CompanyName, 1); err != nil {
		return err
	}
	if err := minLen("currency", &s.Currency, 1); err != nil {
		return err
	}
	if s.AutoSaveInterval < 1 {
		return fieldErr("autoSaveInterval", "must be at least 1 minute")
	}
	return nil
}
