package handlers

import (
	"context"

	"github.com/monitorbizz/monitorbizz/internal/entity"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

// SettingsHandler handles the per-tenant settings document.
type SettingsHandler struct {
	store *tenantdb.Store
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(store *tenantdb.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns the tenant's settings, the defaults if it never saved any.
func (h *SettingsHandler) Get(ctx context.Context, c *identity.Company, _ *dto.GetSettingsRequest) (*dto.SettingsResponse, error) {
	d := tenantdb.OpenDocument(h.store, entity.Settings, c.ID)
	v := d.Load(ctx)
	return &dto.SettingsResponse{Settings: v, StorageState: documentState(d)}, nil
}

// Update applies the fields present in the body over the current settings
// and saves them.
func (h *SettingsHandler) Update(ctx context.Context, c *identity.Company, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	d := tenantdb.OpenDocument(h.store, entity.Settings, c.ID)
	v := d.Load(ctx)
	if err := dto.DecodeStrict(req.Settings, v); err != nil {
		return nil, dto.BadRequest("Invalid settings").Wrap(err)
	}
	saved, err := d.Save(ctx, v)
	if err != nil {
		return nil, storeError(err)
	}
	return &dto.SettingsResponse{Settings: saved, StorageState: documentState(d)}, nil
}
