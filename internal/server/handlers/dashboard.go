package handlers

import (
	"context"

	"github.com/monitorbizz/monitorbizz/internal/catalog"
	"github.com/monitorbizz/monitorbizz/internal/dashboard"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
)

// DashboardHandler serves the executive overview.
type DashboardHandler struct {
	svc *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Get returns the overview of the tenant.
func (h *DashboardHandler) Get(ctx context.Context, c *identity.Company, _ *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	if err := authorize(c, catalog.ResourceDashboard); err != nil {
		return nil, err
	}
	return summaryToResponse(h.svc.Summary(ctx, c.ID)), nil
}
