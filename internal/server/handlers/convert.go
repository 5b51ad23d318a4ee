// Converts between domain types and API types.

package handlers

import (
	"github.com/monitorbizz/monitorbizz/internal/catalog"
	"github.com/monitorbizz/monitorbizz/internal/dashboard"
	"github.com/monitorbizz/monitorbizz/internal/entity"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
)

func companyToResponse(c *identity.Company) dto.CompanyResponse {
	services := c.SubscribedServices
	if services == nil {
		services = []string{}
	}
	return dto.CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		IndustryType:       c.IndustryType,
		SubscribedServices: services,
	}
}

func serviceToResponse(s catalog.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          s.ID,
		Label:       s.Label,
		Icon:        s.Icon,
		Group:       s.Group,
		Description: s.Description,
	}
}

func columnsToResponse(columns []entity.Column) []dto.ColumnResponse {
	out := make([]dto.ColumnResponse, len(columns))
	for i, c := range columns {
		out[i] = dto.ColumnResponse{
			Name:        c.Name,
			Type:        c.Type,
			Required:    c.Required,
			Description: c.Description,
			Options:     c.Options,
		}
	}
	return out
}

func bucketsToResponse(buckets []dashboard.Bucket) []dto.BucketResponse {
	out := make([]dto.BucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = dto.BucketResponse{Label: b.Label, Value: b.Value}
	}
	return out
}

func summaryToResponse(s *dashboard.Summary) *dto.DashboardResponse {
	alerts := make([]dto.AlertResponse, len(s.Alerts))
	for i, a := range s.Alerts {
		alerts[i] = dto.AlertResponse{ID: a.ID, Type: a.Type, Title: a.Title, Description: a.Description}
	}
	return &dto.DashboardResponse{
		Machines:          s.Machines,
		MachinesByStatus:  s.MachinesByStatus,
		ProductionByType:  bucketsToResponse(s.ProductionByType),
		TypeDistribution:  bucketsToResponse(s.TypeDistribution),
		Production:        s.Production,
		OEE:               s.OEE,
		Alerts:            alerts,
		OpenWorkOrders:    s.OpenWorkOrders,
		InventoryValue:    s.InventoryValue,
		PipelineValue:     s.PipelineValue,
		OutstandingAmount: s.OutstandingAmount,
	}
}
