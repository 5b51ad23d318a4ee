package handlers

import (
	"context"

	"github.com/monitorbizz/monitorbizz/internal/catalog"
	"github.com/monitorbizz/monitorbizz/internal/entity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
)

// CatalogHandler describes the services and collections.
type CatalogHandler struct{}

// ListServices returns the service catalog.
func (h *CatalogHandler) ListServices(ctx context.Context, _ *dto.ListServicesRequest) (*dto.ListServicesResponse, error) {
	services := catalog.Services()
	resp := &dto.ListServicesResponse{Services: make([]dto.ServiceResponse, len(services))}
	for i, s := range services {
		resp.Services[i] = serviceToResponse(s)
	}
	return resp, nil
}

// ListCollections returns the collections, then the settings document.
func (h *CatalogHandler) ListCollections(ctx context.Context, _ *dto.ListCollectionsRequest) (*dto.ListCollectionsResponse, error) {
	resp := &dto.ListCollectionsResponse{Collections: make([]dto.CollectionResponse, 0, len(entity.Collections)+1)}
	for _, info := range entity.Collections {
		resp.Collections = append(resp.Collections, dto.CollectionResponse{
			Name:     info.Name,
			Label:    info.Label,
			Services: catalog.Unlocks(info.Name),
		})
	}
	resp.Collections = append(resp.Collections, dto.CollectionResponse{Name: entity.SettingsInfo.Name, Label: entity.SettingsInfo.Label})
	return resp, nil
}

// Schema returns the JSON Schema and columns of a collection.
func (h *CatalogHandler) Schema(ctx context.Context, req *dto.SchemaRequest) (*dto.SchemaResponse, error) {
	if _, ok := entity.Lookup(req.Collection); !ok {
		return nil, dto.NotFound("collection")
	}
	schema, err := entity.Schema(req.Collection)
	if err != nil {
		return nil, dto.InternalWithError("Failed to build schema", err)
	}
	columns, err := entity.Columns(req.Collection)
	if err != nil {
		return nil, dto.InternalWithError("Failed to build columns", err)
	}
	return &dto.SchemaResponse{
		Collection: req.Collection,
		Schema:     schema,
		Columns:    columnsToResponse(columns),
	}, nil
}
