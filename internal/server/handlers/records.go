// Serves the records of the entity collections of a tenant.

package handlers

import (
	"context"

	"github.com/monitorbizz/monitorbizz/internal/entity"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

// records operates on one collection kind with untyped payloads.
type records interface {
	list(ctx context.Context, s *tenantdb.Store, tenantID string) (any, dto.StorageState)
	create(ctx context.Context, s *tenantdb.Store, tenantID string, body dto.Body) (any, dto.StorageState, error)
	update(ctx context.Context, s *tenantdb.Store, tenantID, id string, body dto.Body) (any, dto.StorageState, error)
	remove(ctx context.Context, s *tenantdb.Store, tenantID, id string) (bool, dto.StorageState)
}

// rowPtr constrains P to be *E and a store row.
type rowPtr[E any, P any] interface {
	*E
	tenantdb.Row[P]
}

type kindRecords[E any, P rowPtr[E, P]] struct {
	kind tenantdb.Kind[P]
}

func (k kindRecords[E, P]) list(ctx context.Context, s *tenantdb.Store, tenantID string) (any, dto.StorageState) {
	c := tenantdb.Open(s, k.kind, tenantID)
	rows := c.Load(ctx)
	return rows, collectionState(c)
}

func (k kindRecords[E, P]) create(ctx context.Context, s *tenantdb.Store, tenantID string, body dto.Body) (any, dto.StorageState, error) {
	row, err := decodeRecord[E, P](body)
	if err != nil {
		return nil, dto.StorageState{}, err
	}
	c := tenantdb.Open(s, k.kind, tenantID)
	created, err := c.Create(ctx, row)
	if err != nil {
		return nil, dto.StorageState{}, storeError(err)
	}
	return created, collectionState(c), nil
}

func (k kindRecords[E, P]) update(ctx context.Context, s *tenantdb.Store, tenantID, id string, body dto.Body) (any, dto.StorageState, error) {
	row, err := decodeRecord[E, P](body)
	if err != nil {
		return nil, dto.StorageState{}, err
	}
	row.SetID(id)
	c := tenantdb.Open(s, k.kind, tenantID)
	updated, ok, err := c.Update(ctx, row)
	if err != nil {
		return nil, dto.StorageState{}, storeError(err)
	}
	if !ok {
		return nil, dto.StorageState{}, dto.NotFound("record").WithDetail("id", id)
	}
	return updated, collectionState(c), nil
}

func (k kindRecords[E, P]) remove(ctx context.Context, s *tenantdb.Store, tenantID, id string) (bool, dto.StorageState) {
	c := tenantdb.Open(s, k.kind, tenantID)
	ok := c.Remove(ctx, id)
	return ok, collectionState(c)
}

func decodeRecord[E any, P rowPtr[E, P]](body dto.Body) (P, error) {
	row := P(new(E))
	if err := dto.DecodeStrict(body, row); err != nil {
		var zero P
		return zero, dto.BadRequest("Invalid record").Wrap(err)
	}
	return row, nil
}

// recordKinds maps collection names to their operations.
var recordKinds = map[string]records{
	entity.CollectionMachines:        kindRecords[entity.Machine, *entity.Machine]{entity.Machines},
	entity.CollectionWorkOrders:      kindRecords[entity.WorkOrder, *entity.WorkOrder]{entity.WorkOrders},
	entity.CollectionInventory:       kindRecords[entity.InventoryItem, *entity.InventoryItem]{entity.Inventory},
	entity.CollectionVendors:         kindRecords[entity.Vendor, *entity.Vendor]{entity.Vendors},
	entity.CollectionPurchaseOrders:  kindRecords[entity.PurchaseOrder, *entity.PurchaseOrder]{entity.PurchaseOrders},
	entity.CollectionCustomers:       kindRecords[entity.Customer, *entity.Customer]{entity.Customers},
	entity.CollectionShipments:       kindRecords[entity.Shipment, *entity.Shipment]{entity.Shipments},
	entity.CollectionSalesDeals:      kindRecords[entity.SalesDeal, *entity.SalesDeal]{entity.SalesDeals},
	entity.CollectionProductionPlans: kindRecords[entity.ProductionPlan, *entity.ProductionPlan]{entity.ProductionPlans},
	entity.CollectionQualityChecks:   kindRecords[entity.QualityCheck, *entity.QualityCheck]{entity.QualityChecks},
	entity.CollectionInvoices:        kindRecords[entity.Invoice, *entity.Invoice]{entity.Invoices},
	entity.CollectionUsers:           kindRecords[entity.User, *entity.User]{entity.Users},
}

// RecordHandler handles the CRUD endpoints of the collections.
type RecordHandler struct {
	store *tenantdb.Store
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(store *tenantdb.Store) *RecordHandler {
	return &RecordHandler{store: store}
}

// kind resolves a collection the company may access.
func (h *RecordHandler) kind(c *identity.Company, collection string) (records, error) {
	k, ok := recordKinds[collection]
	if !ok {
		return nil, dto.NotFound("collection").WithDetail("collection", collection)
	}
	if err := authorize(c, collection); err != nil {
		return nil, err
	}
	return k, nil
}

// List returns every record of a collection.
func (h *RecordHandler) List(ctx context.Context, c *identity.Company, req *dto.ListRecordsRequest) (*dto.ListRecordsResponse, error) {
	k, err := h.kind(c, req.Collection)
	if err != nil {
		return nil, err
	}
	rows, state := k.list(ctx, h.store, c.ID)
	return &dto.ListRecordsResponse{Collection: req.Collection, Records: rows, StorageState: state}, nil
}

// Create adds a record to a collection.
func (h *RecordHandler) Create(ctx context.Context, c *identity.Company, req *dto.RecordRequest) (*dto.RecordResponse, error) {
	k, err := h.kind(c, req.Collection)
	if err != nil {
		return nil, err
	}
	row, state, err := k.create(ctx, h.store, c.ID, req.Record)
	if err != nil {
		return nil, err
	}
	return &dto.RecordResponse{Record: row, StorageState: state}, nil
}

// Update replaces a record of a collection.
func (h *RecordHandler) Update(ctx context.Context, c *identity.Company, req *dto.RecordRequest) (*dto.RecordResponse, error) {
	if req.ID == "" {
		return nil, dto.InvalidField("id", "is required")
	}
	k, err := h.kind(c, req.Collection)
	if err != nil {
		return nil, err
	}
	row, state, err := k.update(ctx, h.store, c.ID, req.ID, req.Record)
	if err != nil {
		return nil, err
	}
	return &dto.RecordResponse{Record: row, StorageState: state}, nil
}

// Delete removes a record from a collection. Deleting a missing record
// succeeds with deleted=false.
func (h *RecordHandler) Delete(ctx context.Context, c *identity.Company, req *dto.DeleteRecordRequest) (*dto.DeleteRecordResponse, error) {
	k, err := h.kind(c, req.Collection)
	if err != nil {
		return nil, err
	}
	ok, state := k.remove(ctx, h.store, c.ID, req.ID)
	return &dto.DeleteRecordResponse{Deleted: ok, StorageState: state}, nil
}
