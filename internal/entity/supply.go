// Supply chain records: inventory, vendors, purchase orders and shipments.

package entity

import (
	"math"
	"strings"
)

// InventoryItem is a stocked material or finished good.
type InventoryItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" jsonschema:"description=Item label,minLength=2"`
	SKU          string  `json:"sku" jsonschema:"description=Stock keeping unit (upper-case letters digits and hyphens),pattern=^[A-Z0-9-]+$"`
	Quantity     int     `json:"quantity" jsonschema:"description=Units on hand,minimum=0"`
	ReorderPoint int     `json:"reorderPoint" jsonschema:"description=Quantity at or below which the item must be reordered,minimum=0"`
	Location     string  `json:"location" jsonschema:"description=Storage location"`
	CostPerUnit  float64 `json:"costPerUnit" jsonschema:"minimum=0"`
}

// Clone returns a copy of the InventoryItem.
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	return &c
}

// GetID returns the InventoryItem's ID.
func (i *InventoryItem) GetID() string {
	return i.ID
}

// SetID sets the InventoryItem's ID.
func (i *InventoryItem) SetID(id string) {
	i.ID = id
}

// LowStock reports whether the item reached its reorder point.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderPoint
}

// Validate checks that the InventoryItem is valid. The SKU is upper-cased.
func (i *InventoryItem) Validate() error {
	if err := minLen("name", &i.Name, 2); err != nil {
		return err
	}
	i.SKU = strings.ToUpper(i.SKU)
	if err := minLen("sku", &i.SKU, 3); err != nil {
		return err
	}
	if !skuRe.MatchString(i.SKU) {
		return fieldErr("sku", "must contain only uppercase letters, numbers, and hyphens")
	}
	if err := nonNegative("quantity", float64(i.Quantity)); err != nil {
		return err
	}
	if err := nonNegative("reorderPoint", float64(i.ReorderPoint)); err != nil {
		return err
	}
	if err := nonNegative("costPerUnit", i.CostPerUnit); err != nil {
		return err
	}
	return minLen("location", &i.Location, 1)
}

// Vendor is a supplier.
type Vendor struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// Clone returns a copy of the Vendor.
func (v *Vendor) Clone() *Vendor {
	c := *v
	return &c
}

// GetID returns the Vendor's ID.
func (v *Vendor) GetID() string {
	return v.ID
}

// SetID sets the Vendor's ID.
func (v *Vendor) SetID(id string) {
	v.ID = id
}

// Validate checks that the Vendor is valid.
func (v *Vendor) Validate() error {
	if err := minLen("name", &v.Name, 1); err != nil {
		return err
	}
	v.ContactPerson = strings.TrimSpace(v.ContactPerson)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Address = strings.TrimSpace(v.Address)
	return optionalEmail("email", &v.Email)
}

// LineItem is a priced line of a purchase order or an invoice.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" jsonschema:"exclusiveMinimum=0"`
	UnitPrice   float64 `json:"unitPrice" jsonschema:"minimum=0"`
}

// Amount returns quantity times unit price.
func (l LineItem) Amount() float64 {
	return l.Quantity * l.UnitPrice
}

// lineTotal sums the line amounts, rounded to cents.
func lineTotal(items []LineItem) float64 {
	var total float64
	for _, l := range items {
		total += l.Amount()
	}
	return math.Round(total*100) / 100
}

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	ID                   string     `json:"id"`
	PONumber             string     `json:"poNumber"`
	VendorID             string     `json:"vendorId" jsonschema:"description=Vendor the order is placed with"`
	Items                []LineItem `json:"items" jsonschema:"minItems=1"`
	OrderDate            string     `json:"orderDate" jsonschema:"format=date"`
	ExpectedDeliveryDate string     `json:"expectedDeliveryDate" jsonschema:"format=date"`
	Status               string     `json:"status" jsonschema:"enum=Pending,enum=Ordered,enum=Shipped,enum=Received,enum=Cancelled"`
	TotalAmount          float64    `json:"totalAmount" jsonschema:"description=Sum of the line amounts; computed"`
}

// Clone returns a deep copy of the PurchaseOrder.
func (p *PurchaseOrder) Clone() *PurchaseOrder {
	c := *p
	if p.Items != nil {
		c.Items = append([]LineItem(nil), p.Items...)
	}
	return &c
}

// GetID returns the PurchaseOrder's ID.
func (p *PurchaseOrder) GetID() string {
	return p.ID
}

// SetID sets the PurchaseOrder's ID.
func (p *PurchaseOrder) SetID(id string) {
	p.ID = id
}

// Validate checks that the PurchaseOrder is valid and recomputes its total.
func (p *PurchaseOrder) Validate() error {
	if err := minLen("vendorId", &p.VendorID, 1); err != nil {
		return err
	}
	p.PONumber = strings.TrimSpace(p.PONumber)
	if err := dateOrder("orderDate", &p.OrderDate, "expectedDeliveryDate", &p.ExpectedDeliveryDate); err != nil {
		return err
	}
	if len(p.Items) == 0 {
		return fieldErr("items", "at least one line item is required")
	}
	for i := range p.Items {
		item := &p.Items[i]
		if err := minLen("items.description", &item.Description, 2); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return fieldErr("items.quantity", "must be greater than zero")
		}
		if item.UnitPrice <= 0 {
			return fieldErr("items.unitPrice", "must be greater than zero")
		}
	}
	p.TotalAmount = lineTotal(p.Items)
	return oneOf("status", &p.Status, PurchaseOrderStatuses)
}

// Shipment is an inbound or outbound delivery.
type Shipment struct {
	ID                string `json:"id"`
	TrackingNumber    string `json:"trackingNumber"`
	Carrier           string `json:"carrier"`
	Status            string `json:"status" jsonschema:"enum=Pending,enum=In Transit,enum=Delivered,enum=Delayed"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	EstimatedDelivery string `json:"estimatedDelivery" jsonschema:"format=date"`
	Type              string `json:"type" jsonschema:"enum=Inbound,enum=Outbound"`
}

// Clone returns a copy of the Shipment.
func (s *Shipment) Clone() *Shipment {
	c := *s
	return &c
}

// GetID returns the Shipment's ID.
func (s *Shipment) GetID() string {
	return s.ID
}

// SetID sets the Shipment's ID.
func (s *Shipment) SetID(id string) {
	s.ID = id
}

// Validate checks that the Shipment is valid.
func (s *Shipment) Validate() error {
	if err := minLen("trackingNumber", &s.TrackingNumber, 1); err != nil {
		return err
	}
	s.Carrier = strings.TrimSpace(s.Carrier)
	s.Origin = strings.TrimSpace(s.Origin)
	s.Destination = strings.TrimSpace(s.Destination)
	if err := date("estimatedDelivery", &s.EstimatedDelivery); err != nil {
		return err
	}
	if err := oneOf("type", &s.Type, ShipmentTypes); err != nil {
		return err
	}
	return oneOf("status", &s.Status, ShipmentStatuses)
}
