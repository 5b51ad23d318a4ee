package entity

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/monitorbizz/monitorbizz/internal/kv"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

func TestDemoRecords(t *testing.T) {
	tests := []struct {
		collection string
		count      int
	}{
		{CollectionMachines, 7},
		{CollectionWorkOrders, 3},
		{CollectionInventory, 5},
		{CollectionVendors, 2},
		{CollectionPurchaseOrders, 2},
		{CollectionCustomers, 3},
		{CollectionShipments, 3},
		{CollectionSalesDeals, 5},
		{CollectionProductionPlans, 3},
		{CollectionQualityChecks, 3},
		{CollectionInvoices, 3},
		{CollectionUsers, 3},
	}
	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			rows, err := DemoRecords[map[string]any](tt.collection)
			if err != nil {
				t.Fatalf("DemoRecords() error = %v", err)
			}
			if len(rows) != tt.count {
				t.Errorf("len = %d, want %d", len(rows), tt.count)
			}
			seen := map[any]bool{}
			for _, r := range rows {
				id, ok := r["id"].(string)
				if !ok || id == "" {
					t.Errorf("record without string id: %v", r)
				}
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
			}
		})
	}

	t.Run("unknown collection", func(t *testing.T) {
		rows, err := DemoRecords[*Machine]("nope")
		if err != nil || len(rows) != 0 {
			t.Errorf("DemoRecords() = %v, %v", rows, err)
		}
	})
}

// validateAll runs Validate on every demo record of kind.
func validateAll[T tenantdb.Row[T]](t *testing.T, kind tenantdb.Kind[T]) {
	t.Helper()
	for _, r := range kind.Seed() {
		if err := r.Validate(); err != nil {
			t.Errorf("%s %s: %v", kind.Collection, r.GetID(), err)
		}
	}
}

func TestDemoRecordsAreValid(t *testing.T) {
	validateAll(t, Machines)
	validateAll(t, WorkOrders)
	validateAll(t, Inventory)
	validateAll(t, Vendors)
	validateAll(t, PurchaseOrders)
	validateAll(t, Customers)
	validateAll(t, Shipments)
	validateAll(t, SalesDeals)
	validateAll(t, ProductionPlans)
	validateAll(t, QualityChecks)
	validateAll(t, Invoices)
	validateAll(t, Users)
}

func TestDemoFields(t *testing.T) {
	machines := Machines.Seed()
	if m := machines[0]; m.ID != "1" || m.Name != "CNC-001" || m.Type != "CNC" || m.Status != MachineInUse {
		t.Errorf("machine 1 = %+v", m)
	}
	wos := WorkOrders.Seed()
	if wos[0].MachineID == nil || *wos[0].MachineID != "1" {
		t.Errorf("wo-1 machineId = %v", wos[0].MachineID)
	}
	if wos[2].MachineID != nil {
		t.Errorf("wo-3 machineId = %v, want null", *wos[2].MachineID)
	}
	inv := Inventory.Seed()
	if inv[0].CostPerUnit != 120.5 || inv[1].Name != `Steel Rod 1" Diameter` {
		t.Errorf("inventory = %+v %+v", inv[0], inv[1])
	}
	pos := PurchaseOrders.Seed()
	if pos[0].TotalAmount != 4500 || len(pos[0].Items) != 1 || pos[0].Items[0].UnitPrice != 150 {
		t.Errorf("po-1 = %+v", pos[0])
	}
	if s := Shipments.Seed()[0]; s.TrackingNumber != "1Z999AA10123456784" {
		t.Errorf("tracking number = %q", s.TrackingNumber)
	}
}

func TestKindsAreDistinct(t *testing.T) {
	var names []string
	for _, info := range Collections {
		if slices.Contains(names, info.Name) {
			t.Errorf("duplicate collection %q", info.Name)
		}
		names = append(names, info.Name)
		if _, ok := Lookup(info.Name); !ok {
			t.Errorf("Lookup(%q) failed", info.Name)
		}
	}
	if _, ok := Lookup(DocumentSettings); !ok {
		t.Error("Lookup(settings) failed")
	}
	if _, ok := Lookup("registered_companies"); ok {
		t.Error("Lookup() accepted an unknown name")
	}
}

func TestValidate(t *testing.T) {
	t.Run("Machine", func(t *testing.T) {
		tests := []struct {
			name    string
			m       Machine
			wantErr string
		}{
			{"valid", Machine{Name: "CNC-999", Type: "CNC", Status: "Available"}, ""},
			{"defaults", Machine{Name: "CNC-999"}, ""},
			{"short name", Machine{Name: " ab "}, "name"},
			{"bad type", Machine{Name: "Drill", Type: "Drill"}, "type"},
			{"bad status", Machine{Name: "Drill", Status: "Idle"}, "status"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				checkField(t, tt.m.Validate(), tt.wantErr)
			})
		}
		m := &Machine{Name: "  Drill  "}
		if err := m.Validate(); err != nil {
			t.Fatal(err)
		}
		if m.Name != "Drill" || m.Type != "CNC" || m.Status != MachineAvailable {
			t.Errorf("normalized = %+v", m)
		}
	})

	t.Run("InventoryItem", func(t *testing.T) {
		valid := InventoryItem{Name: "Bolt", SKU: "hw-m6", Quantity: 1, ReorderPoint: 0, Location: "Bin 1"}
		tests := []struct {
			name    string
			mutate  func(i *InventoryItem)
			wantErr string
		}{
			{"valid", func(*InventoryItem) {}, ""},
			{"short name", func(i *InventoryItem) { i.Name = "B" }, "name"},
			{"short sku", func(i *InventoryItem) { i.SKU = "AB" }, "sku"},
			{"sku chars", func(i *InventoryItem) { i.SKU = "AB_12" }, "sku"},
			{"negative quantity", func(i *InventoryItem) { i.Quantity = -1 }, "quantity"},
			{"negative reorder", func(i *InventoryItem) { i.ReorderPoint = -1 }, "reorderPoint"},
			{"negative cost", func(i *InventoryItem) { i.CostPerUnit = -0.01 }, "costPerUnit"},
			{"no location", func(i *InventoryItem) { i.Location = " " }, "location"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				i := valid
				tt.mutate(&i)
				checkField(t, i.Validate(), tt.wantErr)
			})
		}
		i := valid
		_ = i.Validate()
		if i.SKU != "HW-M6" {
			t.Errorf("SKU = %q, want upper-cased", i.SKU)
		}
	})

	t.Run("Invoice", func(t *testing.T) {
		valid := func() Invoice {
			return Invoice{
				CustomerID: "cust-1",
				IssueDate:  "2024-08-01",
				DueDate:    "2024-08-15",
				Items: []LineItem{
					{ID: "a", Description: "Consulting", Quantity: 3, UnitPrice: 100.10},
					{ID: "b", Description: "Travel", Quantity: 1, UnitPrice: 0},
				},
			}
		}
		tests := []struct {
			name    string
			mutate  func(i *Invoice)
			wantErr string
		}{
			{"valid", func(*Invoice) {}, ""},
			{"no customer", func(i *Invoice) { i.CustomerID = "" }, "customerId"},
			{"due before issue", func(i *Invoice) { i.DueDate = "2024-07-31" }, "dueDate"},
			{"same day", func(i *Invoice) { i.DueDate = i.IssueDate }, ""},
			{"bad date", func(i *Invoice) { i.IssueDate = "08/01/2024" }, "issueDate"},
			{"no items", func(i *Invoice) { i.Items = nil }, "items"},
			{"short description", func(i *Invoice) { i.Items[0].Description = "ab" }, "items.description"},
			{"zero quantity", func(i *Invoice) { i.Items[0].Quantity = 0 }, "items.quantity"},
			{"negative price", func(i *Invoice) { i.Items[0].UnitPrice = -1 }, "items.unitPrice"},
			{"bad status", func(i *Invoice) { i.Status = "Lost" }, "status"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				i := valid()
				tt.mutate(&i)
				checkField(t, i.Validate(), tt.wantErr)
			})
		}
		i := valid()
		i.TotalAmount = 1
		_ = i.Validate()
		if i.TotalAmount != 300.3 {
			t.Errorf("TotalAmount = %v, want 300.3", i.TotalAmount)
		}
		if i.Status != InvoiceDraft {
			t.Errorf("Status = %q, want Draft", i.Status)
		}
	})

	t.Run("PurchaseOrder", func(t *testing.T) {
		valid := func() PurchaseOrder {
			return PurchaseOrder{
				VendorID:             "ven-1",
				OrderDate:            "2024-07-25",
				ExpectedDeliveryDate: "2024-08-10",
				Items:                []LineItem{{ID: "1", Description: "Sheet", Quantity: 30, UnitPrice: 150}},
			}
		}
		tests := []struct {
			name    string
			mutate  func(p *PurchaseOrder)
			wantErr string
		}{
			{"valid", func(*PurchaseOrder) {}, ""},
			{"no vendor", func(p *PurchaseOrder) { p.VendorID = " " }, "vendorId"},
			{"delivery before order", func(p *PurchaseOrder) { p.ExpectedDeliveryDate = "2024-07-01" }, "expectedDeliveryDate"},
			{"no items", func(p *PurchaseOrder) { p.Items = []LineItem{} }, "items"},
			{"short description", func(p *PurchaseOrder) { p.Items[0].Description = "x" }, "items.description"},
			{"zero quantity", func(p *PurchaseOrder) { p.Items[0].Quantity = 0 }, "items.quantity"},
			{"free item", func(p *PurchaseOrder) { p.Items[0].UnitPrice = 0 }, "items.unitPrice"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p := valid()
				tt.mutate(&p)
				checkField(t, p.Validate(), tt.wantErr)
			})
		}
		p := valid()
		_ = p.Validate()
		if p.TotalAmount != 4500 || p.Status != "Pending" {
			t.Errorf("normalized = %+v", p)
		}
	})

	t.Run("User", func(t *testing.T) {
		tests := []struct {
			name    string
			u       User
			wantErr string
		}{
			{"valid", User{Name: "Jo", Email: "jo@acme.com", Role: "Editor"}, ""},
			{"short name", User{Name: "J", Email: "jo@acme.com", Role: "Editor"}, "name"},
			{"bad email", User{Name: "Jo", Email: "jo@acme", Role: "Editor"}, "email"},
			{"spaces in email", User{Name: "Jo", Email: "j o@acme.com", Role: "Editor"}, "email"},
			{"no role", User{Name: "Jo", Email: "jo@acme.com"}, "role"},
			{"bad role", User{Name: "Jo", Email: "jo@acme.com", Role: "Owner"}, "role"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				checkField(t, tt.u.Validate(), tt.wantErr)
			})
		}
		u := User{Name: "Jo", Email: "jo@acme.com", Role: "Viewer"}
		_ = u.Validate()
		if u.LastLogin != NeverLoggedIn || u.Status != "Active" {
			t.Errorf("normalized = %+v", u)
		}
	})

	t.Run("ProductionPlan", func(t *testing.T) {
		p := ProductionPlan{PlanName: "Run", StartDate: "2024-09-02", EndDate: "2024-09-01"}
		checkField(t, p.Validate(), "endDate")
		p = ProductionPlan{PlanName: "Run", StartDate: "2024-09-01", EndDate: "2024-09-01", OutputQuantity: -1}
		checkField(t, p.Validate(), "outputQuantity")
	})

	t.Run("WorkOrder", func(t *testing.T) {
		empty := ""
		w := WorkOrder{OrderNumber: "WO-9", MachineID: &empty, DueDate: "2024-13-01"}
		checkField(t, w.Validate(), "dueDate")
		w.DueDate = ""
		if err := w.Validate(); err != nil {
			t.Fatal(err)
		}
		if w.MachineID != nil {
			t.Errorf("blank machine id kept: %q", *w.MachineID)
		}
	})

	t.Run("others", func(t *testing.T) {
		checkField(t, (&Vendor{Name: "V", Email: "nope"}).Validate(), "email")
		checkField(t, (&Vendor{Name: "V"}).Validate(), "")
		checkField(t, (&Customer{Name: ""}).Validate(), "name")
		checkField(t, (&Shipment{TrackingNumber: "1", Type: "Sideways"}).Validate(), "type")
		checkField(t, (&SalesDeal{DealName: "D", Value: -5}).Validate(), "value")
		checkField(t, (&QualityCheck{PartNumber: "P", Result: "Maybe"}).Validate(), "result")
		checkField(t, (&AppSettings{CompanyName: "A", Currency: "EUR"}).Validate(), "autoSaveInterval")
		checkField(t, DefaultSettings().Validate(), "")
	})
}

func checkField(t *testing.T, err error, field string) {
	t.Helper()
	if field == "" {
		if err != nil {
			t.Errorf("Validate() error = %v", err)
		}
		return
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Validate() error = %v, want FieldError on %s", err, field)
	}
	if fe.Field != field {
		t.Errorf("Validate() field = %q (%v), want %q", fe.Field, err, field)
	}
}

func TestClone(t *testing.T) {
	id := "1"
	w := &WorkOrder{ID: "wo", MachineID: &id}
	c := w.Clone()
	*c.MachineID = "2"
	if *w.MachineID != "1" {
		t.Error("WorkOrder clone shares MachineID")
	}
	inv := &Invoice{Items: []LineItem{{Description: "a"}}}
	ci := inv.Clone()
	ci.Items[0].Description = "b"
	if inv.Items[0].Description != "a" {
		t.Error("Invoice clone shares Items")
	}
	po := &PurchaseOrder{Items: []LineItem{{Description: "a"}}}
	cp := po.Clone()
	cp.Items[0].Description = "b"
	if po.Items[0].Description != "a" {
		t.Error("PurchaseOrder clone shares Items")
	}
}

func TestSchema(t *testing.T) {
	t.Run("machines", func(t *testing.T) {
		s, err := Schema(CollectionMachines)
		if err != nil {
			t.Fatal(err)
		}
		if slices.Contains(s.Required, "id") {
			t.Error("id is required")
		}
		status, ok := s.Properties.Get("status")
		if !ok {
			t.Fatal("no status property")
		}
		if len(status.Enum) != len(MachineStatuses) {
			t.Errorf("status enum = %v", status.Enum)
		}
		if _, err := json.Marshal(s); err != nil {
			t.Errorf("Marshal() error = %v", err)
		}
	})

	t.Run("every kind", func(t *testing.T) {
		for _, info := range append(slices.Clone(Collections), SettingsInfo) {
			if _, err := Schema(info.Name); err != nil {
				t.Errorf("Schema(%q) error = %v", info.Name, err)
			}
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := Schema("nope"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestColumns(t *testing.T) {
	cols, err := Columns(CollectionInventory)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	var order []string
	for _, c := range cols {
		got[c.Name] = c.Type
		order = append(order, c.Name)
	}
	want := []string{"id", "name", "sku", "quantity", "reorderPoint", "location", "costPerUnit"}
	if !slices.Equal(order, want) {
		t.Errorf("columns = %v, want %v", order, want)
	}
	if got["quantity"] != "number" || got["name"] != "text" {
		t.Errorf("types = %v", got)
	}

	cols, err = Columns(CollectionWorkOrders)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cols {
		switch c.Name {
		case "status":
			if c.Type != "select" || !slices.Equal(c.Options, WorkOrderStatuses) {
				t.Errorf("status column = %+v", c)
			}
		case "dueDate":
			if c.Type != "date" {
				t.Errorf("dueDate column = %+v", c)
			}
		}
	}
}

func TestKindsWithStore(t *testing.T) {
	ctx := t.Context()
	s := tenantdb.New(kv.NewMemory(0), "1")
	if got := tenantdb.Open(s, Invoices, "1").Load(ctx); len(got) != 3 {
		t.Errorf("demo invoices = %d, want 3", len(got))
	}
	if got := tenantdb.Open(s, Invoices, "2").Load(ctx); len(got) != 0 {
		t.Errorf("tenant 2 invoices = %d, want 0", len(got))
	}
	u, err := tenantdb.Open(s, Users, "2").Create(ctx, &User{Name: "Jo", Email: "jo@x.io", Role: "Viewer", LastLogin: ""})
	if err != nil {
		t.Fatal(err)
	}
	if u.LastLogin != NeverLoggedIn {
		t.Errorf("LastLogin = %q", u.LastLogin)
	}
	settings := tenantdb.OpenDocument(s, Settings, "2").Load(ctx)
	if *settings != *DefaultSettings() {
		t.Errorf("settings = %+v", settings)
	}
}
