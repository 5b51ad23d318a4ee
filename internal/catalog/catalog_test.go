package catalog

import (
	"errors"
	"slices"
	"testing"

	"github.com/monitorbizz/monitorbizz/internal/entity"
)

func TestCatalog(t *testing.T) {
	t.Run("ids are unique", func(t *testing.T) {
		seen := map[string]bool{}
		for _, s := range Services() {
			if seen[s.ID] {
				t.Errorf("duplicate service %q", s.ID)
			}
			seen[s.ID] = true
			if s.Label == "" || s.Group == "" {
				t.Errorf("service %q incomplete: %+v", s.ID, s)
			}
		}
	})

	t.Run("every collection is reachable", func(t *testing.T) {
		for _, info := range entity.Collections {
			ids := Unlocks(info.Name)
			if len(ids) == 0 {
				t.Errorf("collection %q has no service", info.Name)
			}
			for _, id := range ids {
				if _, ok := Lookup(id); !ok {
					t.Errorf("collection %q unlocked by unknown service %q", info.Name, id)
				}
			}
		}
	})

	t.Run("Services returns a copy", func(t *testing.T) {
		s := Services()
		s[0].Label = "changed"
		if Services()[0].Label == "changed" {
			t.Error("catalog modified through Services()")
		}
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{"empty", nil, []string{}, false},
		{"dedup and trim", []string{" machines", "machines", "", "invoicing"}, []string{"machines", "invoicing"}, false},
		{"unknown", []string{"machines", "teleport"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownService) {
					t.Errorf("error = %v, want ErrUnknownService", err)
				}
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllowed(t *testing.T) {
	demo := []string{
		"dashboard", "machines", "work-orders", "inventory", "production-planning", "quality-control",
		"purchase-orders", "vendors", "shipments", "customers", "sales-pipeline", "invoicing", "user-roles", "settings",
	}
	for _, info := range entity.Collections {
		if !Allowed(demo, info.Name) {
			t.Errorf("demo services do not unlock %q", info.Name)
		}
	}
	tests := []struct {
		subscribed []string
		resource   string
		want       bool
	}{
		{nil, entity.DocumentSettings, true},
		{nil, entity.CollectionMachines, false},
		{[]string{"manufacturing"}, entity.CollectionQualityChecks, true},
		{[]string{"manufacturing"}, entity.CollectionInvoices, false},
		{[]string{"purchase"}, entity.CollectionVendors, true},
		{[]string{"sales"}, entity.CollectionSalesDeals, true},
		{[]string{"machines"}, ResourceDashboard, false},
		{[]string{"dashboard"}, ResourceDashboard, true},
		{[]string{"dashboard"}, "unknown", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.subscribed, tt.resource); got != tt.want {
			t.Errorf("Allowed(%v, %q) = %v, want %v", tt.subscribed, tt.resource, got, tt.want)
		}
	}
}
