package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/monitorbizz/monitorbizz/internal/entity"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{
			name:   "field error",
			err:    fmt.Errorf("%w: %w", tenantdb.ErrInvalid, &entity.FieldError{Field: "status", Message: "must be one of A, B"}),
			status: http.StatusBadRequest,
			field:  "status",
		},
		{
			name:   "invalid without field",
			err:    fmt.Errorf("%w: broken", tenantdb.ErrInvalid),
			status: http.StatusBadRequest,
		},
		{
			name:   "no tenant",
			err:    tenantdb.ErrNoTenant,
			status: http.StatusBadRequest,
		},
		{
			name:   "other",
			err:    tenantdb.ErrIDExhausted,
			status: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *dto.APIError
			if !errors.As(storeError(tt.err), &apiErr) {
				t.Fatalf("storeError() = %T", storeError(tt.err))
			}
			if apiErr.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode(), tt.status)
			}
			if tt.field != "" && apiErr.Details()["field"] != tt.field {
				t.Errorf("details = %v, want field %q", apiErr.Details(), tt.field)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	c := &identity.Company{ID: "c1", SubscribedServices: []string{"customers"}}
	if err := authorize(c, entity.CollectionCustomers); err != nil {
		t.Errorf("customers: %v", err)
	}
	err := authorize(c, entity.CollectionMachines)
	var apiErr *dto.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode() != http.StatusForbidden {
		t.Fatalf("machines: %v", err)
	}
	services, _ := apiErr.Details()["services"].([]string)
	if len(services) == 0 || services[0] != "machines" {
		t.Errorf("services detail = %v", apiErr.Details()["services"])
	}
}
