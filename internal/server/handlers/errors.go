package handlers

import (
	"errors"

	"github.com/monitorbizz/monitorbizz/internal/catalog"
	"github.com/monitorbizz/monitorbizz/internal/entity"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

// authorize checks that the company subscribed to a service unlocking
// resource.
func authorize(c *identity.Company, resource string) error {
	if catalog.Allowed(c.SubscribedServices, resource) {
		return nil
	}
	return dto.Forbidden("Service not subscribed").WithDetail("services", catalog.Unlocks(resource))
}

// storeError converts a tenantdb mutation error to an API error.
func storeError(err error) error {
	var fe *entity.FieldError
	switch {
	case errors.As(err, &fe):
		return dto.InvalidField(fe.Field, fe.Message)
	case errors.Is(err, tenantdb.ErrInvalid):
		return dto.BadRequest(err.Error())
	case errors.Is(err, tenantdb.ErrNoTenant):
		return dto.BadRequest("No tenant selected")
	default:
		return dto.InternalWithError("Failed to store record", err)
	}
}

func storageState(err error) dto.StorageState {
	if err == nil {
		return dto.StorageState{}
	}
	return dto.StorageState{Degraded: true, StorageError: err.Error()}
}

func collectionState[T tenantdb.Row[T]](c *tenantdb.Collection[T]) dto.StorageState {
	st := storageState(c.Err())
	_, st.Loading = c.Snapshot()
	return st
}

func documentState[T tenantdb.Doc[T]](d *tenantdb.Document[T]) dto.StorageState {
	st := storageState(d.Err())
	st.Loading = d.State() != tenantdb.Ready
	return st
}
