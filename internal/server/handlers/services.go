// Package handlers implements the HTTP API handlers.
//
// Every handler has the signature func(context.Context, [*identity.Company,]
// *Request) (*Response, error) and is adapted to net/http by the Wrap
// functions of the server package.
package handlers

import (
	"github.com/monitorbizz/monitorbizz/internal/config"
	"github.com/monitorbizz/monitorbizz/internal/dashboard"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

// Services bundles the backends used by the handlers.
type Services struct {
	Store     *tenantdb.Store
	Registry  *identity.Registry
	Dashboard *dashboard.Service
}

// Config is the server configuration plus build information.
type Config struct {
	*config.ServerConfig

	Version   string
	GoVersion string
	Revision  string
	Dirty     bool
}
