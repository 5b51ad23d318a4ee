package tenantdb

import "errors"

var (
	// ErrNoTenant is returned by mutations on a collection without tenant.
	ErrNoTenant = errors.New("no tenant selected")
	// ErrInvalid wraps record validation failures.
	ErrInvalid = errors.New("invalid record")
	// ErrIDExhausted is returned by Create when the identifier generator
	// keeps producing identifiers already in use.
	ErrIDExhausted = errors.New("could not generate a unique identifier")
)
