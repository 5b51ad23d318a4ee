package tenantdb

import "github.com/maruel/ksid"

// PrefixedID returns an identifier generator producing prefix followed by a
// ksid. Identifiers are time-sortable and strictly increasing within a
// process; the random bits keep separate processes apart.
func PrefixedID(prefix string) func() string {
	return func() string {
		return prefix + ksid.NewID().String()
	}
}
