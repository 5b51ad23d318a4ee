// Package entity defines the business records stored per tenant and the
// static table of entity kinds.
//
// Every record type implements [tenantdb.Row] with a pointer receiver.
// Validate centralizes the rules each kind enforces on create and update; it
// also normalizes a few fields (trimmed strings, upper-cased SKU, default
// status, recomputed totals) so that stored records are consistent.
//
// JSON field names match the storage format of the browser release, so that
// exported collections can be imported unchanged.
package entity
